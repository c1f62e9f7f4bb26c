package database

import (
	"context"
	"database/sql"
	"errors"

	"folio/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

const (
	holdingColumns = `id, name, symbol, units, buying_price, purchase_date, type, current_price, created_at`
	quoteColumns   = `symbol, name, price, change, change_percent, updated_at`
	newsColumns    = `id, title, summary, content, source, category, image_url, source_url, published_at, created_at`
)

// Repo is the Postgres implementation of Storage.
type Repo struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func New(db *sqlx.DB, log *logrus.Logger) *Repo {
	return &Repo{db: db, log: log}
}

func (r *Repo) GetHoldings(ctx context.Context) ([]models.Holding, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT `+holdingColumns+` FROM holdings ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []models.Holding{}
	for rows.Next() {
		var h models.Holding
		if err := rows.StructScan(&h); err != nil {
			r.log.Warnf("scan holding failed: %v", err)
			continue
		}
		res = append(res, h)
	}
	return res, rows.Err()
}

func (r *Repo) GetHolding(ctx context.Context, id int64) (models.Holding, error) {
	var h models.Holding
	err := r.db.GetContext(ctx, &h, `SELECT `+holdingColumns+` FROM holdings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Holding{}, ErrNotFound
	}
	return h, err
}

func (r *Repo) CreateHolding(ctx context.Context, nh models.NewHolding) (models.Holding, error) {
	var h models.Holding
	q := `INSERT INTO holdings (name, symbol, units, buying_price, purchase_date, type, created_at)
		VALUES ($1, $2, $3::numeric, $4::numeric, $5, $6, now())
		RETURNING ` + holdingColumns
	if err := r.db.GetContext(ctx, &h, q, nh.Name, nh.Symbol, nh.Units.String(), nh.BuyingPrice.String(), nh.PurchaseDate, string(nh.Type)); err != nil {
		return models.Holding{}, err
	}
	return h, nil
}

func (r *Repo) UpdateHolding(ctx context.Context, id int64, patch models.HoldingPatch) (models.Holding, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Holding{}, err
	}
	defer tx.Rollback()

	var h models.Holding
	if err := tx.GetContext(ctx, &h, `SELECT `+holdingColumns+` FROM holdings WHERE id = $1 FOR UPDATE`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Holding{}, ErrNotFound
		}
		return models.Holding{}, err
	}
	h = patch.Apply(h)

	var currentPrice interface{}
	if h.CurrentPrice.Valid {
		currentPrice = h.CurrentPrice.Decimal.String()
	}
	q := `UPDATE holdings SET name = $2, symbol = $3, units = $4::numeric, buying_price = $5::numeric,
		purchase_date = $6, type = $7, current_price = $8::numeric
		WHERE id = $1 RETURNING ` + holdingColumns
	var updated models.Holding
	if err := tx.GetContext(ctx, &updated, q, id, h.Name, h.Symbol, h.Units.String(), h.BuyingPrice.String(), h.PurchaseDate, string(h.Type), currentPrice); err != nil {
		return models.Holding{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Holding{}, err
	}
	return updated, nil
}

func (r *Repo) DeleteHolding(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM holdings WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repo) GetQuotes(ctx context.Context) ([]models.MarketQuote, error) {
	res := []models.MarketQuote{}
	if err := r.db.SelectContext(ctx, &res, `SELECT `+quoteColumns+` FROM market_quotes ORDER BY seq ASC`); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Repo) GetQuoteBySymbol(ctx context.Context, symbol string) (models.MarketQuote, error) {
	var q models.MarketQuote
	err := r.db.GetContext(ctx, &q, `SELECT `+quoteColumns+` FROM market_quotes WHERE symbol = $1`, symbol)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MarketQuote{}, ErrNotFound
	}
	return q, err
}

func (r *Repo) UpsertQuote(ctx context.Context, mq models.MarketQuote) (models.MarketQuote, error) {
	q := `INSERT INTO market_quotes (symbol, name, price, change, change_percent, updated_at)
		VALUES ($1, $2, $3::numeric, $4::numeric, $5::numeric, now())
		ON CONFLICT (symbol) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price,
			change = EXCLUDED.change, change_percent = EXCLUDED.change_percent, updated_at = now()
		RETURNING ` + quoteColumns
	var res models.MarketQuote
	if err := r.db.GetContext(ctx, &res, q, mq.Symbol, mq.Name, mq.Price.String(), mq.Change.String(), mq.ChangePercent.String()); err != nil {
		return models.MarketQuote{}, err
	}
	return res, nil
}

func (r *Repo) GetNews(ctx context.Context, category string) ([]models.NewsArticle, error) {
	res := []models.NewsArticle{}
	q := `SELECT ` + newsColumns + ` FROM news_articles WHERE ($1 = '' OR category = $1) ORDER BY published_at DESC, id ASC`
	if err := r.db.SelectContext(ctx, &res, q, category); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Repo) CreateNews(ctx context.Context, a models.NewsArticle) (models.NewsArticle, error) {
	q := `INSERT INTO news_articles (title, summary, content, source, category, image_url, source_url, published_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		RETURNING ` + newsColumns
	var res models.NewsArticle
	if err := r.db.GetContext(ctx, &res, q, a.Title, a.Summary, a.Content, a.Source, a.Category, a.ImageURL, a.SourceURL, a.PublishedAt); err != nil {
		return models.NewsArticle{}, err
	}
	return res, nil
}

func (r *Repo) SaveValuation(ctx context.Context, v models.DailyValuation) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO daily_valuations (date, total_invested, total_value)
		VALUES ($1, $2::numeric, $3::numeric)
		ON CONFLICT (date) DO UPDATE SET total_invested = EXCLUDED.total_invested, total_value = EXCLUDED.total_value`,
		v.Date, v.TotalInvested.StringFixed(4), v.TotalValue.StringFixed(4))
	return err
}

func (r *Repo) GetValuations(ctx context.Context) ([]models.DailyValuation, error) {
	res := []models.DailyValuation{}
	if err := r.db.SelectContext(ctx, &res, `SELECT date, total_invested, total_value FROM daily_valuations ORDER BY date ASC`); err != nil {
		return nil, err
	}
	return res, nil
}
