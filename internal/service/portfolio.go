package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"folio/internal/analysis"
	"folio/internal/csvimport"
	"folio/internal/database"
	"folio/internal/models"

	"github.com/sirupsen/logrus"
)

const searchLimit = 10

type Analysis struct {
	Portfolio   []analysis.EnrichedHolding `json:"portfolio"`
	Summary     analysis.Summary           `json:"summary"`
	RiskMetrics analysis.RiskMetrics       `json:"riskMetrics"`
}

// UploadResult counts the outcome of a bulk import. Errors holds one message
// per failed row.
type UploadResult struct {
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors"`
}

type Portfolio struct {
	store database.Storage
	log   *logrus.Logger
	now   func() time.Time
	rnd   func() float64
}

func NewPortfolio(store database.Storage, log *logrus.Logger) *Portfolio {
	return &Portfolio{store: store, log: log, now: time.Now, rnd: rand.Float64}
}

func (p *Portfolio) Holdings(ctx context.Context) ([]models.Holding, error) {
	return p.store.GetHoldings(ctx)
}

// CreateHolding validates row and stores it. Rule violations come back as
// *SchemaError.
func (p *Portfolio) CreateHolding(ctx context.Context, row csvimport.Row) (models.Holding, error) {
	nh, err := csvimport.ValidateRow(row)
	if err != nil {
		return models.Holding{}, &SchemaError{Err: err}
	}
	h, err := p.store.CreateHolding(ctx, nh)
	if err != nil {
		return models.Holding{}, fmt.Errorf("create holding: %w", err)
	}
	return h, nil
}

func (p *Portfolio) UpdateHolding(ctx context.Context, id int64, patch models.HoldingPatch) (models.Holding, error) {
	if err := csvimport.CheckPatch(patch); err != nil {
		return models.Holding{}, &SchemaError{Err: err}
	}
	return p.store.UpdateHolding(ctx, id, patch)
}

func (p *Portfolio) DeleteHolding(ctx context.Context, id int64) (bool, error) {
	return p.store.DeleteHolding(ctx, id)
}

// Upload stores each decodable, valid row in order. A bad row is counted and
// reported but never stops the rows after it.
func (p *Portfolio) Upload(ctx context.Context, raw []json.RawMessage) UploadResult {
	res := UploadResult{Errors: []string{}}
	for i, msg := range raw {
		var row csvimport.Row
		if err := json.Unmarshal(msg, &row); err != nil {
			p.log.Warnf("upload row %d: %v", i+1, err)
			res.fail(rowName(msg), "Invalid row format")
			continue
		}
		p.uploadRow(ctx, row, &res)
	}
	return res
}

// ImportCSV parses text and stores each row the way Upload does, reporting
// failures in the same form. A *csvimport.ParseError aborts the whole import.
func (p *Portfolio) ImportCSV(ctx context.Context, text string) (UploadResult, error) {
	rows, err := csvimport.Parse(text)
	if err != nil {
		return UploadResult{}, err
	}
	res := UploadResult{Errors: []string{}}
	for _, row := range rows {
		p.uploadRow(ctx, row, &res)
	}
	p.log.Infof("csv import: %d stored, %d failed", res.Successful, res.Failed)
	return res, nil
}

func (p *Portfolio) uploadRow(ctx context.Context, row csvimport.Row, res *UploadResult) {
	nh, err := csvimport.ValidateRow(row)
	if err != nil {
		var verr *csvimport.ValidationError
		if errors.As(err, &verr) {
			res.fail(row.Name, verr.Reason)
		} else {
			res.fail(row.Name, err.Error())
		}
		return
	}
	if _, err := p.store.CreateHolding(ctx, nh); err != nil {
		p.log.Errorf("upload row %q: %v", row.Name, err)
		res.fail(row.Name, "Unknown error")
		return
	}
	res.Successful++
}

func (r *UploadResult) fail(name, reason string) {
	r.Failed++
	r.Errors = append(r.Errors, fmt.Sprintf("Row with name %q: %s", name, reason))
}

// rowName digs the name out of a row that failed to decode as a whole.
func rowName(msg json.RawMessage) string {
	var partial struct {
		Name any `json:"name"`
	}
	if err := json.Unmarshal(msg, &partial); err != nil || partial.Name == nil {
		return ""
	}
	return fmt.Sprint(partial.Name)
}

func (p *Portfolio) Analyze(ctx context.Context) (Analysis, error) {
	holdings, err := p.store.GetHoldings(ctx)
	if err != nil {
		return Analysis{}, fmt.Errorf("load holdings: %w", err)
	}
	quotes, err := p.store.GetQuotes(ctx)
	if err != nil {
		return Analysis{}, fmt.Errorf("load quotes: %w", err)
	}
	items, summary := analysis.Analyze(holdings, quotes)
	return Analysis{Portfolio: items, Summary: summary, RiskMetrics: analysis.DefaultRiskMetrics}, nil
}

func (p *Portfolio) Allocation(ctx context.Context) ([]analysis.Allocation, error) {
	a, err := p.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.AssetAllocation(a.Portfolio), nil
}

// Performance prefers recorded snapshots and falls back to a mock curve
// built from the invested total.
func (p *Portfolio) Performance(ctx context.Context) (analysis.Performance, error) {
	vals, err := p.store.GetValuations(ctx)
	if err != nil {
		return analysis.Performance{}, fmt.Errorf("load valuations: %w", err)
	}
	if len(vals) > 0 {
		return analysis.SnapshotPerformance(vals), nil
	}
	a, err := p.Analyze(ctx)
	if err != nil {
		return analysis.Performance{}, err
	}
	return analysis.MockPerformance(a.Summary.TotalInvested, p.rnd), nil
}

// SnapshotValuation records today's summary. It runs as a scheduled job.
func (p *Portfolio) SnapshotValuation(ctx context.Context) error {
	a, err := p.Analyze(ctx)
	if err != nil {
		return err
	}
	v := models.DailyValuation{
		Date:          p.now().UTC().Format("2006-01-02"),
		TotalInvested: a.Summary.TotalInvested,
		TotalValue:    a.Summary.CurrentValue,
	}
	if err := p.store.SaveValuation(ctx, v); err != nil {
		return fmt.Errorf("save valuation %s: %w", v.Date, err)
	}
	p.log.Debugf("valuation snapshot %s: %s", v.Date, v.TotalValue.StringFixed(2))
	return nil
}

func (p *Portfolio) Quotes(ctx context.Context) ([]models.MarketQuote, error) {
	return p.store.GetQuotes(ctx)
}

// Quote looks a symbol up case-insensitively.
func (p *Portfolio) Quote(ctx context.Context, symbol string) (models.MarketQuote, error) {
	return p.store.GetQuoteBySymbol(ctx, strings.ToUpper(symbol))
}

func (p *Portfolio) SearchStocks(ctx context.Context, query string) ([]analysis.SearchResult, error) {
	quotes, err := p.store.GetQuotes(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.Search(quotes, query, searchLimit), nil
}

func (p *Portfolio) Movers(ctx context.Context) (analysis.Movers, error) {
	quotes, err := p.store.GetQuotes(ctx)
	if err != nil {
		return analysis.Movers{}, err
	}
	return analysis.TopMovers(quotes), nil
}

func (p *Portfolio) Segments(ctx context.Context) (analysis.Segments, error) {
	quotes, err := p.store.GetQuotes(ctx)
	if err != nil {
		return analysis.Segments{}, err
	}
	return analysis.Segment(quotes), nil
}

func (p *Portfolio) News(ctx context.Context, category string) ([]models.NewsArticle, error) {
	return p.store.GetNews(ctx, category)
}
