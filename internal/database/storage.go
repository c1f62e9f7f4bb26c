package database

import (
	"context"

	"folio/internal/models"
)

// Storage owns every piece of mutable state in the service. MemStore and
// Repo are the two implementations.
type Storage interface {
	GetHoldings(ctx context.Context) ([]models.Holding, error)
	GetHolding(ctx context.Context, id int64) (models.Holding, error)
	CreateHolding(ctx context.Context, h models.NewHolding) (models.Holding, error)
	// UpdateHolding returns ErrNotFound for an unknown id.
	UpdateHolding(ctx context.Context, id int64, patch models.HoldingPatch) (models.Holding, error)
	// DeleteHolding reports whether a holding was removed.
	DeleteHolding(ctx context.Context, id int64) (bool, error)

	GetQuotes(ctx context.Context) ([]models.MarketQuote, error)
	// GetQuoteBySymbol returns ErrNotFound for an unknown symbol.
	GetQuoteBySymbol(ctx context.Context, symbol string) (models.MarketQuote, error)
	UpsertQuote(ctx context.Context, q models.MarketQuote) (models.MarketQuote, error)

	// GetNews returns articles newest first; an empty category means all.
	GetNews(ctx context.Context, category string) ([]models.NewsArticle, error)
	CreateNews(ctx context.Context, a models.NewsArticle) (models.NewsArticle, error)

	// SaveValuation stores one snapshot per date, replacing an earlier one.
	SaveValuation(ctx context.Context, v models.DailyValuation) error
	// GetValuations returns snapshots oldest first.
	GetValuations(ctx context.Context) ([]models.DailyValuation, error)
}
