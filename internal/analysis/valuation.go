// Package analysis values holdings against market quotes. Everything here is
// a pure function of its arguments.
package analysis

import (
	"folio/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type EnrichedHolding struct {
	models.Holding
	Invested     decimal.Decimal `json:"invested"`
	CurrentValue decimal.Decimal `json:"currentValue"`
	PnL          decimal.Decimal `json:"pnl"`
	PnLPercent   decimal.Decimal `json:"pnlPercent"`
}

type Summary struct {
	TotalInvested    decimal.Decimal `json:"totalInvested"`
	CurrentValue     decimal.Decimal `json:"currentValue"`
	TotalPnL         decimal.Decimal `json:"totalPnL"`
	ReturnPercentage decimal.Decimal `json:"returnPercentage"`
}

// MatchQuote returns the first quote whose symbol equals the holding symbol
// or whose name equals the holding name.
func MatchQuote(h models.Holding, quotes []models.MarketQuote) (models.MarketQuote, bool) {
	for _, q := range quotes {
		if h.Symbol != nil && q.Symbol == *h.Symbol {
			return q, true
		}
		if q.Name == h.Name {
			return q, true
		}
	}
	return models.MarketQuote{}, false
}

// Enrich values a single holding. Without a matching quote the holding is
// valued at its buying price.
func Enrich(h models.Holding, quotes []models.MarketQuote) EnrichedHolding {
	invested := h.Units.Mul(h.BuyingPrice)
	current := invested
	if q, ok := MatchQuote(h, quotes); ok {
		current = h.Units.Mul(q.Price)
	}
	pnl := current.Sub(invested)
	return EnrichedHolding{
		Holding:      h,
		Invested:     invested,
		CurrentValue: current,
		PnL:          pnl,
		PnLPercent:   percentOf(pnl, invested),
	}
}

func Summarize(items []EnrichedHolding) Summary {
	var s Summary
	for _, it := range items {
		s.TotalInvested = s.TotalInvested.Add(it.Invested)
		s.CurrentValue = s.CurrentValue.Add(it.CurrentValue)
	}
	s.TotalPnL = s.CurrentValue.Sub(s.TotalInvested)
	s.ReturnPercentage = percentOf(s.TotalPnL, s.TotalInvested)
	return s
}

// Analyze enriches every holding, in order, and sums the result.
func Analyze(holdings []models.Holding, quotes []models.MarketQuote) ([]EnrichedHolding, Summary) {
	items := make([]EnrichedHolding, 0, len(holdings))
	for _, h := range holdings {
		items = append(items, Enrich(h, quotes))
	}
	return items, Summarize(items)
}

// percentOf returns part/whole*100, or zero when whole is zero.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}
