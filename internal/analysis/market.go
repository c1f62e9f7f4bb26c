package analysis

import (
	"slices"
	"sort"
	"strings"

	"folio/internal/models"

	"github.com/shopspring/decimal"
)

const moversLimit = 5

var (
	IndexSymbols  = []string{"NIFTY50", "SENSEX", "NIFTYBANK"}
	CryptoSymbols = []string{"BTC", "ETH", "SOL", "ADA"}
)

type Segments struct {
	Indices []models.MarketQuote `json:"indices"`
	Stocks  []models.MarketQuote `json:"stocks"`
	Crypto  []models.MarketQuote `json:"crypto"`
}

type Movers struct {
	Gainers []models.MarketQuote `json:"gainers"`
	Losers  []models.MarketQuote `json:"losers"`
}

type SearchResult struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

func Segment(quotes []models.MarketQuote) Segments {
	s := Segments{Indices: []models.MarketQuote{}, Stocks: []models.MarketQuote{}, Crypto: []models.MarketQuote{}}
	for _, q := range quotes {
		switch {
		case slices.Contains(IndexSymbols, q.Symbol):
			s.Indices = append(s.Indices, q)
		case slices.Contains(CryptoSymbols, q.Symbol):
			s.Crypto = append(s.Crypto, q)
		default:
			s.Stocks = append(s.Stocks, q)
		}
	}
	return s
}

// TopMovers ranks plain stocks (no indices, no crypto) by percentage change.
func TopMovers(quotes []models.MarketQuote) Movers {
	m := Movers{Gainers: []models.MarketQuote{}, Losers: []models.MarketQuote{}}
	for _, q := range Segment(quotes).Stocks {
		switch q.ChangePercent.Sign() {
		case 1:
			m.Gainers = append(m.Gainers, q)
		case -1:
			m.Losers = append(m.Losers, q)
		}
	}
	sort.SliceStable(m.Gainers, func(i, j int) bool {
		return m.Gainers[i].ChangePercent.GreaterThan(m.Gainers[j].ChangePercent)
	})
	sort.SliceStable(m.Losers, func(i, j int) bool {
		return m.Losers[i].ChangePercent.LessThan(m.Losers[j].ChangePercent)
	})
	if len(m.Gainers) > moversLimit {
		m.Gainers = m.Gainers[:moversLimit]
	}
	if len(m.Losers) > moversLimit {
		m.Losers = m.Losers[:moversLimit]
	}
	return m
}

// Search matches query against symbol and name, ignoring case, and keeps at
// most limit results in quote order.
func Search(quotes []models.MarketQuote, query string, limit int) []SearchResult {
	q := strings.ToLower(query)
	res := []SearchResult{}
	for _, quote := range quotes {
		if len(res) == limit {
			break
		}
		if strings.Contains(strings.ToLower(quote.Name), q) || strings.Contains(strings.ToLower(quote.Symbol), q) {
			res = append(res, SearchResult{Symbol: quote.Symbol, Name: quote.Name, Price: quote.Price})
		}
	}
	return res
}

