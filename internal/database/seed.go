package database

import (
	"context"
	"fmt"
	"time"

	"folio/internal/models"

	"github.com/shopspring/decimal"
)

type seedQuote struct {
	symbol, name, price, change, changePercent string
}

var seedQuotes = []seedQuote{
	{"NIFTY50", "NIFTY 50", "19674.25", "234.50", "1.2"},
	{"SENSEX", "SENSEX", "65995.63", "523.20", "0.8"},
	{"NIFTYBANK", "NIFTY BANK", "45821.30", "-145.75", "-0.3"},
	{"RELIANCE", "Reliance Industries", "2456.75", "124.25", "5.2"},
	{"TCS", "Tata Consultancy Services", "3892.40", "179.60", "4.8"},
	{"HDFCBANK", "HDFC Bank", "1678.90", "63.15", "3.9"},
	{"ADANIENT", "Adani Enterprises", "2234.50", "-78.50", "-3.4"},
	{"BAJFINANCE", "Bajaj Finance", "6789.25", "-195.75", "-2.8"},
	{"INFY", "Infosys", "1456.80", "-31.20", "-2.1"},
	{"BTC", "Bitcoin", "43256.78", "1015.22", "2.4"},
	{"ETH", "Ethereum", "2789.45", "49.35", "1.8"},
	{"SOL", "Solana", "98.67", "-1.23", "-1.2"},
	{"ADA", "Cardano", "0.4567", "0.0137", "3.1"},
}

// SeedQuotes returns the static market table served by the API.
func SeedQuotes() []models.MarketQuote {
	res := make([]models.MarketQuote, 0, len(seedQuotes))
	for _, s := range seedQuotes {
		res = append(res, models.MarketQuote{
			Symbol:        s.symbol,
			Name:          s.name,
			Price:         decimal.RequireFromString(s.price),
			Change:        decimal.RequireFromString(s.change),
			ChangePercent: decimal.RequireFromString(s.changePercent),
		})
	}
	return res
}

// SeedNews returns the sample articles, published relative to now.
func SeedNews(now time.Time) []models.NewsArticle {
	article := func(title, summary, source, category, image, url string, age time.Duration) models.NewsArticle {
		content := "Full article content..."
		return models.NewsArticle{
			Title:       title,
			Summary:     &summary,
			Content:     &content,
			Source:      source,
			Category:    category,
			ImageURL:    &image,
			SourceURL:   &url,
			PublishedAt: now.Add(-age).UTC(),
		}
	}
	return []models.NewsArticle{
		article(
			"RBI Announces New Monetary Policy: Interest Rates to Remain Unchanged",
			"The Reserve Bank of India maintains its current stance on interest rates, citing inflation concerns and economic stability factors in their latest policy review...",
			"Economic Times", models.CategoryIndian,
			"https://images.unsplash.com/photo-1560472354-b33ff0c44a43?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=400",
			"https://economictimes.com", 2*time.Hour,
		),
		article(
			"Sensex Hits New All-Time High Amid Strong Q3 Earnings",
			"Indian stock markets rally as major corporations report better-than-expected quarterly results, driving investor confidence to new heights...",
			"Business Standard", models.CategoryIndian,
			"https://images.unsplash.com/photo-1590283603385-17ffb3a7f29f?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=400",
			"https://business-standard.com", 4*time.Hour,
		),
		article(
			"Federal Reserve Signals Potential Rate Changes in 2024",
			"The US Federal Reserve Chairman hinted at possible monetary policy adjustments in response to evolving economic conditions and inflation trends...",
			"Reuters", models.CategoryInternational,
			"https://images.unsplash.com/photo-1526304640581-d334cdbbf45e?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=400",
			"https://reuters.com", 4*time.Hour,
		),
	}
}

// Seed loads the sample quotes and, if the store has no news yet, the sample
// articles. Running it twice leaves the store unchanged apart from quote
// timestamps.
func Seed(ctx context.Context, s Storage, now time.Time) error {
	for _, q := range SeedQuotes() {
		if _, err := s.UpsertQuote(ctx, q); err != nil {
			return fmt.Errorf("seed quote %s: %w", q.Symbol, err)
		}
	}
	existing, err := s.GetNews(ctx, "")
	if err != nil {
		return fmt.Errorf("list news: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, a := range SeedNews(now) {
		if _, err := s.CreateNews(ctx, a); err != nil {
			return fmt.Errorf("seed news %q: %w", a.Title, err)
		}
	}
	return nil
}
