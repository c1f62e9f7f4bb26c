package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type HoldingType string

const (
	TypeStock  HoldingType = "Stock"
	TypeSIP    HoldingType = "SIP"
	TypeCrypto HoldingType = "Crypto"
	TypeCash   HoldingType = "Cash"
)

// HoldingTypes lists the types a holding may be created with. Cash only
// appears in allocation charts.
var HoldingTypes = []HoldingType{TypeStock, TypeSIP, TypeCrypto}

func (t HoldingType) Valid() bool {
	for _, v := range HoldingTypes {
		if t == v {
			return true
		}
	}
	return false
}

type Holding struct {
	ID           int64               `db:"id" json:"id"`
	Name         string              `db:"name" json:"name"`
	Symbol       *string             `db:"symbol" json:"symbol"`
	Units        decimal.Decimal     `db:"units" json:"units"`
	BuyingPrice  decimal.Decimal     `db:"buying_price" json:"buyingPrice"`
	PurchaseDate string              `db:"purchase_date" json:"purchaseDate"`
	Type         HoldingType         `db:"type" json:"type"`
	CurrentPrice decimal.NullDecimal `db:"current_price" json:"currentPrice"`
	CreatedAt    time.Time           `db:"created_at" json:"createdAt"`
}

// NewHolding is a holding that passed validation and has no identity yet.
type NewHolding struct {
	Name         string
	Symbol       *string
	Units        decimal.Decimal
	BuyingPrice  decimal.Decimal
	PurchaseDate string
	Type         HoldingType
}

// HoldingPatch carries a partial update; nil fields are left untouched.
type HoldingPatch struct {
	Name         *string              `json:"name"`
	Symbol       *string              `json:"symbol"`
	Units        *decimal.Decimal     `json:"units"`
	BuyingPrice  *decimal.Decimal     `json:"buyingPrice"`
	PurchaseDate *string              `json:"purchaseDate"`
	Type         *HoldingType         `json:"type"`
	CurrentPrice *decimal.NullDecimal `json:"currentPrice"`
}

// Apply returns a copy of h with the patch fields written over it.
func (p HoldingPatch) Apply(h Holding) Holding {
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Symbol != nil {
		s := *p.Symbol
		h.Symbol = &s
	}
	if p.Units != nil {
		h.Units = *p.Units
	}
	if p.BuyingPrice != nil {
		h.BuyingPrice = *p.BuyingPrice
	}
	if p.PurchaseDate != nil {
		h.PurchaseDate = *p.PurchaseDate
	}
	if p.Type != nil {
		h.Type = *p.Type
	}
	if p.CurrentPrice != nil {
		h.CurrentPrice = *p.CurrentPrice
	}
	return h
}

type MarketQuote struct {
	Symbol        string          `db:"symbol" json:"symbol"`
	Name          string          `db:"name" json:"name"`
	Price         decimal.Decimal `db:"price" json:"price"`
	Change        decimal.Decimal `db:"change" json:"change"`
	ChangePercent decimal.Decimal `db:"change_percent" json:"changePercent"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

const (
	CategoryIndian        = "indian"
	CategoryInternational = "international"
)

type NewsArticle struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Summary     *string   `db:"summary" json:"summary"`
	Content     *string   `db:"content" json:"content"`
	Source      string    `db:"source" json:"source"`
	Category    string    `db:"category" json:"category"`
	ImageURL    *string   `db:"image_url" json:"imageUrl"`
	SourceURL   *string   `db:"source_url" json:"sourceUrl"`
	PublishedAt time.Time `db:"published_at" json:"publishedAt"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// DailyValuation is one snapshot of the portfolio summary, keyed by day.
type DailyValuation struct {
	Date          string          `db:"date" json:"date"`
	TotalInvested decimal.Decimal `db:"total_invested" json:"totalInvested"`
	TotalValue    decimal.Decimal `db:"total_value" json:"totalValue"`
}
