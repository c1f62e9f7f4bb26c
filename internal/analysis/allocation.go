package analysis

import (
	"folio/internal/models"

	"github.com/shopspring/decimal"
)

const defaultColor = "#8b949e"

var typeColors = map[string]string{
	string(models.TypeStock):  "#00d4aa",
	string(models.TypeSIP):    "#0f3460",
	string(models.TypeCrypto): "#ffd93d",
	string(models.TypeCash):   defaultColor,
}

// Allocatable is anything that can be bucketed by type in an allocation.
type Allocatable interface {
	AllocationType() string
	// AllocationValues reports the current and invested value; either may
	// be zero when unknown.
	AllocationValues() (current, invested decimal.Decimal)
}

type Allocation struct {
	Type       string          `json:"type"`
	Value      decimal.Decimal `json:"value"`
	Percentage decimal.Decimal `json:"percentage"`
	Color      string          `json:"color"`
}

func (e EnrichedHolding) AllocationType() string { return string(e.Type) }

func (e EnrichedHolding) AllocationValues() (decimal.Decimal, decimal.Decimal) {
	return e.CurrentValue, e.Invested
}

// HoldingValue adapts a raw holding: current value comes from its stored
// current price, if any, and invested from its buying price.
type HoldingValue models.Holding

func (h HoldingValue) AllocationType() string { return string(h.Type) }

func (h HoldingValue) AllocationValues() (decimal.Decimal, decimal.Decimal) {
	var current decimal.Decimal
	if h.CurrentPrice.Valid {
		current = h.Units.Mul(h.CurrentPrice.Decimal)
	}
	return current, h.Units.Mul(h.BuyingPrice)
}

// AssetAllocation groups items by type in first-seen order. An item is
// worth its current value, falling back to invested, falling back to zero.
func AssetAllocation[T Allocatable](items []T) []Allocation {
	var (
		order  []string
		values = map[string]decimal.Decimal{}
		total  decimal.Decimal
	)
	for _, it := range items {
		current, invested := it.AllocationValues()
		v := current
		if v.IsZero() {
			v = invested
		}
		typ := it.AllocationType()
		if _, seen := values[typ]; !seen {
			order = append(order, typ)
		}
		values[typ] = values[typ].Add(v)
		total = total.Add(v)
	}

	res := make([]Allocation, 0, len(order))
	for _, typ := range order {
		res = append(res, Allocation{
			Type:       typ,
			Value:      values[typ],
			Percentage: percentOf(values[typ], total),
			Color:      ColorFor(typ),
		})
	}
	return res
}

func ColorFor(typ string) string {
	if c, ok := typeColors[typ]; ok {
		return c
	}
	return defaultColor
}
