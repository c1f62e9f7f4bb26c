package analysis

import (
	"folio/internal/models"

	"github.com/shopspring/decimal"
)

var MockMonths = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}

type Performance struct {
	Labels []string          `json:"labels"`
	Values []decimal.Decimal `json:"values"`
	Mock   bool              `json:"mock"`
}

// MockPerformance draws an upward-trending curve around base, roughly 2% a
// month with +/-5% noise. rnd must return values in [0, 1).
func MockPerformance(base decimal.Decimal, rnd func() float64) Performance {
	p := Performance{Labels: MockMonths, Values: make([]decimal.Decimal, 0, len(MockMonths)), Mock: true}
	for i := range MockMonths {
		growth := 1 + (rnd()*0.1 - 0.05) + float64(i)*0.02
		p.Values = append(p.Values, base.Mul(decimal.NewFromFloat(growth)))
	}
	return p
}

// SnapshotPerformance turns stored valuations, oldest first, into a series.
func SnapshotPerformance(vals []models.DailyValuation) Performance {
	p := Performance{Labels: make([]string, 0, len(vals)), Values: make([]decimal.Decimal, 0, len(vals))}
	for _, v := range vals {
		p.Labels = append(p.Labels, v.Date)
		p.Values = append(p.Values, v.TotalValue)
	}
	return p
}
