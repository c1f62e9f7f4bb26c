package analysis

// RiskMetrics are fixed placeholder figures; nothing here is computed from
// the portfolio.
type RiskMetrics struct {
	Beta              float64 `json:"beta"`
	SharpeRatio       float64 `json:"sharpeRatio"`
	MaxDrawdown       float64 `json:"maxDrawdown"`
	StandardDeviation float64 `json:"standardDeviation"`
	Volatility        float64 `json:"volatility"`
}

var DefaultRiskMetrics = RiskMetrics{
	Beta:              1.15,
	SharpeRatio:       1.42,
	MaxDrawdown:       -12.5,
	StandardDeviation: 18.3,
	Volatility:        16.8,
}
