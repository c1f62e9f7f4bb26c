package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"folio/internal/analysis"
)

var csvHeader = []string{"Name", "Units", "Buying Price", "Purchase Date", "Type", "Current Value", "P&L"}

// WriteCSV writes one line per holding under a fixed header. Values keep
// their full precision.
func WriteCSV(w io.Writer, items []analysis.EnrichedHolding) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, it := range items {
		rec := []string{
			it.Name,
			it.Units.String(),
			it.BuyingPrice.String(),
			it.PurchaseDate,
			string(it.Type),
			it.CurrentValue.String(),
			it.PnL.String(),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %q: %w", it.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
