package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"folio/internal/analysis"
	"folio/internal/report"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var ErrUnknownFormat = errors.New("format must be csv or xlsx")

// Export is a rendered portfolio download.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (p *Portfolio) Export(ctx context.Context, format string) (Export, error) {
	a, err := p.Analyze(ctx)
	if err != nil {
		return Export{}, err
	}
	switch format {
	case FormatCSV, "":
		var buf bytes.Buffer
		if err := report.WriteCSV(&buf, a.Portfolio); err != nil {
			return Export{}, fmt.Errorf("export csv: %w", err)
		}
		return Export{Filename: "portfolio-analysis.csv", ContentType: "text/csv", Data: buf.Bytes()}, nil
	case FormatXLSX:
		data, err := report.XLSX(report.Workbook{
			Holdings:   a.Portfolio,
			Summary:    a.Summary,
			Allocation: analysis.AssetAllocation(a.Portfolio),
		}, p.log)
		if err != nil {
			return Export{}, fmt.Errorf("export xlsx: %w", err)
		}
		return Export{
			Filename:    "portfolio-analysis.xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	default:
		return Export{}, &SchemaError{Err: ErrUnknownFormat}
	}
}
