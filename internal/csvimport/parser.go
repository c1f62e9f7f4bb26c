// Package csvimport turns user supplied CSV text into holding records.
//
// Parsing is deliberately forgiving: headers are matched by substring and
// rows missing a field are dropped. Business rules live in the validator,
// which splits parsed rows into valid and invalid sets without failing.
package csvimport

import (
	"strings"
)

// Row is a parsed but unvalidated CSV record. Every field is the raw text
// found in the file.
type Row struct {
	Name         string `json:"name"`
	Symbol       string `json:"symbol,omitempty"`
	Units        string `json:"units"`
	BuyingPrice  string `json:"buyingPrice"`
	PurchaseDate string `json:"purchaseDate"`
	Type         string `json:"type"`
}

const (
	colName         = "Name"
	colUnits        = "Units"
	colBuyingPrice  = "Buying Price"
	colPurchaseDate = "Purchase Date"
	colType         = "Type"
	colSymbol       = "symbol"
)

// ExpectedHeaders are the logical columns every import must provide.
var ExpectedHeaders = []string{colName, colUnits, colBuyingPrice, colPurchaseDate, colType}

// Parse reads a header line and at least one data line from text.
//
// Commas inside quoted values are not supported: every comma splits a
// field and quote characters are simply removed.
func Parse(text string) ([]Row, error) {
	lines := splitLines(text)
	if len(lines) < 2 {
		return nil, newParseError("CSV must have header and at least one data row")
	}

	headers := splitFields(lines[0])
	mapping, err := mapHeaders(headers)
	if err != nil {
		return nil, err
	}

	maxIdx := 0
	for _, idx := range mapping {
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	symbolIdx := indexOfFold(headers, colSymbol)

	rows := []Row{}
	for _, line := range lines[1:] {
		values := splitFields(line)
		if len(values) < maxIdx+1 {
			continue
		}
		row := Row{
			Name:         values[mapping[colName]],
			Units:        values[mapping[colUnits]],
			BuyingPrice:  values[mapping[colBuyingPrice]],
			PurchaseDate: values[mapping[colPurchaseDate]],
			Type:         values[mapping[colType]],
		}
		if symbolIdx >= 0 && symbolIdx < len(values) {
			row.Symbol = values[symbolIdx]
		}
		if row.Name == "" || row.Units == "" || row.BuyingPrice == "" || row.PurchaseDate == "" || row.Type == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// mapHeaders assigns each expected column the first header that contains it
// or is contained by it, ignoring case. An empty header therefore matches
// anything.
func mapHeaders(headers []string) (map[string]int, error) {
	mapping := make(map[string]int, len(ExpectedHeaders))
	for _, expected := range ExpectedHeaders {
		want := strings.ToLower(expected)
		for i, h := range headers {
			got := strings.ToLower(h)
			if strings.Contains(got, want) || strings.Contains(want, got) {
				mapping[expected] = i
				break
			}
		}
	}
	if len(mapping) < len(ExpectedHeaders) {
		return nil, newParseError("CSV must contain headers: " + strings.Join(ExpectedHeaders, ", "))
	}
	return mapping, nil
}

func splitLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(strings.TrimSpace(text), "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func splitFields(line string) []string {
	fields := strings.Split(line, ",")
	for i, f := range fields {
		fields[i] = strings.ReplaceAll(strings.TrimSpace(f), `"`, "")
	}
	return fields
}

func indexOfFold(headers []string, name string) int {
	for i, h := range headers {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}
