package csvimport

import (
	"encoding/json"
	"fmt"
)

// text is a JSON field that accepts either a string or a number, keeping
// the number's literal form.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*t = text(n.String())
	return nil
}

// UnmarshalJSON lets API clients send units and prices as numbers.
func (r *Row) UnmarshalJSON(b []byte) error {
	var aux struct {
		Name         text `json:"name"`
		Symbol       text `json:"symbol"`
		Units        text `json:"units"`
		BuyingPrice  text `json:"buyingPrice"`
		PurchaseDate text `json:"purchaseDate"`
		Type         text `json:"type"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*r = Row{
		Name:         string(aux.Name),
		Symbol:       string(aux.Symbol),
		Units:        string(aux.Units),
		BuyingPrice:  string(aux.BuyingPrice),
		PurchaseDate: string(aux.PurchaseDate),
		Type:         string(aux.Type),
	}
	return nil
}
