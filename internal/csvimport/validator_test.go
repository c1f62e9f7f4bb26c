package csvimport

import (
	"errors"
	"testing"

	"folio/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRow(name string) Row {
	return Row{Name: name, Units: "10", BuyingPrice: "100.5", PurchaseDate: "2023-01-15", Type: "Stock"}
}

func TestValidate_AllValid(t *testing.T) {
	rows := []Row{validRow("A"), validRow("B"), validRow("C")}
	res := Validate(rows)
	assert.Equal(t, rows, res.Valid)
	assert.Empty(t, res.Invalid)
	assert.Empty(t, res.Errors)
}

func TestValidate_NegativeUnits(t *testing.T) {
	row := validRow("Reliance")
	row.Units = "-5"
	res := Validate([]Row{row})
	require.Len(t, res.Invalid, 1)
	assert.Empty(t, res.Valid)
	assert.Equal(t, []string{"Reliance: Units must be a positive number"}, res.Errors)
}

func TestValidate_Rules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Row)
		want   string
	}{
		{"missing name", func(r *Row) { r.Name = "" }, "Unknown: Missing required fields"},
		{"missing type", func(r *Row) { r.Type = "" }, "X: Missing required fields"},
		{"zero units", func(r *Row) { r.Units = "0" }, "X: Units must be a positive number"},
		{"text units", func(r *Row) { r.Units = "ten" }, "X: Units must be a positive number"},
		{"negative price", func(r *Row) { r.BuyingPrice = "-1" }, "X: Buying price must be a positive number"},
		{"text price", func(r *Row) { r.BuyingPrice = "abc" }, "X: Buying price must be a positive number"},
		{"slashed date", func(r *Row) { r.PurchaseDate = "15/01/2023" }, "X: Purchase date must be in YYYY-MM-DD format"},
		{"short date", func(r *Row) { r.PurchaseDate = "2023-1-15" }, "X: Purchase date must be in YYYY-MM-DD format"},
		{"lower type", func(r *Row) { r.Type = "stock" }, "X: Type must be one of: Stock, SIP, Crypto"},
		{"cash type", func(r *Row) { r.Type = "Cash" }, "X: Type must be one of: Stock, SIP, Crypto"},
		{"units before price", func(r *Row) { r.Units = "-1"; r.BuyingPrice = "-1" }, "X: Units must be a positive number"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := validRow("X")
			tc.mutate(&row)
			res := Validate([]Row{row})
			require.Len(t, res.Invalid, 1)
			assert.Equal(t, []string{tc.want}, res.Errors)
		})
	}
}

func TestValidate_DateShapeOnly(t *testing.T) {
	row := validRow("X")
	row.PurchaseDate = "2023-13-45"
	res := Validate([]Row{row})
	assert.Len(t, res.Valid, 1)
}

func TestValidate_PreservesOrder(t *testing.T) {
	bad1 := validRow("bad1")
	bad1.Type = "Bond"
	bad2 := validRow("bad2")
	bad2.Units = "0"
	rows := []Row{validRow("ok1"), bad1, validRow("ok2"), bad2}

	res := Validate(rows)
	assert.Equal(t, []Row{rows[0], rows[2]}, res.Valid)
	assert.Equal(t, []Row{bad1, bad2}, res.Invalid)
	assert.Equal(t, []string{
		"bad1: Type must be one of: Stock, SIP, Crypto",
		"bad2: Units must be a positive number",
	}, res.Errors)
}

func TestValidateRow_Typed(t *testing.T) {
	row := validRow("Reliance")
	row.Symbol = " RELIANCE "
	h, err := ValidateRow(row)
	require.NoError(t, err)
	assert.Equal(t, "Reliance", h.Name)
	assert.True(t, h.Units.Equal(decimal.NewFromInt(10)))
	assert.True(t, h.BuyingPrice.Equal(decimal.RequireFromString("100.5")))
	assert.Equal(t, models.TypeStock, h.Type)
	require.NotNil(t, h.Symbol)
	assert.Equal(t, "RELIANCE", *h.Symbol)

	row.Units = "x"
	_, err = ValidateRow(row)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Units must be a positive number", verr.Reason)
}

func TestValidate_MagnitudeBounds(t *testing.T) {
	cases := []struct {
		units string
		ok    bool
	}{
		{"1e999999999", false},
		{"1e20000000", false},
		{"1E15", false},
		{"1e-999999999", false},
		{"1000000000000000", false},
		{"0.000000001", false},
		{"999999999999999", true},
		{"999999999999999.99999999", true},
		{"0.00000001", true},
		{"1.12345678", true},
		{"2400.500000000000", true},
		{"1e3", true},
	}
	for _, tc := range cases {
		t.Run(tc.units, func(t *testing.T) {
			row := validRow("X")
			row.Units = tc.units
			res := Validate([]Row{row})
			if tc.ok {
				assert.Len(t, res.Valid, 1)
				return
			}
			assert.Equal(t, []string{"X: Units must be a positive number"}, res.Errors)
		})
	}

	row := validRow("X")
	row.BuyingPrice = "1e999999999"
	_, err := ValidateRow(row)
	assert.EqualError(t, err, "X: Buying price must be a positive number")
}

func TestValidate_HugeExponentFromCSV(t *testing.T) {
	rows, err := Parse("Name,Units,Buying Price,Purchase Date,Type\nX,1e999999999,1,2023-01-01,Stock")
	require.NoError(t, err)
	res := Validate(rows)
	assert.Empty(t, res.Valid)
	assert.Equal(t, []string{"X: Units must be a positive number"}, res.Errors)
}
