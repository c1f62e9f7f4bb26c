package csvimport

import (
	"regexp"
	"strings"

	"folio/internal/models"

	"github.com/shopspring/decimal"
)

const (
	msgMissingFields = "Missing required fields"
	msgUnits         = "Units must be a positive number"
	msgBuyingPrice   = "Buying price must be a positive number"
	msgPurchaseDate  = "Purchase date must be in YYYY-MM-DD format"
	msgType          = "Type must be one of: Stock, SIP, Crypto"
	msgCurrentPrice  = "Current price must be a positive number"
)

// Quantities and prices are capped so every stored value prints in a few
// dozen characters whatever exponent the input used. Both stores keep these
// values exactly.
const (
	MaxIntegerDigits  = 15
	MaxFractionDigits = 8
)

// datePattern checks shape only; 2023-13-45 passes.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type Result struct {
	Valid   []Row    `json:"valid"`
	Invalid []Row    `json:"invalid"`
	Errors  []string `json:"errors"`
}

// Validate partitions rows into valid and invalid ones. It never fails;
// each invalid row contributes one message to Errors, in input order.
func Validate(rows []Row) Result {
	res := Result{Valid: []Row{}, Invalid: []Row{}, Errors: []string{}}
	for _, row := range rows {
		if _, err := ValidateRow(row); err != nil {
			res.Invalid = append(res.Invalid, row)
			res.Errors = append(res.Errors, err.Error())
			continue
		}
		res.Valid = append(res.Valid, row)
	}
	return res
}

// ValidateRow applies the import rules to one row and converts it to a
// typed holding. The first failing rule is reported as a *ValidationError.
func ValidateRow(row Row) (models.NewHolding, error) {
	fail := func(reason string) (models.NewHolding, error) {
		return models.NewHolding{}, &ValidationError{Name: row.Name, Reason: reason}
	}

	if row.Name == "" || row.Units == "" || row.BuyingPrice == "" || row.PurchaseDate == "" || row.Type == "" {
		return fail(msgMissingFields)
	}
	units, ok := positive(row.Units)
	if !ok {
		return fail(msgUnits)
	}
	price, ok := positive(row.BuyingPrice)
	if !ok {
		return fail(msgBuyingPrice)
	}
	if !datePattern.MatchString(row.PurchaseDate) {
		return fail(msgPurchaseDate)
	}
	typ := models.HoldingType(row.Type)
	if !typ.Valid() {
		return fail(msgType)
	}

	h := models.NewHolding{
		Name:         row.Name,
		Units:        units,
		BuyingPrice:  price,
		PurchaseDate: row.PurchaseDate,
		Type:         typ,
	}
	if sym := strings.TrimSpace(row.Symbol); sym != "" {
		h.Symbol = &sym
	}
	return h, nil
}

func positive(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !Bounded(d) {
		return decimal.Zero, false
	}
	return d, true
}

// Bounded reports whether d is positive with at most MaxIntegerDigits
// before the point and MaxFractionDigits significant digits after it.
func Bounded(d decimal.Decimal) bool {
	if !d.IsPositive() {
		return false
	}
	exp := int64(d.Exponent())
	// cap the exponent before Truncate rescales the coefficient
	if exp < -4*MaxFractionDigits || int64(d.NumDigits())+exp > MaxIntegerDigits {
		return false
	}
	return d.Equal(d.Truncate(MaxFractionDigits))
}

// CheckPatch applies the same rules to the fields a partial update sets.
func CheckPatch(p models.HoldingPatch) error {
	name := ""
	if p.Name != nil {
		name = *p.Name
		if name == "" {
			return &ValidationError{Reason: msgMissingFields}
		}
	}
	fail := func(reason string) error { return &ValidationError{Name: name, Reason: reason} }
	if p.Units != nil && !Bounded(*p.Units) {
		return fail(msgUnits)
	}
	if p.BuyingPrice != nil && !Bounded(*p.BuyingPrice) {
		return fail(msgBuyingPrice)
	}
	if p.PurchaseDate != nil && !datePattern.MatchString(*p.PurchaseDate) {
		return fail(msgPurchaseDate)
	}
	if p.Type != nil && !p.Type.Valid() {
		return fail(msgType)
	}
	if p.CurrentPrice != nil && p.CurrentPrice.Valid && !Bounded(p.CurrentPrice.Decimal) {
		return fail(msgCurrentPrice)
	}
	return nil
}
