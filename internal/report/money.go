package report

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const currency = money.INR

// INR renders an amount the way the dashboard shows it, e.g. ₹1,234.50.
// The amount is rounded to paise first.
func INR(d decimal.Decimal) string {
	cur := money.GetCurrency(currency)
	minor := d.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), currency).Display()
}
