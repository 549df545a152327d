package utilities

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency every amount in the service is held in.
const Currency = "NGN"

// FormatMoney renders a major-unit amount in the service currency, e.g.
// "₦25,000.00".
func FormatMoney(v decimal.Decimal) string {
	// money.New never returns a nil currency, unlike money.GetCurrency
	cur := *money.New(0, Currency).Currency()
	return cur.Formatter().Format(v.Shift(int32(cur.Fraction)).Round(0).IntPart())
}

// FormatSignedMoney prefixes positive amounts with "+". Zero renders as "".
func FormatSignedMoney(v decimal.Decimal) string {
	switch {
	case v.IsZero():
		return ""
	case v.IsPositive():
		return "+" + FormatMoney(v)
	}
	return FormatMoney(v)
}
