package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format renders amount in code's display convention:
//
//	prefix, symbol known:   "{symbol}{amount}"
//	prefix, symbol unknown: "{CODE} {amount}"
//	suffix:                 "{amount} {symbol or CODE}"
//
// The amount is rounded half to even to the currency's decimal places and
// nowhere else.
func (t *Table) Format(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(code)
	num := amount.StringFixedBank(t.DecimalPlaces(code))
	sym := t.Symbol(code)

	if t.IsSuffix(code) {
		if sym == "" {
			sym = code
		}
		return num + " " + sym
	}
	if sym == "" {
		return code + " " + num
	}
	return sym + num
}

// FormatFloat is Format for callers holding a float64 amount.
func (t *Table) FormatFloat(amount float64, code string) string {
	return t.Format(decimal.NewFromFloat(amount), code)
}
