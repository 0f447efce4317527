// Package pricing holds collected price records and converts them into a
// single base currency.
package pricing

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// PriceRecord is one region's full extraction. Amount stays in the vendor's
// currency; Converted is filled by Convert and is in the base currency.
type PriceRecord struct {
	Region     string              `json:"region"`
	RegionCode string              `json:"region_code"`
	Amount     decimal.Decimal     `json:"amount"`
	Currency   string              `json:"currency"`
	Converted  decimal.NullDecimal `json:"converted_amount"`
	Strategy   string              `json:"strategy,omitempty"`
}

// RateTable maps a currency code to units per one unit of the base currency.
type RateTable map[string]float64

// Rate returns a usable (positive) rate for code.
func (t RateTable) Rate(code string) (float64, bool) {
	r, ok := t[strings.ToUpper(code)]
	if !ok || r <= 0 {
		return 0, false
	}
	return r, true
}

// Convert returns a sorted copy of records with Converted set to
// round2(Amount / rate) wherever a rate is known. The input is not modified.
func Convert(records []PriceRecord, rates RateTable) []PriceRecord {
	out := make([]PriceRecord, len(records))
	for i, r := range records {
		r.Converted = decimal.NullDecimal{}
		if rate, ok := rates.Rate(r.Currency); ok {
			r.Converted = decimal.NewNullDecimal(r.Amount.Div(decimal.NewFromFloat(rate)).Round(2))
		}
		out[i] = r
	}
	Sort(out)
	return out
}

// Sort orders records by converted amount ascending. Records without a
// conversion go last. Ties are broken by region name, then code.
func Sort(records []PriceRecord) {
	slices.SortStableFunc(records, compare)
}

func compare(a, b PriceRecord) int {
	switch {
	case a.Converted.Valid && !b.Converted.Valid:
		return -1
	case !a.Converted.Valid && b.Converted.Valid:
		return 1
	case a.Converted.Valid:
		if c := a.Converted.Decimal.Cmp(b.Converted.Decimal); c != 0 {
			return c
		}
	}
	return cmp.Or(cmp.Compare(a.Region, b.Region), cmp.Compare(a.RegionCode, b.RegionCode))
}
