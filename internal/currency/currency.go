// Package currency holds per-currency display metadata and formats amounts
// the way storefronts quote them.
package currency

import "strings"

// Info describes how a single currency is displayed.
type Info struct {
	Symbol   string
	Suffix   bool
	Decimals int32
}

// Table maps ISO currency codes to display metadata. A Table is read-only
// after construction and safe for concurrent use.
type Table struct {
	m map[string]Info
}

// NewTable builds a table from explicit entries. Codes are upper-cased.
func NewTable(entries map[string]Info) *Table {
	t := &Table{m: make(map[string]Info, len(entries))}
	for code, info := range entries {
		t.m[strings.ToUpper(code)] = info
	}
	return t
}

func (t *Table) lookup(code string) (Info, bool) {
	if t == nil {
		return Info{}, false
	}
	info, ok := t.m[strings.ToUpper(code)]
	return info, ok
}

// Symbol returns the display symbol for code, or "" when none is known.
func (t *Table) Symbol(code string) string {
	info, _ := t.lookup(code)
	return info.Symbol
}

// IsSuffix reports whether the symbol is written after the amount.
func (t *Table) IsSuffix(code string) bool {
	info, _ := t.lookup(code)
	return info.Suffix
}

// DecimalPlaces returns 0, 2 or 3. Unknown codes use 2.
func (t *Table) DecimalPlaces(code string) int32 {
	if info, ok := t.lookup(code); ok {
		return info.Decimals
	}
	return 2
}

// Codes returns every code in the table, unordered.
func (t *Table) Codes() []string {
	out := make([]string, 0, len(t.m))
	for code := range t.m {
		out = append(out, code)
	}
	return out
}
