// Package units provides the static unit registry: display symbols grouped
// into categories, each with a linear conversion factor to the category's
// base unit. All stored numeric values in the catalog are base-unit amounts;
// display units only exist at the edges.
package units

import (
	"fmt"
	"sort"
)

// ErrUnknownUnit reports a symbol missing from the registry.
type ErrUnknownUnit struct {
	Symbol string
}

func (e *ErrUnknownUnit) Error() string {
	return fmt.Sprintf("unknown unit symbol %q", e.Symbol)
}

// Lookup returns the Unit for a symbol.
func Lookup(symbol string) (Unit, bool) {
	u, ok := unitTable[symbol]
	return u, ok
}

// NormalizeToBase converts a display-unit amount into the base unit of the
// symbol's category: v * factor(symbol). An empty symbol means the value is
// unitless and passes through unchanged.
func NormalizeToBase(v float64, symbol string) (float64, error) {
	if symbol == "" {
		return v, nil
	}
	u, ok := unitTable[symbol]
	if !ok {
		return 0, &ErrUnknownUnit{Symbol: symbol}
	}
	return v * u.FactorToBase, nil
}

// ConvertFromBase converts a base-unit amount back into display units:
// b / factor(symbol). Exact inverse of NormalizeToBase for the same symbol
// (within floating point tolerance).
func ConvertFromBase(b float64, symbol string) (float64, error) {
	if symbol == "" {
		return b, nil
	}
	u, ok := unitTable[symbol]
	if !ok {
		return 0, &ErrUnknownUnit{Symbol: symbol}
	}
	return b / u.FactorToBase, nil
}

// CategoryOf returns the category a symbol belongs to. Derived metadata for
// UI grouping; never authoritative.
func CategoryOf(symbol string) (Category, bool) {
	u, ok := unitTable[symbol]
	if !ok {
		return "", false
	}
	return u.Category, true
}

// BaseSymbol returns the symbol whose factor is 1 within a category.
func BaseSymbol(cat Category) string {
	return baseSymbols[cat]
}

// AllSymbols returns every registered symbol, sorted for deterministic
// iteration.
func AllSymbols() []string {
	out := make([]string, 0, len(unitTable))
	for s := range unitTable {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// SymbolsFor returns the sorted symbols of one category.
func SymbolsFor(cat Category) []string {
	var out []string
	for s, u := range unitTable {
		if u.Category == cat {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// AllCategories returns every category that has at least one symbol, sorted.
func AllCategories() []Category {
	seen := map[Category]bool{}
	for _, u := range unitTable {
		seen[u.Category] = true
	}
	out := make([]Category, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
