package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripAllSymbols(t *testing.T) {
	values := []float64{1, 0.001, 123.456, 1e6, -42.5}
	for _, sym := range AllSymbols() {
		for _, v := range values {
			base, err := NormalizeToBase(v, sym)
			require.NoError(t, err, "symbol %s", sym)
			back, err := ConvertFromBase(base, sym)
			require.NoError(t, err, "symbol %s", sym)
			assert.InEpsilon(t, v, back, 1e-9, "round trip for %v %s", v, sym)
		}
	}
}

func TestRoundTripZero(t *testing.T) {
	// InEpsilon cannot compare zeros, so cover them separately.
	for _, sym := range AllSymbols() {
		base, err := NormalizeToBase(0, sym)
		require.NoError(t, err)
		back, err := ConvertFromBase(base, sym)
		require.NoError(t, err)
		assert.Equal(t, 0.0, back, "symbol %s", sym)
	}
}

func TestNormalizeKnownFactors(t *testing.T) {
	tests := []struct {
		value    float64
		symbol   string
		expected float64
	}{
		{1000, "mm", 1},
		{1, "km", 1000},
		{2.5, "m", 2.5},
		{1, "cm2", 0.0001},
		{500, "g", 0.5},
		{2, "t", 2000},
		{30, "min", 0.5},
		{1, "day", 24},
		{1, "doz", 12},
	}
	for _, tc := range tests {
		got, err := NormalizeToBase(tc.value, tc.symbol)
		require.NoError(t, err, "symbol %s", tc.symbol)
		assert.InDelta(t, tc.expected, got, 1e-12, "%v %s", tc.value, tc.symbol)
	}
}

func TestEmptySymbolPassesThrough(t *testing.T) {
	v, err := NormalizeToBase(7.25, "")
	require.NoError(t, err)
	assert.Equal(t, 7.25, v)

	v, err = ConvertFromBase(7.25, "")
	require.NoError(t, err)
	assert.Equal(t, 7.25, v)
}

func TestUnknownSymbol(t *testing.T) {
	_, err := NormalizeToBase(1, "furlong")
	require.Error(t, err)
	var unknown *ErrUnknownUnit
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "furlong", unknown.Symbol)

	_, ok := CategoryOf("furlong")
	assert.False(t, ok)
}

func TestEverySymbolHasExactlyOneCategory(t *testing.T) {
	for _, sym := range AllSymbols() {
		cat, ok := CategoryOf(sym)
		require.True(t, ok, "symbol %s", sym)
		assert.NotEmpty(t, cat)
		// The category's base symbol must itself have factor 1.
		base := BaseSymbol(cat)
		require.NotEmpty(t, base, "category %s has no base symbol", cat)
		u, ok := Lookup(base)
		require.True(t, ok)
		assert.Equal(t, 1.0, u.FactorToBase, "base symbol %s of %s", base, cat)
	}
}
