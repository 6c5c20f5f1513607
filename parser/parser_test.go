package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseOK parses the input and fails the test on error.
func parseOK(t *testing.T, input string) Expr {
	t.Helper()
	expr, err := ParseFormula(input)
	require.NoError(t, err, "input: %s", input)
	require.NotNil(t, expr)
	return expr
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string // String() rendering of the resulting tree
	}{
		{"2 + 3 * 4", "(2 + (3 * 4))"},
		{"(2 + 3) * 4", "((2 + 3) * 4)"},
		{"2 * 3 + 4", "((2 * 3) + 4)"},
		{"10 - 4 - 3", "((10 - 4) - 3)"},
		{"10 / 5 / 2", "((10 / 5) / 2)"},
		{"a + b * c - d", "((a + (b * c)) - d)"},
		{"a < b + c", "(a < (b + c))"},
		{"a + b == c * d", "((a + b) == (c * d))"},
		{"a >= b != c", "((a >= b) != c)"},
		{"-a * b", "((-a) * b)"},
		{"-(a + b)", "(-(a + b))"},
		{"- - a", "(-(-a))"},
	}
	for _, tc := range tests {
		expr := parseOK(t, tc.input)
		assert.Equal(t, tc.expected, expr.String(), "input: %s", tc.input)
	}
}

func TestParseMemberAccess(t *testing.T) {
	expr := parseOK(t, "steel.thickness * width")
	bin, ok := expr.(*BinaryExpr)
	require.True(t, ok, "expected *BinaryExpr, got %T", expr)

	ma, ok := bin.Left.(*MemberAccessExpr)
	require.True(t, ok, "expected *MemberAccessExpr, got %T", bin.Left)
	recv, ok := ma.Receiver.(*IdentifierExpr)
	require.True(t, ok)
	assert.Equal(t, "steel", recv.Name)
	assert.Equal(t, "thickness", ma.Member.Name)
	assert.Equal(t, "steel.thickness", ma.String())
}

func TestParseCalls(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"sqrt(16)", "sqrt(16)"},
		{"round(x, 2)", "round(x, 2)"},
		{"max(a, b, c)", "max(a, b, c)"},
		{"min()", "min()"},
		{"area(width + 1, height * 2)", "area((width + 1), (height * 2))"},
		{"sqrt(sqrt(x))", "sqrt(sqrt(x))"},
	}
	for _, tc := range tests {
		expr := parseOK(t, tc.input)
		call, ok := expr.(*CallExpr)
		require.True(t, ok, "input %s: expected *CallExpr, got %T", tc.input, expr)
		assert.Equal(t, tc.expected, call.String(), "input: %s", tc.input)
	}
}

func TestParseOutReference(t *testing.T) {
	expr := parseOK(t, "out.area * 2")
	bin, ok := expr.(*BinaryExpr)
	require.True(t, ok)
	ma, ok := bin.Left.(*MemberAccessExpr)
	require.True(t, ok)
	recv := ma.Receiver.(*IdentifierExpr)
	assert.Equal(t, "out", recv.Name)
	assert.Equal(t, "area", ma.Member.Name)
}

func TestParsePositions(t *testing.T) {
	expr := parseOK(t, "ab + cde")
	bin := expr.(*BinaryExpr)
	assert.Equal(t, 0, bin.Pos())
	assert.Equal(t, 8, bin.End())
	assert.Equal(t, 0, bin.Left.Pos())
	assert.Equal(t, 2, bin.Left.End())
	assert.Equal(t, 5, bin.Right.Pos())
	assert.Equal(t, 8, bin.Right.End())
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"",
		"2 +",
		"(2 + 3",
		"2 + * 3",
		"a .",
		"f(a,",
		"f(a,)",
		"2 3",
		"a = b",
		"a & b",
		"a.2",
	}
	for _, input := range inputs {
		_, err := ParseFormula(input)
		assert.Error(t, err, "input: %q", input)
	}
}
