package eval

import (
	"testing"

	"github.com/panyam/qcalc/catalog"
	"github.com/panyam/qcalc/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberField(name string, def float64) *catalog.Field {
	return &catalog.Field{
		ID:           name,
		VariableName: name,
		Label:        name,
		Type:         catalog.FieldNumber,
		DefaultValue: core.NumberValue(def),
	}
}

func moduleScope(t *testing.T) *Scope {
	t.Helper()
	def := &catalog.ModuleDef{
		ID:   "shelf",
		Name: "Shelf",
		Fields: []*catalog.Field{
			numberField("width", 3),
			numberField("height", 4),
		},
		Outputs: []*catalog.ComputedOutput{
			{VariableName: "area", Expression: "width * height"},
			{VariableName: "cost", Expression: "out.area * 2"},
		},
	}
	materials := []*catalog.Material{testMaterial()}
	functions := []*catalog.SharedFunction{
		{
			Name:       "area_fn",
			Parameters: []catalog.FunctionParam{{Name: "w"}, {Name: "h"}},
			Formula:    "w * h",
		},
	}
	return ScopeForModule(def, materials, functions)
}

func assertInvalid(t *testing.T, res Result, kind core.ErrorKind) {
	t.Helper()
	require.False(t, res.Valid)
	require.NotNil(t, res.Err)
	assert.Equal(t, kind, res.Err.Kind)
}

func TestValidateAcceptsKnownNames(t *testing.T) {
	scope := moduleScope(t)
	for _, formula := range []string{
		"width * height",
		"width + pi",
		"plywood * width",
		"plywood.thickness * width",
		"area_fn(width, height)",
		"sqrt(width) + round(height, 1)",
		"max(width, height, 10)",
		"out.area / 2",
	} {
		res := Validate(formula, scope)
		assert.True(t, res.Valid, "formula %q: %v", formula, res.Err)
	}
}

func TestValidateSyntaxError(t *testing.T) {
	scope := moduleScope(t)
	for _, formula := range []string{"", "width +", "(width", "width ** 2", "a = b"} {
		assertInvalid(t, Validate(formula, scope), core.ErrSyntax)
	}
}

func TestValidateUnknownIdentifier(t *testing.T) {
	scope := moduleScope(t)
	assertInvalid(t, Validate("width * depth", scope), core.ErrUnknownIdentifier)
	assertInvalid(t, Validate("nope(width)", scope), core.ErrUnknownIdentifier)
	// A function name without call syntax does not resolve as a variable.
	assertInvalid(t, Validate("area_fn + 1", scope), core.ErrUnknownIdentifier)
}

func TestValidateUnknownProperty(t *testing.T) {
	scope := moduleScope(t)
	assertInvalid(t, Validate("plywood.missing", scope), core.ErrUnknownProperty)
	assertInvalid(t, Validate("width.thickness", scope), core.ErrUnknownProperty)
}

func TestValidateArityMismatch(t *testing.T) {
	scope := moduleScope(t)
	assertInvalid(t, Validate("sqrt(1, 2)", scope), core.ErrArityMismatch)
	assertInvalid(t, Validate("area_fn(width)", scope), core.ErrArityMismatch)
	assertInvalid(t, Validate("max()", scope), core.ErrArityMismatch)
}

func TestValidateForwardOutputReference(t *testing.T) {
	def := &catalog.ModuleDef{
		ID:     "m",
		Fields: []*catalog.Field{numberField("width", 1)},
		Outputs: []*catalog.ComputedOutput{
			{VariableName: "first", Expression: "width"},
			{VariableName: "second", Expression: "out.first + 1"},
		},
	}

	// Validating output 0 must not see output 0 or 1.
	scope := ScopeForOutput(def, 0, nil, nil)
	assertInvalid(t, Validate("out.first", scope), core.ErrForwardOutputRef)
	assertInvalid(t, Validate("out.second", scope), core.ErrForwardOutputRef)
	assertInvalid(t, Validate("out.nope", scope), core.ErrUnknownIdentifier)

	// Output 1 sees output 0 only.
	scope = ScopeForOutput(def, 1, nil, nil)
	assert.True(t, Validate("out.first + 1", scope).Valid)
	assertInvalid(t, Validate("out.second", scope), core.ErrForwardOutputRef)

	// The module cost formula sees everything.
	full := ScopeForModule(def, nil, nil)
	assert.True(t, Validate("out.first + out.second", full).Valid)
}

func TestValidateCircularFunctions(t *testing.T) {
	selfRef := &catalog.SharedFunction{
		Name:       "f",
		Parameters: []catalog.FunctionParam{{Name: "x"}},
		Formula:    "f(x) * 2",
	}
	scope := ScopeForFunction(selfRef, nil, []*catalog.SharedFunction{selfRef})
	assertInvalid(t, Validate(selfRef.Formula, scope), core.ErrCircularFunction)

	f := &catalog.SharedFunction{
		Name:       "f",
		Parameters: []catalog.FunctionParam{{Name: "x"}},
		Formula:    "g(x) + 1",
	}
	g := &catalog.SharedFunction{
		Name:       "g",
		Parameters: []catalog.FunctionParam{{Name: "x"}},
		Formula:    "f(x) + 1",
	}
	all := []*catalog.SharedFunction{f, g}
	scope = ScopeForFunction(f, nil, all)
	assertInvalid(t, Validate(f.Formula, scope), core.ErrCircularFunction)

	// Calling either from a module formula fails the same way.
	def := &catalog.ModuleDef{Fields: []*catalog.Field{numberField("width", 1)}}
	modScope := ScopeForModule(def, nil, all)
	assertInvalid(t, Validate("f(width)", modScope), core.ErrCircularFunction)
}

func TestValidateTypeRules(t *testing.T) {
	def := &catalog.ModuleDef{
		Fields: []*catalog.Field{
			{VariableName: "note", Type: catalog.FieldText},
			{VariableName: "style", Type: catalog.FieldDropdown, DropdownMode: catalog.DropdownString},
			{VariableName: "thickness", Type: catalog.FieldDropdown, DropdownMode: catalog.DropdownNumeric,
				Options: []catalog.FieldOption{{Value: "a", NumericValue: 1}}},
		},
	}
	scope := ScopeForModule(def, nil, nil)
	assertInvalid(t, Validate("note + 1", scope), core.ErrTypeMismatch)
	assertInvalid(t, Validate("style + 1", scope), core.ErrTypeMismatch)
	assert.True(t, Validate("thickness + 1", scope).Valid)
}

func TestValidatePreview(t *testing.T) {
	scope := moduleScope(t)

	res := Validate("2 + 3 * 4", scope)
	require.True(t, res.Valid)
	require.NotNil(t, res.Preview)
	assert.Equal(t, 14.0, *res.Preview)

	// Defaults feed the preview: width=3, height=4.
	res = Validate("width * height", scope)
	require.True(t, res.Valid)
	require.NotNil(t, res.Preview)
	assert.Equal(t, 12.0, *res.Preview)

	// A formula that only fails at evaluation stays valid; the preview
	// failure is reported separately.
	res = Validate("width / (height - 4)", scope)
	require.True(t, res.Valid)
	assert.Nil(t, res.Preview)
	require.Error(t, res.PreviewErr)
	assert.Equal(t, core.ErrDivisionByZero, core.KindOf(res.PreviewErr))
}

func TestValidateExpansionDepth(t *testing.T) {
	// A linear (acyclic) chain deeper than the cap trips the depth guard.
	var fns []*catalog.SharedFunction
	for i := 0; i <= MaxExpansionDepth+1; i++ {
		name := fnName(i)
		formula := "x + 1"
		if i > 0 {
			formula = fnName(i-1) + "(x) + 1"
		}
		fns = append(fns, &catalog.SharedFunction{
			Name:       name,
			Parameters: []catalog.FunctionParam{{Name: "x"}},
			Formula:    formula,
		})
	}
	def := &catalog.ModuleDef{Fields: []*catalog.Field{numberField("width", 1)}}
	scope := ScopeForModule(def, nil, fns)
	res := Validate(fnName(len(fns)-1)+"(width)", scope)
	assertInvalid(t, res, core.ErrExpansionDepth)
}

func fnName(i int) string {
	return "chain" + string(rune('a'+i/26)) + string(rune('a'+i%26))
}
