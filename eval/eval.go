package eval

import (
	"github.com/panyam/qcalc/catalog"
	"github.com/panyam/qcalc/core"
	"github.com/panyam/qcalc/parser"
	"github.com/panyam/qcalc/units"
)

// Context is the concrete binding set a formula is evaluated against. Values
// layers instance values over module defaults via Env; Outputs holds the
// outputs already computed in the current module pass.
type Context struct {
	Values    *Env[core.Value]
	Fields    map[string]*catalog.Field
	Materials map[string]*catalog.Material
	Functions map[string]*catalog.SharedFunction
	Outputs   map[string]float64
}

// NewContext builds a context over a flat name→value map.
func NewContext(values map[string]core.Value) *Context {
	env := NewEnv[core.Value](nil)
	env.SetMany(values)
	return &Context{
		Values:    env,
		Fields:    map[string]*catalog.Field{},
		Materials: map[string]*catalog.Material{},
		Functions: map[string]*catalog.SharedFunction{},
		Outputs:   map[string]float64{},
	}
}

// ContextForModule builds a context from a module definition's defaults, the
// material catalog and the function registry. Instance values can then be
// layered on with Extend.
func ContextForModule(def *catalog.ModuleDef, materials []*catalog.Material, functions []*catalog.SharedFunction) *Context {
	ctx := NewContext(def.DefaultContext())
	for _, f := range def.Fields {
		ctx.Fields[f.VariableName] = f
	}
	for _, m := range materials {
		ctx.Materials[m.VariableName] = m
	}
	for _, fn := range functions {
		ctx.Functions[fn.Name] = fn
	}
	return ctx
}

// Extend returns a context whose value environment layers the given bindings
// over this context's. Catalog lookups are shared, not copied.
func (c *Context) Extend(values map[string]core.Value) *Context {
	return &Context{
		Values:    c.Values.Extend(values),
		Fields:    c.Fields,
		Materials: c.Materials,
		Functions: c.Functions,
		Outputs:   c.Outputs,
	}
}

// Evaluate walks a parsed formula tree against the context and produces a
// number. Booleans coerce to 1/0, comparisons yield 1/0, division by zero is
// a reported error rather than Inf.
func Evaluate(expr parser.Expr, ctx *Context) (float64, error) {
	ev := &evaluator{ctx: ctx}
	return ev.eval(expr)
}

// EvaluateFormula parses and evaluates a formula string in one step.
func EvaluateFormula(formula string, ctx *Context) (float64, error) {
	expr, err := parser.ParseFormula(formula)
	if err != nil {
		return 0, core.Errorf(core.ErrSyntax, "%v", err)
	}
	return Evaluate(expr, ctx)
}

type evaluator struct {
	ctx   *Context
	stack callStack
}

func (ev *evaluator) eval(expr parser.Expr) (float64, error) {
	switch e := expr.(type) {
	case *parser.LiteralExpr:
		return e.Value, nil
	case *parser.IdentifierExpr:
		return ev.evalIdentifier(e)
	case *parser.UnaryExpr:
		v, err := ev.eval(e.Right)
		if err != nil {
			return 0, err
		}
		return -v, nil
	case *parser.BinaryExpr:
		return ev.evalBinary(e)
	case *parser.MemberAccessExpr:
		return ev.evalMemberAccess(e)
	case *parser.CallExpr:
		return ev.evalCall(e)
	default:
		// Only reachable on a malformed tree, which is an internal bug.
		return 0, core.Errorf(core.ErrSyntax, "unexpected node %T", expr)
	}
}

func (ev *evaluator) evalIdentifier(e *parser.IdentifierExpr) (float64, error) {
	if v, ok := constants[e.Name]; ok {
		return v, nil
	}
	if val, ok := ev.ctx.Values.Get(e.Name); ok {
		return ev.coerceFieldValue(e.Name, val)
	}
	// A bare material reference means the material's unit price.
	if m, ok := ev.ctx.Materials[e.Name]; ok {
		return m.Price, nil
	}
	return 0, core.Errorf(core.ErrUnknownIdentifier, "unknown identifier %q", e.Name)
}

// coerceFieldValue turns a field's raw value into a number, honoring the
// field's declared type when one is known.
func (ev *evaluator) coerceFieldValue(name string, val core.Value) (float64, error) {
	field := ev.ctx.Fields[name]
	if field == nil {
		return val.AsNumber()
	}
	switch field.Type {
	case catalog.FieldMaterial:
		m, err := ev.selectedMaterial(field, val)
		if err != nil {
			return 0, err
		}
		return m.Price, nil
	case catalog.FieldDropdown:
		if field.DropdownMode != catalog.DropdownNumeric {
			return 0, core.Errorf(core.ErrTypeMismatch,
				"dropdown field %q is not numeric and cannot be used in arithmetic", name)
		}
		token, err := val.AsString()
		if err != nil {
			return val.AsNumber()
		}
		opt := field.OptionByValue(token)
		if opt == nil {
			return 0, core.Errorf(core.ErrUnknownIdentifier,
				"field %q has no option %q", name, token)
		}
		return units.NormalizeToBase(opt.NumericValue, opt.UnitSymbol)
	case catalog.FieldText:
		return 0, core.Errorf(core.ErrTypeMismatch,
			"text field %q cannot be used in arithmetic", name)
	default:
		return val.AsNumber()
	}
}

// selectedMaterial resolves a material-typed field's value (the selected
// material's variable name) against the catalog.
func (ev *evaluator) selectedMaterial(field *catalog.Field, val core.Value) (*catalog.Material, error) {
	name, err := val.AsString()
	if err != nil {
		return nil, core.Errorf(core.ErrTypeMismatch,
			"field %q holds no material selection", field.VariableName)
	}
	m, ok := ev.ctx.Materials[name]
	if !ok {
		return nil, core.Errorf(core.ErrUnknownIdentifier,
			"field %q selects unknown material %q", field.VariableName, name)
	}
	return m, nil
}

func (ev *evaluator) evalBinary(e *parser.BinaryExpr) (float64, error) {
	left, err := ev.eval(e.Left)
	if err != nil {
		return 0, err
	}
	right, err := ev.eval(e.Right)
	if err != nil {
		return 0, err
	}
	switch e.Operator {
	case "+":
		return left + right, nil
	case "-":
		return left - right, nil
	case "*":
		return left * right, nil
	case "/":
		if right == 0 {
			return 0, core.Errorf(core.ErrDivisionByZero, "division by zero in %q", e.String())
		}
		return left / right, nil
	case "==":
		return boolToNum(left == right), nil
	case "!=":
		return boolToNum(left != right), nil
	case "<":
		return boolToNum(left < right), nil
	case "<=":
		return boolToNum(left <= right), nil
	case ">":
		return boolToNum(left > right), nil
	case ">=":
		return boolToNum(left >= right), nil
	default:
		return 0, core.Errorf(core.ErrSyntax, "unknown operator %q", e.Operator)
	}
}

func boolToNum(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (ev *evaluator) evalMemberAccess(e *parser.MemberAccessExpr) (float64, error) {
	recv, ok := e.Receiver.(*parser.IdentifierExpr)
	if !ok {
		return 0, core.Errorf(core.ErrUnknownProperty,
			"property access requires a plain name on the left of '.', got %q", e.Receiver.String())
	}
	member := e.Member.Name

	// out.<name> resolves against outputs already computed this pass.
	if recv.Name == "out" {
		if v, ok := ev.ctx.Outputs[member]; ok {
			return v, nil
		}
		return 0, core.Errorf(core.ErrForwardOutputRef,
			"output %q is not computed yet", member)
	}

	if m, ok := ev.ctx.Materials[recv.Name]; ok {
		return ev.materialProperty(m, member)
	}

	// A material-typed field forwards property access to its selection.
	if field, ok := ev.ctx.Fields[recv.Name]; ok && field.Type == catalog.FieldMaterial {
		val, found := ev.ctx.Values.Get(recv.Name)
		if !found {
			return 0, core.Errorf(core.ErrUnknownIdentifier,
				"field %q has no material selected", recv.Name)
		}
		m, err := ev.selectedMaterial(field, val)
		if err != nil {
			return 0, err
		}
		return ev.materialProperty(m, member)
	}

	return 0, core.Errorf(core.ErrUnknownIdentifier, "unknown name %q in %q", recv.Name, e.String())
}

// materialProperty returns the base-unit value of a named property. The
// price pseudo-properties always resolve to the material's unit price.
func (ev *evaluator) materialProperty(m *catalog.Material, name string) (float64, error) {
	if name == "price" || name == "price_per_unit" {
		return m.Price, nil
	}
	p := m.PropertyByName(name)
	if p == nil {
		return 0, core.Errorf(core.ErrUnknownProperty,
			"material %q has no property %q", m.VariableName, name)
	}
	if !p.Type.Numeric() {
		if p.Type == catalog.PropBoolean {
			n, err := p.Value.AsNumber()
			if err == nil {
				return n, nil
			}
		}
		return 0, core.Errorf(core.ErrTypeMismatch,
			"property %q of material %q is not numeric", name, m.VariableName)
	}
	return p.StoredValue, nil
}

func (ev *evaluator) evalCall(e *parser.CallExpr) (float64, error) {
	fnIdent, ok := e.Function.(*parser.IdentifierExpr)
	if !ok {
		return 0, core.Errorf(core.ErrSyntax, "cannot call %q", e.Function.String())
	}
	name := fnIdent.Name

	if b, ok := builtins[name]; ok {
		if err := b.checkArity(name, len(e.Args)); err != nil {
			return 0, err
		}
		args := make([]float64, len(e.Args))
		for i, argExpr := range e.Args {
			v, err := ev.eval(argExpr)
			if err != nil {
				return 0, err
			}
			args[i] = v
		}
		return b.apply(args), nil
	}

	if fn, ok := ev.ctx.Functions[name]; ok {
		if err := ev.stack.push(name); err != nil {
			return 0, err
		}
		expanded, err := expandFunction(fn, e.Args)
		if err != nil {
			ev.stack.pop()
			return 0, err
		}
		out, err := ev.eval(expanded)
		ev.stack.pop()
		return out, err
	}

	return 0, core.Errorf(core.ErrUnknownIdentifier, "unknown function %q", name)
}
