package eval

import (
	"github.com/panyam/qcalc/catalog"
	"github.com/panyam/qcalc/core"
	"github.com/panyam/qcalc/parser"
)

// Result is the outcome of static validation. A preview failure is reported
// separately and never invalidates the formula.
type Result struct {
	Valid      bool
	Err        *core.Error
	Expr       parser.Expr
	Preview    *float64
	PreviewErr error
}

// Validate parses a formula and statically checks every referenced name
// against the scope: fields/params, materials (and their properties),
// function calls with matching arity, constants, and out.<name> references
// to earlier outputs. On success it also attempts a preview evaluation using
// the scope's field defaults.
func Validate(formula string, scope *Scope) Result {
	expr, err := parser.ParseFormula(formula)
	if err != nil {
		return Result{Err: core.Errorf(core.ErrSyntax, "%v", err)}
	}

	v := &validator{scope: scope}
	if verr := v.check(expr); verr != nil {
		return Result{Err: verr, Expr: expr}
	}

	res := Result{Valid: true, Expr: expr}
	preview, perr := Evaluate(expr, previewContext(scope))
	if perr != nil {
		res.PreviewErr = perr
	} else {
		res.Preview = &preview
	}
	return res
}

// previewContext builds an evaluation context out of the scope's static
// knowledge and the fields' declared defaults.
func previewContext(scope *Scope) *Context {
	values := map[string]core.Value{}
	for name, f := range scope.Fields {
		if f.DefaultValue.Kind != core.KindNil {
			values[name] = f.DefaultValue
		}
	}
	ctx := NewContext(values)
	ctx.Fields = scope.Fields
	ctx.Materials = scope.Materials
	ctx.Functions = scope.Functions
	return ctx
}

type validator struct {
	scope *Scope
	stack callStack
}

func (v *validator) check(expr parser.Expr) *core.Error {
	switch e := expr.(type) {
	case *parser.LiteralExpr:
		return nil
	case *parser.IdentifierExpr:
		return v.checkIdentifier(e)
	case *parser.UnaryExpr:
		return v.check(e.Right)
	case *parser.BinaryExpr:
		if err := v.check(e.Left); err != nil {
			return err
		}
		return v.check(e.Right)
	case *parser.MemberAccessExpr:
		return v.checkMemberAccess(e)
	case *parser.CallExpr:
		return v.checkCall(e)
	default:
		return core.Errorf(core.ErrSyntax, "unexpected node %T", expr)
	}
}

func (v *validator) checkIdentifier(e *parser.IdentifierExpr) *core.Error {
	name := e.Name
	if _, ok := constants[name]; ok {
		return nil
	}
	if v.scope.Params[name] {
		return nil
	}
	if field, ok := v.scope.Fields[name]; ok {
		switch field.Type {
		case catalog.FieldText:
			return core.Errorf(core.ErrTypeMismatch,
				"text field %q cannot be used in arithmetic", name)
		case catalog.FieldDropdown:
			if field.DropdownMode != catalog.DropdownNumeric {
				return core.Errorf(core.ErrTypeMismatch,
					"dropdown field %q is not numeric and cannot be used in arithmetic", name)
			}
		}
		return nil
	}
	if _, ok := v.scope.Materials[name]; ok {
		return nil
	}
	if _, ok := v.scope.Functions[name]; ok {
		return core.Errorf(core.ErrUnknownIdentifier,
			"%q is a function and must be called with arguments", name)
	}
	return core.Errorf(core.ErrUnknownIdentifier, "unknown identifier %q", name)
}

func (v *validator) checkMemberAccess(e *parser.MemberAccessExpr) *core.Error {
	recv, ok := e.Receiver.(*parser.IdentifierExpr)
	if !ok {
		return core.Errorf(core.ErrUnknownProperty,
			"property access requires a plain name on the left of '.', got %q", e.Receiver.String())
	}
	member := e.Member.Name

	if recv.Name == "out" {
		declared, visible := v.scope.OutputVisible(member)
		if !declared {
			return core.Errorf(core.ErrUnknownIdentifier, "unknown output %q", member)
		}
		if !visible {
			return core.Errorf(core.ErrForwardOutputRef,
				"output %q is declared later and cannot be referenced here", member)
		}
		return nil
	}

	if m, ok := v.scope.Materials[recv.Name]; ok {
		if member == "price" || member == "price_per_unit" {
			return nil
		}
		if m.PropertyByName(member) == nil {
			return core.Errorf(core.ErrUnknownProperty,
				"material %q has no property %q", recv.Name, member)
		}
		return nil
	}

	if field, ok := v.scope.Fields[recv.Name]; ok {
		if field.Type != catalog.FieldMaterial {
			return core.Errorf(core.ErrUnknownProperty,
				"field %q is not material-typed and has no properties", recv.Name)
		}
		// The selected material is only known at evaluation time, so the
		// member name cannot be checked statically.
		return nil
	}

	return core.Errorf(core.ErrUnknownIdentifier, "unknown name %q in %q", recv.Name, e.String())
}

func (v *validator) checkCall(e *parser.CallExpr) *core.Error {
	fnIdent, ok := e.Function.(*parser.IdentifierExpr)
	if !ok {
		return core.Errorf(core.ErrSyntax, "cannot call %q", e.Function.String())
	}
	name := fnIdent.Name

	for _, arg := range e.Args {
		if err := v.check(arg); err != nil {
			return err
		}
	}

	if b, ok := builtins[name]; ok {
		return b.checkArity(name, len(e.Args))
	}

	if fn, ok := v.scope.Functions[name]; ok {
		if len(e.Args) != len(fn.Parameters) {
			return core.Errorf(core.ErrArityMismatch,
				"function %q expects %d argument(s), got %d", name, len(fn.Parameters), len(e.Args))
		}
		return v.checkFunctionBody(fn)
	}

	return core.Errorf(core.ErrUnknownIdentifier, "unknown function %q", name)
}

// checkFunctionBody validates a user function's own formula in its own scope
// (parameters instead of fields), recursing into called functions with the
// shared call stack so that f calling f, or f calling g calling f, is
// rejected as a circular reference.
func (v *validator) checkFunctionBody(fn *catalog.SharedFunction) *core.Error {
	if err := v.stack.push(fn.Name); err != nil {
		return err
	}
	defer v.stack.pop()

	body, err := parser.ParseFormula(fn.Formula)
	if err != nil {
		return core.Errorf(core.ErrSyntax, "in function %q: %v", fn.Name, err)
	}

	params := map[string]bool{}
	for _, p := range fn.Parameters {
		params[p.Name] = true
	}
	inner := &validator{
		scope: &Scope{
			Fields:      map[string]*catalog.Field{},
			Params:      params,
			Materials:   v.scope.Materials,
			Functions:   v.scope.Functions,
			OutputLimit: 0,
		},
		stack: v.stack,
	}
	cerr := inner.check(body)
	// Nested pushes happened on the copied stack; mirror them back so the
	// deferred pop stays balanced.
	v.stack = inner.stack
	return cerr
}
