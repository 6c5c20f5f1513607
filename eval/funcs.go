package eval

import (
	"math"

	"github.com/panyam/qcalc/catalog"
	"github.com/panyam/qcalc/core"
	"github.com/panyam/qcalc/parser"
)

// MaxExpansionDepth bounds nested user-function expansion. Cycles are caught
// by the call stack; this is the independent safety net for deep but acyclic
// chains.
const MaxExpansionDepth = 32

// builtin describes one built-in math function. maxArgs < 0 means variadic.
type builtin struct {
	minArgs int
	maxArgs int
	apply   func(args []float64) float64
}

var builtins = map[string]builtin{
	"sqrt":  {1, 1, func(a []float64) float64 { return math.Sqrt(a[0]) }},
	"ceil":  {1, 1, func(a []float64) float64 { return math.Ceil(a[0]) }},
	"floor": {1, 1, func(a []float64) float64 { return math.Floor(a[0]) }},
	"abs":   {1, 1, func(a []float64) float64 { return math.Abs(a[0]) }},
	"round": {1, 2, applyRound},
	"max":   {1, -1, applyMax},
	"min":   {1, -1, applyMin},
}

// IsBuiltin reports whether name is one of the built-in math functions.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

func applyRound(args []float64) float64 {
	if len(args) == 1 {
		return math.Round(args[0])
	}
	scale := math.Pow(10, math.Trunc(args[1]))
	return math.Round(args[0]*scale) / scale
}

func applyMax(args []float64) float64 {
	out := args[0]
	for _, v := range args[1:] {
		out = math.Max(out, v)
	}
	return out
}

func applyMin(args []float64) float64 {
	out := args[0]
	for _, v := range args[1:] {
		out = math.Min(out, v)
	}
	return out
}

// checkArity verifies an argument count against a builtin's declared arity.
func (b builtin) checkArity(name string, nargs int) *core.Error {
	if nargs < b.minArgs || (b.maxArgs >= 0 && nargs > b.maxArgs) {
		if b.maxArgs < 0 {
			return core.Errorf(core.ErrArityMismatch,
				"function %q expects at least %d argument(s), got %d", name, b.minArgs, nargs)
		}
		if b.minArgs == b.maxArgs {
			return core.Errorf(core.ErrArityMismatch,
				"function %q expects %d argument(s), got %d", name, b.minArgs, nargs)
		}
		return core.Errorf(core.ErrArityMismatch,
			"function %q expects %d to %d arguments, got %d", name, b.minArgs, b.maxArgs, nargs)
	}
	return nil
}

// expandFunction parses a shared function's body and syntactically substitutes
// the caller's argument subtrees for the declared parameter names. Arguments
// are not evaluated here; substitution preserves laziness.
func expandFunction(fn *catalog.SharedFunction, args []parser.Expr) (parser.Expr, error) {
	if len(args) != len(fn.Parameters) {
		return nil, core.Errorf(core.ErrArityMismatch,
			"function %q expects %d argument(s), got %d", fn.Name, len(fn.Parameters), len(args))
	}
	body, err := parser.ParseFormula(fn.Formula)
	if err != nil {
		return nil, core.Errorf(core.ErrSyntax, "in function %q: %v", fn.Name, err)
	}
	subs := map[string]parser.Expr{}
	for i, p := range fn.Parameters {
		subs[p.Name] = args[i]
	}
	return substitute(body, subs), nil
}

// substitute rewrites a tree, replacing bare identifiers found in subs with
// their replacement subtrees. Member names (the right side of a dot) and call
// targets keep their identity; only operand positions are rewritten.
func substitute(expr parser.Expr, subs map[string]parser.Expr) parser.Expr {
	switch e := expr.(type) {
	case *parser.IdentifierExpr:
		if repl, ok := subs[e.Name]; ok {
			return repl
		}
		return e
	case *parser.UnaryExpr:
		return &parser.UnaryExpr{
			ExprBase: e.ExprBase,
			Operator: e.Operator,
			Right:    substitute(e.Right, subs),
		}
	case *parser.BinaryExpr:
		return &parser.BinaryExpr{
			ExprBase: e.ExprBase,
			Left:     substitute(e.Left, subs),
			Operator: e.Operator,
			Right:    substitute(e.Right, subs),
		}
	case *parser.MemberAccessExpr:
		// The receiver may be a substituted parameter, the member never is.
		return &parser.MemberAccessExpr{
			ExprBase: e.ExprBase,
			Receiver: substitute(e.Receiver, subs),
			Member:   e.Member,
		}
	case *parser.CallExpr:
		out := &parser.CallExpr{
			ExprBase: e.ExprBase,
			Function: e.Function,
			Args:     make([]parser.Expr, len(e.Args)),
		}
		for i, arg := range e.Args {
			out.Args[i] = substitute(arg, subs)
		}
		return out
	default:
		return expr
	}
}

// callStack tracks the chain of user functions currently being expanded so
// that a self or mutual reference fails fast instead of recursing.
type callStack struct {
	names []string
}

func (cs *callStack) push(name string) *core.Error {
	for _, n := range cs.names {
		if n == name {
			return core.Errorf(core.ErrCircularFunction,
				"function %q is already being expanded (chain: %v)", name, append(cs.names, name))
		}
	}
	if len(cs.names) >= MaxExpansionDepth {
		return core.Errorf(core.ErrExpansionDepth,
			"function expansion exceeded depth %d", MaxExpansionDepth)
	}
	cs.names = append(cs.names, name)
	return nil
}

func (cs *callStack) pop() {
	cs.names = cs.names[:len(cs.names)-1]
}
