package eval

import (
	"sort"

	"github.com/panyam/qcalc/catalog"
	"github.com/panyam/qcalc/core"
	"github.com/panyam/qcalc/parser"
)

// Analysis is the introspection report for a formula: which names it
// references and how. Used by tooling (autocomplete, dependency display),
// never by evaluation. All slices are sorted and de-duplicated.
type Analysis struct {
	Variables            []string
	UnknownVariables     []string
	FieldPropertyRefs    []string
	MaterialPropertyRefs []string
	FunctionCalls        []string
	MathFunctions        []string
	ComputedOutputs      []string
}

// Analyze parses a formula and reports every reference it makes, classified
// against the scope. Unlike Validate it keeps going past unknown names so a
// half-written formula still yields a useful report.
func Analyze(formula string, scope *Scope) (*Analysis, error) {
	expr, err := parser.ParseFormula(formula)
	if err != nil {
		return nil, core.Errorf(core.ErrSyntax, "%v", err)
	}
	a := &analyzer{
		scope:     scope,
		collected: map[string]map[string]bool{},
	}
	a.walk(expr)
	return a.report(), nil
}

const (
	bucketVars     = "vars"
	bucketUnknown  = "unknown"
	bucketFieldRef = "fieldrefs"
	bucketMatRef   = "matrefs"
	bucketFuncs    = "funcs"
	bucketMath     = "math"
	bucketOutputs  = "outputs"
)

type analyzer struct {
	scope     *Scope
	collected map[string]map[string]bool
}

func (a *analyzer) add(bucket, name string) {
	if a.collected[bucket] == nil {
		a.collected[bucket] = map[string]bool{}
	}
	a.collected[bucket][name] = true
}

func (a *analyzer) sorted(bucket string) []string {
	out := make([]string, 0, len(a.collected[bucket]))
	for name := range a.collected[bucket] {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (a *analyzer) report() *Analysis {
	return &Analysis{
		Variables:            a.sorted(bucketVars),
		UnknownVariables:     a.sorted(bucketUnknown),
		FieldPropertyRefs:    a.sorted(bucketFieldRef),
		MaterialPropertyRefs: a.sorted(bucketMatRef),
		FunctionCalls:        a.sorted(bucketFuncs),
		MathFunctions:        a.sorted(bucketMath),
		ComputedOutputs:      a.sorted(bucketOutputs),
	}
}

func (a *analyzer) walk(expr parser.Expr) {
	switch e := expr.(type) {
	case *parser.IdentifierExpr:
		a.classifyIdentifier(e.Name)
	case *parser.UnaryExpr:
		a.walk(e.Right)
	case *parser.BinaryExpr:
		a.walk(e.Left)
		a.walk(e.Right)
	case *parser.MemberAccessExpr:
		a.classifyMemberAccess(e)
	case *parser.CallExpr:
		a.classifyCall(e)
	}
}

func (a *analyzer) classifyIdentifier(name string) {
	if _, ok := constants[name]; ok {
		a.add(bucketVars, name)
		return
	}
	if a.scope.Params[name] {
		a.add(bucketVars, name)
		return
	}
	if _, ok := a.scope.Fields[name]; ok {
		a.add(bucketVars, name)
		return
	}
	if _, ok := a.scope.Materials[name]; ok {
		a.add(bucketVars, name)
		return
	}
	a.add(bucketUnknown, name)
}

func (a *analyzer) classifyMemberAccess(e *parser.MemberAccessExpr) {
	recv, ok := e.Receiver.(*parser.IdentifierExpr)
	if !ok {
		a.walk(e.Receiver)
		return
	}
	ref := recv.Name + "." + e.Member.Name

	if recv.Name == "out" {
		a.add(bucketOutputs, e.Member.Name)
		return
	}
	if _, isMat := a.scope.Materials[recv.Name]; isMat {
		a.add(bucketMatRef, ref)
		return
	}
	if field, isField := a.scope.Fields[recv.Name]; isField && field.Type == catalog.FieldMaterial {
		a.add(bucketFieldRef, ref)
		return
	}
	a.add(bucketUnknown, recv.Name)
}

func (a *analyzer) classifyCall(e *parser.CallExpr) {
	for _, arg := range e.Args {
		a.walk(arg)
	}
	fnIdent, ok := e.Function.(*parser.IdentifierExpr)
	if !ok {
		a.walk(e.Function)
		return
	}
	name := fnIdent.Name
	if IsBuiltin(name) {
		a.add(bucketMath, name)
		return
	}
	if _, ok := a.scope.Functions[name]; ok {
		a.add(bucketFuncs, name)
		return
	}
	a.add(bucketUnknown, name)
}

// ContainsVariable reports whether the formula references name as a bare
// identifier (not as a property member or call target of another name).
// An unparseable formula contains nothing.
func ContainsVariable(formula, name string) bool {
	expr, err := parser.ParseFormula(formula)
	if err != nil {
		return false
	}
	return exprContains(expr, func(e parser.Expr) bool {
		ident, ok := e.(*parser.IdentifierExpr)
		return ok && ident.Name == name
	})
}

// ContainsPropertyRef reports whether the formula contains the dotted
// reference receiver.member.
func ContainsPropertyRef(formula, receiver, member string) bool {
	expr, err := parser.ParseFormula(formula)
	if err != nil {
		return false
	}
	return exprContains(expr, func(e parser.Expr) bool {
		ma, ok := e.(*parser.MemberAccessExpr)
		if !ok {
			return false
		}
		recv, ok := ma.Receiver.(*parser.IdentifierExpr)
		return ok && recv.Name == receiver && ma.Member.Name == member
	})
}

// exprContains walks the tree looking for a node matching pred. Member names
// and member receivers are not visited as bare identifiers.
func exprContains(expr parser.Expr, pred func(parser.Expr) bool) bool {
	if pred(expr) {
		return true
	}
	switch e := expr.(type) {
	case *parser.UnaryExpr:
		return exprContains(e.Right, pred)
	case *parser.BinaryExpr:
		return exprContains(e.Left, pred) || exprContains(e.Right, pred)
	case *parser.MemberAccessExpr:
		return false
	case *parser.CallExpr:
		for _, arg := range e.Args {
			if exprContains(arg, pred) {
				return true
			}
		}
		return false
	}
	return false
}
