// Package engine is the library facade the host application consumes. It
// exposes formula validation, evaluation and introspection, link resolution
// and compatibility checks, and the unit conversion helpers, all as pure
// functions over caller-supplied catalog state.
package engine

import (
	"github.com/panyam/qcalc/catalog"
	"github.com/panyam/qcalc/core"
	"github.com/panyam/qcalc/eval"
	"github.com/panyam/qcalc/links"
	"github.com/panyam/qcalc/units"
)

// ValidateFormula statically checks a formula against a module's fields, the
// material catalog and the function registry. On success the result carries
// a preview value computed from field defaults when one is obtainable.
func ValidateFormula(formula string, def *catalog.ModuleDef, materials []*catalog.Material, functions []*catalog.SharedFunction) eval.Result {
	return eval.Validate(formula, eval.ScopeForModule(def, materials, functions))
}

// ValidateFunction checks a shared function's own body in its parameter
// scope. functions should include fn itself so self and mutual recursion are
// caught when validation walks into called bodies.
func ValidateFunction(fn *catalog.SharedFunction, materials []*catalog.Material, functions []*catalog.SharedFunction) eval.Result {
	return eval.Validate(fn.Formula, eval.ScopeForFunction(fn, materials, functions))
}

// EvaluateFormula evaluates a formula against a concrete context.
func EvaluateFormula(formula string, ctx *eval.Context) (float64, error) {
	return eval.EvaluateFormula(formula, ctx)
}

// AnalyzeFormulaVariables reports every name a formula references,
// classified against the module/material/function scope. Introspection for
// tooling; never needed for evaluation.
func AnalyzeFormulaVariables(formula string, def *catalog.ModuleDef, materials []*catalog.Material, functions []*catalog.SharedFunction) (*eval.Analysis, error) {
	return eval.Analyze(formula, eval.ScopeForModule(def, materials, functions))
}

// ModuleCost is the outcome of one full module evaluation pass: every
// computed output in order, then the module cost formula.
type ModuleCost struct {
	Outputs []eval.OutputResult
	Cost    float64
	Err     error
}

// EvaluateModule runs a complete evaluation pass for one module instance's
// resolved field values: outputs strictly in declaration order, then the
// cost formula with all outputs visible.
func EvaluateModule(def *catalog.ModuleDef, values map[string]core.Value, materials []*catalog.Material, functions []*catalog.SharedFunction) ModuleCost {
	ctx := eval.ContextForModule(def, materials, functions).Extend(values)
	out := ModuleCost{Outputs: eval.EvaluateOutputs(def, ctx)}
	if def.CostFormula == "" {
		return out
	}
	cost, err := eval.EvaluateFormula(def.CostFormula, ctx)
	if err != nil {
		out.Err = err
		return out
	}
	out.Cost = cost
	return out
}

// CanLinkFields decides whether a prospective field link is legal.
func CanLinkFields(instances []*catalog.ModuleInstance, modules map[string]*catalog.ModuleDef,
	sourceInstanceID, sourceField, targetInstanceID, targetField string) links.Check {
	return links.CanLink(instances, modules, sourceInstanceID, sourceField, targetInstanceID, targetField)
}

// ResolveFieldLinks computes every instance field's effective value with
// cycle and broken-link flagging.
func ResolveFieldLinks(instances []*catalog.ModuleInstance, modules map[string]*catalog.ModuleDef) links.Resolution {
	return links.Resolve(instances, modules)
}

// Unit helpers, re-exported so hosts only import one package.

func NormalizeToBase(v float64, symbol string) (float64, error) {
	return units.NormalizeToBase(v, symbol)
}

func ConvertFromBase(b float64, symbol string) (float64, error) {
	return units.ConvertFromBase(b, symbol)
}

func GetUnitCategory(symbol string) (units.Category, bool) {
	return units.CategoryOf(symbol)
}

func GetAllUnitSymbols() []string {
	return units.AllSymbols()
}
