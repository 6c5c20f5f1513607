package eval

import (
	"github.com/panyam/qcalc/catalog"
)

// OutputResult is one computed output's evaluation outcome. Value is a
// base-unit amount; a failed output carries Err and does not block the
// outputs after it.
type OutputResult struct {
	Name       string
	Value      float64
	UnitSymbol string
	Err        error
}

// EvaluateOutputs computes a module's outputs strictly in declaration order,
// publishing each result into ctx.Outputs so later outputs (and the module's
// cost formula afterwards) can reference it as out.<name>.
func EvaluateOutputs(def *catalog.ModuleDef, ctx *Context) []OutputResult {
	results := make([]OutputResult, 0, len(def.Outputs))
	for _, out := range def.Outputs {
		res := OutputResult{Name: out.VariableName, UnitSymbol: out.UnitSymbol}
		v, err := EvaluateFormula(out.Expression, ctx)
		if err != nil {
			res.Err = err
		} else {
			res.Value = v
			ctx.Outputs[out.VariableName] = v
		}
		results = append(results, res)
	}
	return results
}

// ValidateOutputs statically checks every output expression of a module.
// Each output validates against a scope where only earlier outputs are
// visible, so forward references fail here rather than at runtime.
func ValidateOutputs(def *catalog.ModuleDef, materials []*catalog.Material, functions []*catalog.SharedFunction) []Result {
	results := make([]Result, 0, len(def.Outputs))
	for i, out := range def.Outputs {
		scope := ScopeForOutput(def, i, materials, functions)
		results = append(results, Validate(out.Expression, scope))
	}
	return results
}
