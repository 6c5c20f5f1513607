// Package eval implements the formula pipeline: static validation against a
// name scope, user-function expansion with cycle and depth guards, tree
// evaluation against a concrete value context, and AST introspection.
package eval

import (
	"github.com/panyam/qcalc/catalog"
)

// Constants every formula can reference by bare name.
var constants = map[string]float64{
	"pi": 3.141592653589793,
	"e":  2.718281828459045,
}

// Scope describes the names a formula may reference: module fields, bare
// parameter names (when validating a shared function's own body), material
// variable names, user function names, and the ordered computed outputs
// visible as out.<name>.
type Scope struct {
	Fields    map[string]*catalog.Field
	Params    map[string]bool
	Materials map[string]*catalog.Material
	Functions map[string]*catalog.SharedFunction

	// Outputs in declaration order. OutputLimit bounds which are visible:
	// outputs at index >= OutputLimit are forward references. A negative
	// limit makes all outputs visible.
	Outputs     []*catalog.ComputedOutput
	OutputLimit int
}

// NewScope returns an empty scope with all outputs visible.
func NewScope() *Scope {
	return &Scope{
		Fields:      map[string]*catalog.Field{},
		Params:      map[string]bool{},
		Materials:   map[string]*catalog.Material{},
		Functions:   map[string]*catalog.SharedFunction{},
		OutputLimit: -1,
	}
}

// ScopeForModule builds the scope a module's cost formula validates against:
// the module's fields, the full material catalog, the shared function
// registry, and every computed output of the module.
func ScopeForModule(def *catalog.ModuleDef, materials []*catalog.Material, functions []*catalog.SharedFunction) *Scope {
	s := NewScope()
	if def != nil {
		for _, f := range def.Fields {
			s.Fields[f.VariableName] = f
		}
		s.Outputs = def.Outputs
	}
	for _, m := range materials {
		s.Materials[m.VariableName] = m
	}
	for _, fn := range functions {
		s.Functions[fn.Name] = fn
	}
	return s
}

// ScopeForOutput is ScopeForModule restricted so that only outputs declared
// before index are visible. Used when validating the output at that index.
func ScopeForOutput(def *catalog.ModuleDef, index int, materials []*catalog.Material, functions []*catalog.SharedFunction) *Scope {
	s := ScopeForModule(def, materials, functions)
	s.OutputLimit = index
	return s
}

// ScopeForFunction builds the scope a shared function's own body validates
// against: its declared parameter names plus the other functions it may call.
// Materials stay visible; outputs do not exist at function scope.
func ScopeForFunction(fn *catalog.SharedFunction, materials []*catalog.Material, functions []*catalog.SharedFunction) *Scope {
	s := NewScope()
	for _, p := range fn.Parameters {
		s.Params[p.Name] = true
	}
	for _, m := range materials {
		s.Materials[m.VariableName] = m
	}
	for _, other := range functions {
		s.Functions[other.Name] = other
	}
	return s
}

// OutputVisible reports whether out.<name> is referenceable in this scope.
// declared is true whenever the name exists at all, visible only when it is
// within the output limit.
func (s *Scope) OutputVisible(name string) (declared, visible bool) {
	for i, out := range s.Outputs {
		if out.VariableName == name {
			declared = true
			visible = s.OutputLimit < 0 || i < s.OutputLimit
			return
		}
	}
	return
}
