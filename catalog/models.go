// Package catalog holds the authored data model the formula engine computes
// over: module field definitions, materials and their properties, shared
// user-defined functions, computed outputs, and module instances with their
// field links. Authoring/CRUD of these records happens outside the engine.
package catalog

import (
	"fmt"

	"github.com/panyam/qcalc/core"
	"github.com/panyam/qcalc/units"
)

// FieldType enumerates the kinds of input slots a module can declare.
type FieldType string

const (
	FieldNumber   FieldType = "number"
	FieldBoolean  FieldType = "boolean"
	FieldText     FieldType = "text"
	FieldDropdown FieldType = "dropdown"
	FieldMaterial FieldType = "material"
)

// DropdownMode controls how a dropdown field participates in formulas.
// Numeric dropdowns evaluate to the selected option's normalized value;
// string dropdowns carry an opaque token and cannot be used in arithmetic.
type DropdownMode string

const (
	DropdownString  DropdownMode = "string"
	DropdownNumeric DropdownMode = "numeric"
)

// FieldOption is one selectable entry of a dropdown field.
type FieldOption struct {
	Label        string
	Value        string // the stored/selected token
	NumericValue float64
	UnitSymbol   string
}

// Field is a named, typed input slot on a module definition. VariableName is
// what formulas reference and must be unique within the module.
type Field struct {
	ID           string
	VariableName string
	Label        string
	Type         FieldType
	UnitSymbol   string
	Required     bool
	DefaultValue core.Value

	// Material-typed fields restrict selection to one catalog category.
	MaterialCategory string

	// Dropdown-typed fields.
	Options      []FieldOption
	DropdownMode DropdownMode
}

// OptionByValue returns the dropdown option whose stored token matches value.
func (f *Field) OptionByValue(value string) *FieldOption {
	for i := range f.Options {
		if f.Options[i].Value == value {
			return &f.Options[i]
		}
	}
	return nil
}

// PropertyType enumerates material property kinds.
type PropertyType string

const (
	PropNumber  PropertyType = "number"
	PropString  PropertyType = "string"
	PropBoolean PropertyType = "boolean"
	PropPrice   PropertyType = "price"
)

// Numeric reports whether values of this property type take part in
// arithmetic.
func (t PropertyType) Numeric() bool {
	return t == PropNumber || t == PropPrice
}

// MaterialProperty is a named value attached to a material. Value holds the
// display-unit number the user entered; StoredValue holds the same number
// normalized to the category base unit. SetValue keeps the two in sync.
type MaterialProperty struct {
	ID           string
	Name         string // unique within the material
	Type         PropertyType
	Value        core.Value
	UnitSymbol   string
	UnitCategory units.Category
	StoredValue  float64
}

// SetValue assigns a display-unit value and re-derives StoredValue and
// UnitCategory. Non-numeric properties store the value as-is.
func (p *MaterialProperty) SetValue(value core.Value, unitSymbol string) error {
	p.Value = value
	p.UnitSymbol = unitSymbol
	p.UnitCategory = ""
	if unitSymbol != "" {
		cat, ok := units.CategoryOf(unitSymbol)
		if !ok {
			return &units.ErrUnknownUnit{Symbol: unitSymbol}
		}
		p.UnitCategory = cat
	}
	if !p.Type.Numeric() {
		p.StoredValue = 0
		return nil
	}
	num, err := value.AsNumber()
	if err != nil {
		return fmt.Errorf("property %q: %w", p.Name, err)
	}
	stored, err := units.NormalizeToBase(num, unitSymbol)
	if err != nil {
		return err
	}
	p.StoredValue = stored
	return nil
}

// DisplayValue converts StoredValue back into the property's display unit.
func (p *MaterialProperty) DisplayValue() (float64, error) {
	return units.ConvertFromBase(p.StoredValue, p.UnitSymbol)
}

// Material is a catalog item formulas reference by VariableName. A bare
// reference evaluates to Price; properties are reached with dot syntax.
type Material struct {
	ID           string
	Name         string
	VariableName string // globally unique
	Category     string
	UnitSymbol   string
	Price        float64
	Properties   []*MaterialProperty
}

// PropertyByName looks up a property by its name, or nil.
func (m *Material) PropertyByName(name string) *MaterialProperty {
	for _, p := range m.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// FunctionParam declares one parameter of a shared function.
type FunctionParam struct {
	Name     string
	Label    string
	Required bool
}

// SharedFunction is a reusable, user-authored formula parameterized over its
// declared parameter names. Expansion is syntactic; self-reference and mutual
// recursion are invalid.
type SharedFunction struct {
	ID         string
	Name       string // globally unique, identifier syntax
	Parameters []FunctionParam
	Formula    string
}

// ComputedOutput is a named, ordered, formula-derived value scoped to one
// module. Later outputs (and host formulas) reference it as out.<name>.
type ComputedOutput struct {
	ID           string
	VariableName string // unique within the module
	Expression   string
	UnitSymbol   string
}

// ModuleDef is a calculation module definition: its input fields, its ordered
// computed outputs, and its own cost formula.
type ModuleDef struct {
	ID          string
	Name        string
	CostFormula string
	Fields      []*Field
	Outputs     []*ComputedOutput
}

// FieldByName looks up a field by its variable name, or nil.
func (d *ModuleDef) FieldByName(variableName string) *Field {
	for _, f := range d.Fields {
		if f.VariableName == variableName {
			return f
		}
	}
	return nil
}

// DefaultContext extracts the per-field default values, for formula preview
// evaluation before a user has filled anything in.
func (d *ModuleDef) DefaultContext() map[string]core.Value {
	out := map[string]core.Value{}
	for _, f := range d.Fields {
		if f.DefaultValue.Kind != core.KindNil {
			out[f.VariableName] = f.DefaultValue
		}
	}
	return out
}

// FieldLink points a field at another instance's field. Links are pure
// references keyed by stable instance IDs; they never own their target and
// must tolerate the target disappearing.
type FieldLink struct {
	TargetInstanceID string
	TargetField      string
}

// ModuleInstance is one placed copy of a module inside a quote or template
// workspace. A field is driven either by its local value or by a link; a
// present link overrides the local value for reads, but the local value is
// kept so removing the link restores it.
type ModuleInstance struct {
	ID             string
	ModuleID       string
	FieldValues    map[string]core.Value
	FieldLinks     map[string]FieldLink
	CalculatedCost float64
}

// EffectiveLocalValue returns the instance's stored local value for a field,
// falling back to the field's default.
func (mi *ModuleInstance) EffectiveLocalValue(field *Field) core.Value {
	if v, ok := mi.FieldValues[field.VariableName]; ok {
		return v
	}
	return field.DefaultValue
}

// Linked reports whether the named field is currently link-driven.
func (mi *ModuleInstance) Linked(fieldName string) bool {
	_, ok := mi.FieldLinks[fieldName]
	return ok
}

// Clone returns a deep copy of the instance. The link compatibility checker
// uses clones to probe a candidate link without mutating live state.
func (mi *ModuleInstance) Clone() *ModuleInstance {
	out := &ModuleInstance{
		ID:             mi.ID,
		ModuleID:       mi.ModuleID,
		FieldValues:    make(map[string]core.Value, len(mi.FieldValues)),
		FieldLinks:     make(map[string]FieldLink, len(mi.FieldLinks)),
		CalculatedCost: mi.CalculatedCost,
	}
	for k, v := range mi.FieldValues {
		out.FieldValues[k] = v
	}
	for k, v := range mi.FieldLinks {
		out.FieldLinks[k] = v
	}
	return out
}
