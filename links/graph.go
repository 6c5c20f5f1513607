// Package links resolves cross-instance field links: a directed graph where
// each (instance, field) node may point at another instance's field, and
// reads follow the chain to the first locally-valued node. Cycles and missing
// targets degrade to the field's own local value with a flag, never an abort.
package links

import (
	"sort"

	"github.com/panyam/qcalc/catalog"
	"github.com/panyam/qcalc/core"
)

// Status classifies how a field's value was resolved.
type Status int

const (
	StatusOK Status = iota
	StatusCircularLink
	StatusBrokenLink
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusCircularLink:
		return "CircularLink"
	case StatusBrokenLink:
		return "BrokenLink"
	default:
		return "Unknown"
	}
}

// FieldResolution is the resolved value of one field plus how it got there.
// On a cycle or broken target, Value is the field's own local value.
type FieldResolution struct {
	Value  core.Value
	Status Status
}

// Resolution maps instance ID to field name to resolved value.
type Resolution map[string]map[string]FieldResolution

// Resolver resolves field links over a fixed snapshot of instances and their
// module definitions. It holds no caches; build a fresh one per resolution
// pass.
type Resolver struct {
	instances map[string]*catalog.ModuleInstance
	modules   map[string]*catalog.ModuleDef
	ordered   []*catalog.ModuleInstance
}

// NewResolver snapshots the instance set. modules maps module ID to its
// definition and supplies field lists and defaults; a nil entry just limits
// resolution to explicitly stored values.
func NewResolver(instances []*catalog.ModuleInstance, modules map[string]*catalog.ModuleDef) *Resolver {
	r := &Resolver{
		instances: make(map[string]*catalog.ModuleInstance, len(instances)),
		modules:   modules,
		ordered:   make([]*catalog.ModuleInstance, len(instances)),
	}
	copy(r.ordered, instances)
	sort.Slice(r.ordered, func(i, j int) bool { return r.ordered[i].ID < r.ordered[j].ID })
	for _, inst := range instances {
		r.instances[inst.ID] = inst
	}
	return r
}

// Resolve computes the effective value of every field of every instance.
// Iteration order is deterministic (sorted instance IDs, sorted field names)
// so repeated passes over the same inputs produce identical maps.
func (r *Resolver) Resolve() Resolution {
	out := Resolution{}
	for _, inst := range r.ordered {
		fields := r.fieldNames(inst)
		resolved := make(map[string]FieldResolution, len(fields))
		for _, name := range fields {
			resolved[name] = r.resolveField(inst, name)
		}
		out[inst.ID] = resolved
	}
	return out
}

// Resolve is the package-level convenience: snapshot and resolve in one call.
func Resolve(instances []*catalog.ModuleInstance, modules map[string]*catalog.ModuleDef) Resolution {
	return NewResolver(instances, modules).Resolve()
}

// fieldNames returns the union of the instance's defined fields, stored
// values and links, sorted.
func (r *Resolver) fieldNames(inst *catalog.ModuleInstance) []string {
	seen := map[string]bool{}
	if def := r.modules[inst.ModuleID]; def != nil {
		for _, f := range def.Fields {
			seen[f.VariableName] = true
		}
	}
	for name := range inst.FieldValues {
		seen[name] = true
	}
	for name := range inst.FieldLinks {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolveField follows the link chain starting at (inst, field). The chain
// ends at the first node with no outgoing link; revisiting a node on the
// current path is a cycle and a missing target instance or field is a broken
// link, both of which fall back to the starting field's own local value.
func (r *Resolver) resolveField(inst *catalog.ModuleInstance, field string) FieldResolution {
	type node struct {
		instID string
		field  string
	}
	onPath := map[node]bool{}

	cur, curField := inst, field
	for {
		key := node{cur.ID, curField}
		if onPath[key] {
			return FieldResolution{Value: r.localValue(inst, field), Status: StatusCircularLink}
		}
		onPath[key] = true

		link, linked := cur.FieldLinks[curField]
		if !linked {
			if !r.fieldExists(cur, curField) {
				return FieldResolution{Value: r.localValue(inst, field), Status: StatusBrokenLink}
			}
			// Reached a locally-valued node.
			return FieldResolution{Value: r.localValue(cur, curField), Status: StatusOK}
		}

		target, ok := r.instances[link.TargetInstanceID]
		if !ok {
			return FieldResolution{Value: r.localValue(inst, field), Status: StatusBrokenLink}
		}
		cur, curField = target, link.TargetField
	}
}

// fieldExists reports whether the instance knows the field at all, via its
// module definition or an explicitly stored value.
func (r *Resolver) fieldExists(inst *catalog.ModuleInstance, field string) bool {
	if _, ok := inst.FieldValues[field]; ok {
		return true
	}
	if def := r.modules[inst.ModuleID]; def != nil && def.FieldByName(field) != nil {
		return true
	}
	return false
}

// localValue is the field's own stored value, falling back to the module
// definition's default.
func (r *Resolver) localValue(inst *catalog.ModuleInstance, field string) core.Value {
	if v, ok := inst.FieldValues[field]; ok {
		return v
	}
	if def := r.modules[inst.ModuleID]; def != nil {
		if f := def.FieldByName(field); f != nil {
			return f.DefaultValue
		}
	}
	return core.NilValue()
}
