package links

import (
	"github.com/panyam/qcalc/catalog"
	"github.com/panyam/qcalc/core"
)

// Check is the outcome of a link compatibility query.
type Check struct {
	Valid bool
	Err   *core.Error
}

func invalid(kind core.ErrorKind, format string, args ...any) Check {
	return Check{Err: core.Errorf(kind, format, args...)}
}

// baseType collapses field types for link compatibility: numeric dropdowns
// link like numbers, string dropdowns like text. Unit categories are allowed
// to differ on numeric links since conversion happens at the value layer.
func baseType(f *catalog.Field) catalog.FieldType {
	if f.Type == catalog.FieldDropdown {
		if f.DropdownMode == catalog.DropdownNumeric {
			return catalog.FieldNumber
		}
		return catalog.FieldText
	}
	return f.Type
}

// CanLink decides whether sourceField of the source instance may be linked to
// targetField of the target instance: no self-links, no material endpoints,
// matching base types, and no cycle once the candidate edge is added to the
// existing link graph.
func CanLink(instances []*catalog.ModuleInstance, modules map[string]*catalog.ModuleDef,
	sourceInstanceID, sourceField, targetInstanceID, targetField string) Check {

	if sourceInstanceID == targetInstanceID && sourceField == targetField {
		return invalid(core.ErrCircularLink, "cannot link a field to itself")
	}

	var source, target *catalog.ModuleInstance
	for _, inst := range instances {
		switch inst.ID {
		case sourceInstanceID:
			source = inst
		case targetInstanceID:
			target = inst
		}
	}
	if source == nil {
		return invalid(core.ErrBrokenLink, "unknown instance %q", sourceInstanceID)
	}
	if target == nil {
		return invalid(core.ErrBrokenLink, "unknown instance %q", targetInstanceID)
	}

	srcDef, tgtDef := modules[source.ModuleID], modules[target.ModuleID]
	if srcDef == nil || tgtDef == nil {
		return invalid(core.ErrBrokenLink, "missing module definition")
	}
	srcFieldDef := srcDef.FieldByName(sourceField)
	if srcFieldDef == nil {
		return invalid(core.ErrBrokenLink, "instance %q has no field %q", sourceInstanceID, sourceField)
	}
	tgtFieldDef := tgtDef.FieldByName(targetField)
	if tgtFieldDef == nil {
		return invalid(core.ErrBrokenLink, "instance %q has no field %q", targetInstanceID, targetField)
	}

	// Materials are selected, not derived; their fields never link.
	if srcFieldDef.Type == catalog.FieldMaterial || tgtFieldDef.Type == catalog.FieldMaterial {
		return invalid(core.ErrTypeMismatch, "material fields cannot be linked")
	}

	if baseType(srcFieldDef) != baseType(tgtFieldDef) {
		return invalid(core.ErrTypeMismatch, "cannot link %s field %q to %s field %q",
			srcFieldDef.Type, sourceField, tgtFieldDef.Type, targetField)
	}

	// Probe for cycles by resolving a copy of the graph with the candidate
	// edge in place.
	probe := make([]*catalog.ModuleInstance, 0, len(instances))
	for _, inst := range instances {
		clone := inst.Clone()
		if clone.ID == sourceInstanceID {
			clone.FieldLinks[sourceField] = catalog.FieldLink{
				TargetInstanceID: targetInstanceID,
				TargetField:      targetField,
			}
		}
		probe = append(probe, clone)
	}
	res := Resolve(probe, modules)
	if fields, ok := res[sourceInstanceID]; ok {
		if fr, ok := fields[sourceField]; ok && fr.Status == StatusCircularLink {
			return invalid(core.ErrCircularLink, "linking %q.%s to %q.%s would create a cycle",
				sourceInstanceID, sourceField, targetInstanceID, targetField)
		}
	}

	return Check{Valid: true}
}
