package links

import (
	"testing"

	"github.com/panyam/qcalc/catalog"
	"github.com/panyam/qcalc/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModules() map[string]*catalog.ModuleDef {
	return map[string]*catalog.ModuleDef{
		"shelf": {
			ID: "shelf",
			Fields: []*catalog.Field{
				{VariableName: "width", Type: catalog.FieldNumber, DefaultValue: core.NumberValue(1)},
				{VariableName: "height", Type: catalog.FieldNumber, DefaultValue: core.NumberValue(2)},
				{VariableName: "label", Type: catalog.FieldText},
			},
		},
	}
}

func instance(id string, values map[string]float64, fieldLinks map[string]catalog.FieldLink) *catalog.ModuleInstance {
	inst := &catalog.ModuleInstance{
		ID:          id,
		ModuleID:    "shelf",
		FieldValues: map[string]core.Value{},
		FieldLinks:  fieldLinks,
	}
	if inst.FieldLinks == nil {
		inst.FieldLinks = map[string]catalog.FieldLink{}
	}
	for k, v := range values {
		inst.FieldValues[k] = core.NumberValue(v)
	}
	return inst
}

func link(instID, field string) catalog.FieldLink {
	return catalog.FieldLink{TargetInstanceID: instID, TargetField: field}
}

func TestResolveNoLinks(t *testing.T) {
	a := instance("a", map[string]float64{"width": 5}, nil)
	res := Resolve([]*catalog.ModuleInstance{a}, testModules())

	require.Contains(t, res, "a")
	assert.Equal(t, core.NumberValue(5), res["a"]["width"].Value)
	assert.Equal(t, StatusOK, res["a"]["width"].Status)

	// Unset fields fall back to the module default.
	assert.Equal(t, core.NumberValue(2), res["a"]["height"].Value)
	assert.Equal(t, StatusOK, res["a"]["height"].Status)
}

func TestResolveChain(t *testing.T) {
	// c.width -> b.width -> a.width (local 7)
	a := instance("a", map[string]float64{"width": 7}, nil)
	b := instance("b", map[string]float64{"width": 1}, map[string]catalog.FieldLink{
		"width": link("a", "width"),
	})
	c := instance("c", map[string]float64{"width": 2}, map[string]catalog.FieldLink{
		"width": link("b", "width"),
	})

	res := Resolve([]*catalog.ModuleInstance{a, b, c}, testModules())
	assert.Equal(t, core.NumberValue(7), res["b"]["width"].Value)
	assert.Equal(t, core.NumberValue(7), res["c"]["width"].Value)
	assert.Equal(t, StatusOK, res["c"]["width"].Status)
}

func TestResolveCrossFieldLink(t *testing.T) {
	a := instance("a", map[string]float64{"height": 9}, nil)
	b := instance("b", nil, map[string]catalog.FieldLink{
		"width": link("a", "height"),
	})

	res := Resolve([]*catalog.ModuleInstance{a, b}, testModules())
	assert.Equal(t, core.NumberValue(9), res["b"]["width"].Value)
}

func TestResolveForcedCycleTerminates(t *testing.T) {
	// Simulates corrupted state: a.width -> b.width -> a.width.
	a := instance("a", map[string]float64{"width": 3}, map[string]catalog.FieldLink{
		"width": link("b", "width"),
	})
	b := instance("b", map[string]float64{"width": 4}, map[string]catalog.FieldLink{
		"width": link("a", "width"),
	})

	res := Resolve([]*catalog.ModuleInstance{a, b}, testModules())

	// Both fall back to their own local values and are flagged.
	assert.Equal(t, StatusCircularLink, res["a"]["width"].Status)
	assert.Equal(t, core.NumberValue(3), res["a"]["width"].Value)
	assert.Equal(t, StatusCircularLink, res["b"]["width"].Status)
	assert.Equal(t, core.NumberValue(4), res["b"]["width"].Value)

	// Unrelated fields stay healthy.
	assert.Equal(t, StatusOK, res["a"]["height"].Status)
}

func TestResolveSelfCycle(t *testing.T) {
	a := instance("a", map[string]float64{"width": 3}, map[string]catalog.FieldLink{
		"width": link("a", "width"),
	})
	res := Resolve([]*catalog.ModuleInstance{a}, testModules())
	assert.Equal(t, StatusCircularLink, res["a"]["width"].Status)
	assert.Equal(t, core.NumberValue(3), res["a"]["width"].Value)
}

func TestResolveBrokenInstance(t *testing.T) {
	a := instance("a", map[string]float64{"width": 3}, map[string]catalog.FieldLink{
		"width": link("ghost", "width"),
	})
	b := instance("b", map[string]float64{"width": 8}, nil)

	res := Resolve([]*catalog.ModuleInstance{a, b}, testModules())

	assert.Equal(t, StatusBrokenLink, res["a"]["width"].Status)
	assert.Equal(t, core.NumberValue(3), res["a"]["width"].Value)

	// Unrelated instance is untouched.
	assert.Equal(t, StatusOK, res["b"]["width"].Status)
	assert.Equal(t, core.NumberValue(8), res["b"]["width"].Value)
}

func TestResolveBrokenField(t *testing.T) {
	a := instance("a", map[string]float64{"width": 3}, map[string]catalog.FieldLink{
		"width": link("b", "depth"),
	})
	b := instance("b", nil, nil)

	res := Resolve([]*catalog.ModuleInstance{a, b}, testModules())
	assert.Equal(t, StatusBrokenLink, res["a"]["width"].Status)
	assert.Equal(t, core.NumberValue(3), res["a"]["width"].Value)
}

func TestResolveBrokenDownstream(t *testing.T) {
	// a -> b -> ghost: a's traversal hits the broken edge and falls back to
	// a's own local value.
	a := instance("a", map[string]float64{"width": 3}, map[string]catalog.FieldLink{
		"width": link("b", "width"),
	})
	b := instance("b", map[string]float64{"width": 4}, map[string]catalog.FieldLink{
		"width": link("ghost", "width"),
	})

	res := Resolve([]*catalog.ModuleInstance{a, b}, testModules())
	assert.Equal(t, StatusBrokenLink, res["a"]["width"].Status)
	assert.Equal(t, core.NumberValue(3), res["a"]["width"].Value)
	assert.Equal(t, StatusBrokenLink, res["b"]["width"].Status)
	assert.Equal(t, core.NumberValue(4), res["b"]["width"].Value)
}

func TestResolveDeterministic(t *testing.T) {
	a := instance("a", map[string]float64{"width": 1}, nil)
	b := instance("b", nil, map[string]catalog.FieldLink{"width": link("a", "width")})
	c := instance("c", nil, map[string]catalog.FieldLink{"height": link("a", "height")})
	instances := []*catalog.ModuleInstance{c, a, b}

	first := Resolve(instances, testModules())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Resolve(instances, testModules()))
	}

	// Order of the input slice does not matter.
	reordered := Resolve([]*catalog.ModuleInstance{b, c, a}, testModules())
	assert.Equal(t, first, reordered)
}
