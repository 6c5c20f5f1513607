package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/panyam/qcalc/catalog"
	"github.com/panyam/qcalc/core"
)

var (
	okColor  = color.New(color.FgGreen, color.Bold)
	errColor = color.New(color.FgRed, color.Bold)
	dimColor = color.New(color.Faint)
)

// parseFieldSpecs turns repeated --field name[=default] flags into number
// fields on an ad hoc module definition.
func parseFieldSpecs(specs []string) (*catalog.ModuleDef, error) {
	def := &catalog.ModuleDef{ID: "cli", Name: "cli"}
	for _, spec := range specs {
		name, value, hasDefault := strings.Cut(spec, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("invalid field spec %q", spec)
		}
		f := &catalog.Field{
			ID:           name,
			VariableName: name,
			Label:        name,
			Type:         catalog.FieldNumber,
		}
		if hasDefault {
			num, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				return nil, fmt.Errorf("field %q: invalid default %q", name, value)
			}
			f.DefaultValue = core.NumberValue(num)
		}
		def.Fields = append(def.Fields, f)
	}
	return def, nil
}

// parseVarSpecs turns repeated --var name=value flags into a value map.
func parseVarSpecs(specs []string) (map[string]core.Value, error) {
	out := map[string]core.Value{}
	for _, spec := range specs {
		name, value, ok := strings.Cut(spec, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid var spec %q, expected name=value", spec)
		}
		value = strings.TrimSpace(value)
		switch value {
		case "true":
			out[name] = core.BoolValue(true)
		case "false":
			out[name] = core.BoolValue(false)
		default:
			num, err := strconv.ParseFloat(value, 64)
			if err != nil {
				out[name] = core.StringValue(value)
				continue
			}
			out[name] = core.NumberValue(num)
		}
	}
	return out, nil
}

func requireExpr() (string, error) {
	if strings.TrimSpace(formulaText) == "" {
		return "", fmt.Errorf("no formula given, use -e '<expr>'")
	}
	return formulaText, nil
}

func printList(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("%s: %s\n", title, strings.Join(items, ", "))
}
