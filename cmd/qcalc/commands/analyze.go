package commands

import (
	"github.com/panyam/qcalc/engine"
	"github.com/spf13/cobra"
)

var analyzeFields []string

var analyzeCmd = &cobra.Command{
	Use:   "analyze -e '<expr>' [--field name ...]",
	Short: "Reports every name a formula references",
	Long: `The analyze command classifies each reference in a formula: known and
unknown variables, material and field property references, user function
calls, built-in math functions and computed output references. Useful for
wiring autocomplete or dependency displays.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		formula, err := requireExpr()
		if err != nil {
			return err
		}
		def, err := parseFieldSpecs(analyzeFields)
		if err != nil {
			return err
		}

		analysis, err := engine.AnalyzeFormulaVariables(formula, def, nil, nil)
		if err != nil {
			return err
		}
		printList("variables", analysis.Variables)
		printList("unknown", analysis.UnknownVariables)
		printList("field properties", analysis.FieldPropertyRefs)
		printList("material properties", analysis.MaterialPropertyRefs)
		printList("functions", analysis.FunctionCalls)
		printList("math functions", analysis.MathFunctions)
		printList("outputs", analysis.ComputedOutputs)
		return nil
	},
}

func init() {
	AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringArrayVar(&analyzeFields, "field", nil, "Declare a known field name, repeatable")
}
