package commands

import (
	"fmt"
	"os"

	"github.com/panyam/qcalc/core"
	"github.com/panyam/qcalc/eval"
	"github.com/spf13/cobra"
)

var evalVars []string

var evalCmd = &cobra.Command{
	Use:   "eval -e '<expr>' [--var name=value ...]",
	Short: "Evaluates a formula with concrete variable values",
	RunE: func(cmd *cobra.Command, args []string) error {
		formula, err := requireExpr()
		if err != nil {
			return err
		}
		values, err := parseVarSpecs(evalVars)
		if err != nil {
			return err
		}

		result, err := eval.EvaluateFormula(formula, eval.NewContext(values))
		if err != nil {
			errColor.Fprintf(os.Stderr, "[%s] %v\n", core.KindOf(err), err)
			os.Exit(1)
		}
		fmt.Println(result)
		return nil
	},
}

func init() {
	AddCommand(evalCmd)
	evalCmd.Flags().StringArrayVar(&evalVars, "var", nil, "Bind a variable (name=value), repeatable")
}
