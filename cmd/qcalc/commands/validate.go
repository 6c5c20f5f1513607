package commands

import (
	"fmt"
	"os"

	"github.com/panyam/qcalc/engine"
	"github.com/spf13/cobra"
)

var validateFields []string

var validateCmd = &cobra.Command{
	Use:   "validate -e '<expr>' [--field name[=default] ...]",
	Short: "Statically checks a formula against a set of field names",
	Long: `The validate command parses a formula and checks that every referenced
identifier resolves to a declared field, a built-in function or a constant.
When defaults are supplied for all fields, a preview value is computed too.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		formula, err := requireExpr()
		if err != nil {
			return err
		}
		def, err := parseFieldSpecs(validateFields)
		if err != nil {
			return err
		}

		res := engine.ValidateFormula(formula, def, nil, nil)
		if !res.Valid {
			errColor.Fprintf(os.Stderr, "invalid: [%s] %s\n", res.Err.Kind, res.Err.Msg)
			os.Exit(1)
		}
		okColor.Println("valid")
		if res.Preview != nil {
			fmt.Printf("preview: %v\n", *res.Preview)
		} else if res.PreviewErr != nil {
			dimColor.Printf("preview unavailable: %v\n", res.PreviewErr)
		}
		return nil
	},
}

func init() {
	AddCommand(validateCmd)
	validateCmd.Flags().StringArrayVar(&validateFields, "field", nil, "Declare a field, optionally with a default (name=value)")
}
