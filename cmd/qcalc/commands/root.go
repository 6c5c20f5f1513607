package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var formulaText string

var rootCmd = &cobra.Command{
	Use:   "qcalc",
	Short: "qcalc validates, evaluates and inspects catalog formulas",
	Long: `qcalc is the command-line front end of the formula engine used by the
catalog/estimate builder. It can validate a formula against a set of field
names, evaluate it with concrete values, report which names a formula
references, and list the known unit symbols.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&formulaText, "expr", "e", "", "Formula expression to operate on")
}

// AddCommand allows adding subcommands from other files.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}
