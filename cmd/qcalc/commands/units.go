package commands

import (
	"fmt"

	"github.com/panyam/qcalc/units"
	"github.com/spf13/cobra"
)

var unitsCmd = &cobra.Command{
	Use:   "units [category]",
	Short: "Lists known unit symbols and their base-unit factors",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cats := units.AllCategories()
		if len(args) == 1 {
			cats = []units.Category{units.Category(args[0])}
		}
		for _, cat := range cats {
			symbols := units.SymbolsFor(cat)
			if len(symbols) == 0 {
				return fmt.Errorf("unknown unit category %q", args[0])
			}
			okColor.Printf("%s (base: %s)\n", cat, units.BaseSymbol(cat))
			for _, sym := range symbols {
				u, _ := units.Lookup(sym)
				fmt.Printf("  %-8s x%v\n", sym, u.FactorToBase)
			}
		}
		return nil
	},
}

func init() {
	AddCommand(unitsCmd)
}
