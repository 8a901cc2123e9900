package main

import (
	"fmt"
	"os"

	"github.com/rbaxabr/role-taxonomy-ensemble/internal/cli"
	"github.com/spf13/cobra"
)

func taxonomyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "taxonomy",
		Short: "List the canonical roles grouped by family",
		RunE:  runTaxonomy,
	}
}

func runTaxonomy(_ *cobra.Command, _ []string) error {
	tax, err := loadTaxonomy()
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, cli.TitleStyle.Render(fmt.Sprintf("Role taxonomy %s", tax.Version)))
	for _, family := range tax.FamilyNames() {
		fmt.Fprintln(os.Stdout, cli.BoldStyle.Render(family))
		for _, role := range tax.RolesInFamily(family) {
			fmt.Fprintf(os.Stdout, "  %s\n", role)
		}
	}

	fmt.Fprintln(os.Stdout, cli.SubtleStyle.Render(fmt.Sprintf("%d roles in %d families", len(tax.Roles()), len(tax.FamilyNames()))))
	return nil
}
