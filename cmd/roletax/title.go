package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rbaxabr/role-taxonomy-ensemble/internal/cli"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/engine"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/model"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func titleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "title <text>",
		Short: "Classify a single job title",
		Long: `Classify one free-text job title and print the decision.

The text is classified as each of the three source fields so the weighted
aggregation behaves the same as it would for a full record. Results are
held in memory only; the persistent term cache is not touched.

Examples:
  roletax title "Senior SDET - Remote"
  roletax title "Lead Platform Engineer" --breakdown`,
		Args: cobra.ExactArgs(1),
		RunE: runTitle,
	}

	cmd.Flags().Bool("breakdown", false, "Show the family and role score breakdowns")
	_ = viper.BindPFlag("title.breakdown", cmd.Flags().Lookup("breakdown"))

	return cmd
}

func runTitle(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	text := args[0]

	tax, err := loadTaxonomy()
	if err != nil {
		return err
	}

	classifier, err := createFieldClassifier(ctx, storage.NewMemoryStore(), tax)
	if err != nil {
		return fmt.Errorf("failed to create classifier: %w", err)
	}
	defer func() {
		if closeErr := classifier.Close(); closeErr != nil {
			slog.Error("Failed to close classifier", "error", closeErr)
		}
	}()

	aggregator, err := createAggregator(tax)
	if err != nil {
		return err
	}

	eng := engine.New(classifier, aggregator, slog.Default())
	row := eng.ProcessRecord(ctx, model.Record{
		Username:   "adhoc",
		RoleTitle:  text,
		JobTitle:   text,
		VendorRole: text,
	})

	cli.RenderDecision(os.Stdout, row)
	if viper.GetBool("title.breakdown") {
		cli.RenderBreakdown(os.Stdout, "Families", row.Result.FamilyBreakdown)
		cli.RenderBreakdown(os.Stdout, "Roles", row.Result.RoleBreakdown)
	}

	return nil
}
