// Package main contains the roletax CLI commands.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rbaxabr/role-taxonomy-ensemble/internal/cli"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/common"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/config"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/engine"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/records"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a CSV of job-title records",
		Long: `Classify every record in a CSV file against the role taxonomy.

Each record's role_title, job_title, and vendor_role fields are classified
independently, the per-field candidates are aggregated into a family and
role decision, and one result row per record is written to the output CSV.
Repeated terms are served from the persistent term cache, so re-running
over the same file only pays for terms it has not seen before.

Examples:
  roletax classify --input people.csv --output people_classified.csv
  roletax classify -i people.csv -o out.csv --taxonomy custom.yaml`,
		RunE: runClassify,
	}

	// Flags
	cmd.Flags().StringP("input", "i", "", "Input CSV file (required)")
	cmd.Flags().StringP("output", "o", "", "Output CSV file (required)")
	cmd.Flags().StringP("taxonomy", "t", "", "Taxonomy YAML file (default: built-in taxonomy)")

	// Bind to viper (errors are rare and can be ignored in practice)
	_ = viper.BindPFlag("classification.input", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("classification.output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("taxonomy.file", cmd.Flags().Lookup("taxonomy"))

	return cmd
}

func runClassify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	inputPath := viper.GetString("classification.input")
	outputPath := viper.GetString("classification.output")

	if inputPath == "" {
		return fmt.Errorf("%w: input file (use --input)", common.ErrMissingConfig)
	}
	if outputPath == "" {
		return fmt.Errorf("%w: output file (use --output)", common.ErrMissingConfig)
	}

	slog.Info("Starting record classification", "input", inputPath)

	// Initialize the term cache
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultCachePath
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open term cache: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close term cache", "error", closeErr)
		}
	}()

	// Run migrations
	if migrateErr := store.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("failed to run migrations: %w", migrateErr)
	}

	tax, err := loadTaxonomy()
	if err != nil {
		return err
	}

	classifier, err := createFieldClassifier(ctx, store, tax)
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

	recs, err := records.Load(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	slog.Info("Loaded records", "count", len(recs), "taxonomy", tax.Version)

	eng := engine.New(classifier, aggregator, slog.Default(), engine.WithProgress(os.Stderr))
	rows, err := eng.ProcessRecords(ctx, recs)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	if err := records.Save(outputPath, rows); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	cli.RenderSummary(os.Stdout, rows, outputPath)
	return nil
}
