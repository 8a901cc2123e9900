package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rbaxabr/role-taxonomy-ensemble/internal/cli"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/config"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/service"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the term cache",
	}
	cmd.AddCommand(cacheStatsCmd())
	cmd.AddCommand(cachePurgeCmd())
	return cmd
}

func cacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cached entry counts per model and version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openTermCache(cmd)
			if err != nil {
				return err
			}
			defer closeTermCache(store)

			stats, err := store.Stats(ctx)
			if err != nil {
				return fmt.Errorf("failed to read cache stats: %w", err)
			}

			if len(stats) == 0 {
				fmt.Fprintln(os.Stdout, cli.SubtleStyle.Render("Term cache is empty"))
				return nil
			}

			fmt.Fprintln(os.Stdout, cli.TitleStyle.Render("Term cache"))
			var total, errored int
			for _, s := range stats {
				fmt.Fprintf(os.Stdout, "%s (taxonomy %s, prompt %s): %d entries, %d with errors\n",
					s.Model, s.TaxonomyVersion, s.PromptVersion, s.Entries, s.Errors)
				total += s.Entries
				errored += s.Errors
			}
			fmt.Fprintln(os.Stdout, cli.SubtleStyle.Render(fmt.Sprintf("%d entries total, %d with errors", total, errored)))
			return nil
		},
	}
}

func cachePurgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete cache entries for other models or versions",
		Long: `Delete every cache entry whose (model, taxonomy version, prompt version)
triple differs from the one to keep. Entries under the kept triple are
untouched; a later classify run repopulates anything purged.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			keep := service.TermKey{
				Model:           viper.GetString("cache.keep_model"),
				TaxonomyVersion: viper.GetString("cache.keep_taxonomy_version"),
				PromptVersion:   viper.GetString("cache.keep_prompt_version"),
			}
			if keep.Model == "" || keep.TaxonomyVersion == "" || keep.PromptVersion == "" {
				return fmt.Errorf("purge requires --keep-model, --keep-taxonomy-version, and --keep-prompt-version")
			}

			store, err := openTermCache(cmd)
			if err != nil {
				return err
			}
			defer closeTermCache(store)

			purged, err := store.PurgeVersions(ctx, keep)
			if err != nil {
				return fmt.Errorf("failed to purge cache: %w", err)
			}

			fmt.Fprintln(os.Stdout, cli.FormatSuccess(fmt.Sprintf("Purged %d cache entries", purged)))
			return nil
		},
	}

	cmd.Flags().String("keep-model", "", "Model ID to keep")
	cmd.Flags().String("keep-taxonomy-version", "", "Taxonomy version to keep")
	cmd.Flags().String("keep-prompt-version", "", "Prompt version to keep")
	_ = viper.BindPFlag("cache.keep_model", cmd.Flags().Lookup("keep-model"))
	_ = viper.BindPFlag("cache.keep_taxonomy_version", cmd.Flags().Lookup("keep-taxonomy-version"))
	_ = viper.BindPFlag("cache.keep_prompt_version", cmd.Flags().Lookup("keep-prompt-version"))

	return cmd
}

// openTermCache opens the configured cache database and runs migrations.
func openTermCache(cmd *cobra.Command) (*storage.SQLiteStore, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultCachePath
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open term cache: %w", err)
	}
	if err := store.Migrate(cmd.Context()); err != nil {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close term cache", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

func closeTermCache(store *storage.SQLiteStore) {
	if err := store.Close(); err != nil {
		slog.Error("Failed to close term cache", "error", err)
	}
}
