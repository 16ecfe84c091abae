// Command reconcile collapses duplicate committee rows in the registry
// database onto their canonical rows, repointing every asset and user
// first. It runs offline against the same database the server uses and is
// safe to re-run.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rapamazonia/assetregistry/internal/reconcile"
	"github.com/rapamazonia/assetregistry/internal/storage/sqlite"
	"github.com/rapamazonia/assetregistry/pkg/logging"
)

var (
	dbPath string
	names  []string
	dryRun bool
)

var rootCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Deduplicate committee rows in the asset registry database",
	Long: `Deduplicate committee rows in the asset registry database.

Rows whose names normalize to the same canonical committee (casing,
accents and whitespace ignored) are collapsed onto the row with the
smallest id. Assets and users referencing a duplicate are repointed to the
surviving row before the duplicate is deleted; each committee group is one
transaction. Use --dry-run to print the merge plan without writing.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&dbPath, "db", "./data/assets.db", "path to the registry database")
	rootCmd.Flags().StringArrayVar(&names, "name", nil, "canonical committee name (repeatable; default: the official list)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the merge plan without writing")
}

func run(cmd *cobra.Command, args []string) error {
	vocabulary := names
	if len(vocabulary) == 0 {
		vocabulary = reconcile.DefaultVocabulary
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()

	if dryRun {
		rows, err := store.ListCommittees(ctx)
		if err != nil {
			return err
		}
		for _, g := range reconcile.PlanGroups(rows, vocabulary) {
			if len(g.Duplicates) == 0 {
				continue
			}
			fmt.Printf("%s: keep id %d, merge ids %v\n", g.Name, g.CanonicalID, g.Duplicates)
		}
		return nil
	}

	report, err := reconcile.New(store, slog.Default()).Run(ctx, vocabulary)
	if report != nil {
		slog.Info("reconciliation finished",
			"merged_groups", len(report.Merged),
			"repointed", report.Repointed,
			"deleted", report.Deleted,
			"remaining_committees", report.Remaining,
		)
	}
	if err != nil {
		return fmt.Errorf("reconciliation incomplete: %w", err)
	}
	return nil
}

func main() {
	_ = godotenv.Load()
	logging.Setup()

	if err := rootCmd.Execute(); err != nil {
		slog.Error("reconcile failed", "error", err)
		os.Exit(1)
	}
}
