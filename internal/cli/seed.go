package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neersetu/neersetu/internal/store"
)

var (
	seedCSV        string
	seedDBPath     string
	seedPreMonsoon bool
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the database schema and ingest an assessment CSV",
	Long: `Seed loads official assessment CSV exports into the SQLite fact store,
replacing any previous contents.

Column names are recognized across export variants (e.g. "Assessment Unit"
for block, "Stage of Extraction" for stage); the post-monsoon level column is
preferred when both seasons are present.

Example:
  neersetu seed --csv data/sample_levels.csv
  neersetu seed --csv data/ingres_2024.csv --db storage/neersetu.db --pre-monsoon`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedCSV, "csv", "", "assessment CSV to ingest (required)")
	seedCmd.Flags().StringVar(&seedDBPath, "db", "", "SQLite database path")
	seedCmd.Flags().BoolVar(&seedPreMonsoon, "pre-monsoon", false, "prefer the pre-monsoon level column")
	_ = seedCmd.MarkFlagRequired("csv")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if seedDBPath != "" {
		cfg.Database.Path = seedDBPath
	}

	f, err := os.Open(seedCSV)
	if err != nil {
		return fmt.Errorf("open CSV: %w", err)
	}
	defer func() { _ = f.Close() }()

	opts := store.DefaultIngestOptions()
	opts.UsePostMonsoon = !seedPreMonsoon

	records, err := store.ReadCSV(f, opts)
	if err != nil {
		return fmt.Errorf("parse %s: %w", seedCSV, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no valid rows parsed from %s", seedCSV)
	}

	facts, err := store.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open fact store: %w", err)
	}
	defer func() { _ = facts.Close() }()

	if err := facts.Replace(context.Background(), records); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	fmt.Printf("Ingested %d rows into %s\n", len(records), cfg.Database.Path)
	return nil
}
