package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/paperpharmacy/paperpharmacy/internal/catalog"
	"github.com/paperpharmacy/paperpharmacy/internal/covers"
	"github.com/paperpharmacy/paperpharmacy/internal/dataset"
	"github.com/paperpharmacy/paperpharmacy/internal/report"
	"github.com/paperpharmacy/paperpharmacy/internal/resolve"
)

func newResolveCmd() *cobra.Command {
	var (
		datasetPath string
		outputDir   string
		sampleSize  int
		concurrency int
		withCovers  bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve ISBNs and covers for a list of titles",
		Long: `Reads title/author rows from a JSONL or Parquet file, resolves each
against the Aladin catalog, and writes a YAML report with per-row outcomes.

Each row needs a "title" and may carry "id", "author" and "isbn".`,
		Example: `  paperpharmacy resolve --dataset titles.jsonl
  paperpharmacy resolve --dataset titles.parquet --sample 50 --covers --concurrency 8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if _, err := os.Stat(datasetPath); os.IsNotExist(err) {
				return fmt.Errorf("dataset file not found: %s", datasetPath)
			}
			if cfg.AladinTTBKey == "" {
				return fmt.Errorf("ALADIN_TTB_KEY is required: %w", catalog.ErrMissingKey)
			}

			records, err := dataset.NewLoader(datasetPath).LoadSample(sampleSize)
			if err != nil {
				return fmt.Errorf("failed to load dataset: %w", err)
			}
			slog.Info("Dataset loaded", "records", len(records))

			runner := &resolve.Runner{
				Catalog:     catalog.NewClient(cfg.AladinBaseURL, cfg.AladinTTBKey, cfg.CatalogTimeout),
				Concurrency: concurrency,
			}
			if withCovers {
				runner.Covers = covers.NewResolver(cfg.CoverSources, cfg.CoverTimeout)
			}

			start := time.Now()
			rep := &report.ResolutionReport{
				Config: report.RunConfig{
					DatasetPath: datasetPath,
					SampleSize:  sampleSize,
					Concurrency: concurrency,
					Covers:      withCovers,
					Timestamp:   start.Format("2006-01-02_15-04-05"),
				},
				Results: runner.Run(cmd.Context(), records),
			}
			rep.Summarize(time.Since(start))

			path, err := report.Save(outputDir, rep)
			if err != nil {
				return fmt.Errorf("failed to save report: %w", err)
			}

			fmt.Printf("Resolved %d/%d titles in %s\n", rep.Summary.Resolved, rep.Summary.Total, rep.Summary.Duration)
			fmt.Printf("Report saved to: %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "titles.jsonl", "Path to a JSONL or Parquet title list")
	cmd.Flags().StringVar(&outputDir, "output", "reports", "Directory for the YAML report")
	cmd.Flags().IntVar(&sampleSize, "sample", 0, "Number of rows to resolve (0 for all)")
	cmd.Flags().IntVar(&concurrency, "concurrency", resolve.DefaultConcurrency, "Concurrent catalog lookups")
	cmd.Flags().BoolVar(&withCovers, "covers", false, "Also resolve cover images")

	return cmd
}
