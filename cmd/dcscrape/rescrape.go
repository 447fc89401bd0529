package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lonestardata/dcscrape/internal/runner"
)

var rescrapeInput string

// rescrapeCmd creates the "rescrape" subcommand: the quality triage
// pass over a completed dataset.
func rescrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rescrape",
		Short: "Re-scrape records that captured placeholder pages",
		Long: `Scan a completed dataset for records whose name matches a known
placeholder-page signature ("full capacity", "right place"), re-scrape
just those URLs, and merge fixed records back in. A single pass: URLs
still returning placeholders are reported, not retried.`,
		RunE: runRescrape,
	}

	cmd.Flags().StringVarP(&rescrapeInput, "input", "i", "", "dataset CSV to triage (required)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory")
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "output file prefix")
	cmd.Flags().StringVar(&delay, "delay", "", "delay between requests (e.g. 30s)")
	cmd.MarkFlagRequired("input")

	return cmd
}

func runRescrape(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if _, err := os.Stat(rescrapeInput); err != nil {
		return fmt.Errorf("dataset %s not found: %w", rescrapeInput, err)
	}

	run, err := buildRunner(cfg, logger)
	if err != nil {
		return err
	}

	summary, _, err := run.Rescrape(cmd.Context(), runner.RescrapeOptions{
		DatasetPath: rescrapeInput,
		Prefix:      prefix,
	})
	if err != nil {
		return fmt.Errorf("rescrape: %w", err)
	}

	summary.Print(os.Stdout)
	return nil
}
