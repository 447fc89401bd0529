package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lonestardata/dcscrape/internal/config"
	"github.com/lonestardata/dcscrape/internal/dataset"
	"github.com/lonestardata/dcscrape/internal/discover"
	"github.com/lonestardata/dcscrape/internal/extract"
	"github.com/lonestardata/dcscrape/internal/fetcher"
	"github.com/lonestardata/dcscrape/internal/runner"
)

var (
	cfgFile   string
	verbose   bool
	outputDir string
	prefix    string
	delay     string
	limit     int
	startIdx  int
	chunkSize int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dcscrape",
		Short: "dcscrape: regional data center directory scraper",
		Long: `dcscrape extracts structured facility records (name, operator,
location, power and building specs) from a data center directory,
restricted to one geographic region, and persists them incrementally
to CSV with checkpoint/resume support.

The fetcher honors the directory's robots.txt: a fixed delay before
every request and a denylist of paths that are never fetched.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(mergeCmd())
	rootCmd.AddCommand(rescrapeCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// scrapeCmd creates the "scrape" subcommand. Test runs, full runs, and
// resume-from-offset runs are all this command with different flags.
func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Discover and scrape all facilities in the region",
		Long: `Discover every facility URL in the configured region, persist the
URL manifest, then fetch and extract each facility sequentially.
Progress is checkpointed every chunk-size records; use --start-index
to resume an interrupted run from its last checkpoint.`,
		RunE: runScrape,
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory")
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "output file prefix")
	cmd.Flags().StringVar(&delay, "delay", "", "delay between requests (e.g. 30s)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "scrape only the first N facilities (0 = all)")
	cmd.Flags().IntVar(&startIdx, "start-index", 0, "resume from this manifest index")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "records per checkpoint (0 = config default)")

	return cmd
}

func runScrape(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	run, err := buildRunner(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("starting scrape",
		"region", cfg.Region.Path,
		"delay", cfg.Fetcher.Delay,
		"output", cfg.Output.Dir,
		"limit", limit,
		"start_index", startIdx,
	)

	start := time.Now()
	rows, err := run.Run(cmd.Context(), runner.RunOptions{
		Limit:      limit,
		StartIndex: startIdx,
		ChunkSize:  chunkSize,
		Prefix:     prefix,
	})
	if err != nil {
		return fmt.Errorf("scrape: %w", err)
	}

	fmt.Printf("\nScrape complete in %s: %d records\n\n", time.Since(start).Round(time.Second), len(rows))
	runner.Summarize(rows).Print(os.Stdout)
	return nil
}

// mergeCmd creates the "merge" subcommand.
func mergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge checkpoint files into one deduplicated dataset",
		Long: `Load every checkpoint file for the prefix in filename order,
concatenate them, deduplicate by URL keeping the last occurrence, and
write the merged dataset.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			p := prefix
			if p == "" {
				p = cfg.Output.Prefix
			}

			rows, path, err := dataset.MergeChunks(cfg.Output.Dir, p, logger)
			if err != nil {
				return fmt.Errorf("merge: %w", err)
			}

			fmt.Printf("Merged %d unique records to %s\n\n", len(rows), path)
			runner.Summarize(rows).Print(os.Stdout)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory containing chunk files")
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "chunk file prefix")

	return cmd
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dcscrape %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Printf("Region:\n")
			fmt.Printf("  Base URL:          %s\n", cfg.Region.BaseURL)
			fmt.Printf("  Path:              %s\n", cfg.Region.Path)
			fmt.Printf("  State:             %s\n", cfg.Region.State)
			fmt.Printf("  Country:           %s\n", cfg.Region.Country)
			fmt.Printf("  Bounds:            lat %.1f..%.1f, lng %.1f..%.1f\n",
				cfg.Region.Bounds.MinLat, cfg.Region.Bounds.MaxLat,
				cfg.Region.Bounds.MinLng, cfg.Region.Bounds.MaxLng)
			fmt.Printf("\nFetcher:\n")
			fmt.Printf("  Delay:             %s\n", cfg.Fetcher.Delay)
			fmt.Printf("  Request Timeout:   %s\n", cfg.Fetcher.RequestTimeout)
			fmt.Printf("  Disallowed Paths:  %v\n", cfg.Fetcher.DisallowedPaths)
			fmt.Printf("\nOutput:\n")
			fmt.Printf("  Directory:         %s\n", cfg.Output.Dir)
			fmt.Printf("  Prefix:            %s\n", cfg.Output.Prefix)
			fmt.Printf("  Chunk Size:        %d\n", cfg.Output.ChunkSize)
			return nil
		},
	}
}

// loadConfig loads config and applies CLI flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if prefix != "" {
		cfg.Output.Prefix = prefix
	}
	if chunkSize > 0 {
		cfg.Output.ChunkSize = chunkSize
	}
	if delay != "" {
		d, err := time.ParseDuration(delay)
		if err != nil {
			return nil, fmt.Errorf("invalid delay %q: %w", delay, err)
		}
		cfg.Fetcher.Delay = d
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// buildRunner wires the fetcher, discoverer, and extractor together.
func buildRunner(cfg *config.Config, logger *slog.Logger) (*runner.Runner, error) {
	f := fetcher.NewPolitenessFetcher(&cfg.Fetcher, logger)
	d, err := discover.New(f, &cfg.Region, logger)
	if err != nil {
		return nil, fmt.Errorf("create discoverer: %w", err)
	}
	e := extract.New(&cfg.Region, logger)
	return runner.New(f, d, e, cfg, logger), nil
}

// setupLogger creates a structured logger.
func setupLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
