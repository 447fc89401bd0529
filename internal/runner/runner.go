package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lonestardata/dcscrape/internal/config"
	"github.com/lonestardata/dcscrape/internal/dataset"
	"github.com/lonestardata/dcscrape/internal/discover"
	"github.com/lonestardata/dcscrape/internal/extract"
	"github.com/lonestardata/dcscrape/internal/fetcher"
	"github.com/lonestardata/dcscrape/internal/types"
)

// Runner drives discovery and extraction across the region,
// checkpointing accumulated records so an interrupted run loses at most
// one chunk of progress. Execution is strictly sequential; the
// politeness delay makes the remote source the bottleneck by policy.
type Runner struct {
	fetcher    fetcher.Fetcher
	discoverer *discover.Discoverer
	extractor  *extract.Extractor
	cfg        *config.Config
	logger     *slog.Logger
}

// New creates a Runner.
func New(f fetcher.Fetcher, d *discover.Discoverer, e *extract.Extractor, cfg *config.Config, logger *slog.Logger) *Runner {
	return &Runner{
		fetcher:    f,
		discoverer: d,
		extractor:  e,
		cfg:        cfg,
		logger:     logger.With("component", "runner"),
	}
}

// RunOptions control one scrape run.
type RunOptions struct {
	// Limit caps how many facilities are processed (0 = all).
	Limit int

	// StartIndex skips the first N manifest entries, for resuming an
	// interrupted run from its last checkpoint index.
	StartIndex int

	// ChunkSize overrides the configured checkpoint interval (0 = config).
	ChunkSize int

	// Prefix overrides the configured output file prefix ("" = config).
	Prefix string
}

// Run discovers all facility URLs, persists the manifest, then fetches
// and extracts each facility in manifest order. Records with a name are
// kept; every attempt advances the index. A cumulative snapshot is
// written whenever the offset-adjusted 1-based index hits a chunk
// boundary, and a final snapshot is always written after the loop.
func (r *Runner) Run(ctx context.Context, opts RunOptions) ([]dataset.Row, error) {
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = r.cfg.Output.ChunkSize
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = r.cfg.Output.Prefix
	}
	dir := r.cfg.Output.Dir

	urls, err := r.discoverer.FacilityURLs(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover facilities: %w", err)
	}
	if len(urls) == 0 {
		return nil, types.ErrNoFacilities
	}

	manifestPath := dataset.ManifestPath(dir, prefix)
	if err := dataset.WriteManifest(manifestPath, urls); err != nil {
		return nil, err
	}
	r.logger.Info("manifest written", "path", manifestPath, "urls", len(urls))

	if opts.Limit > 0 && opts.Limit < len(urls) {
		urls = urls[:opts.Limit]
		r.logger.Info("run limited", "facilities", opts.Limit)
	}

	total := len(urls)
	if opts.StartIndex > 0 {
		if opts.StartIndex >= total {
			return nil, fmt.Errorf("start index %d beyond %d discovered facilities", opts.StartIndex, total)
		}
		r.logger.Info("resuming", "start_index", opts.StartIndex)
		urls = urls[opts.StartIndex:]
	}

	var rows []dataset.Row
	for i, u := range urls {
		index := opts.StartIndex + i + 1
		r.logger.Info("processing facility", "index", index, "total", total, "url", u)

		if row, ok := r.scrapeOne(ctx, u); ok {
			rows = append(rows, row)
			r.logger.Info("scraped", "name", row["name"])
		} else {
			r.logger.Warn("no data for facility", "url", u)
		}

		if index%chunkSize == 0 {
			path := dataset.ChunkPath(dir, prefix, index)
			if err := dataset.WriteCSV(path, rows); err != nil {
				return nil, fmt.Errorf("write checkpoint: %w", err)
			}
			r.logger.Info("checkpoint saved",
				"path", path,
				"records", len(rows),
				"progress", fmt.Sprintf("%d/%d (%.1f%%)", index, total, float64(index)/float64(total)*100),
			)
		}
	}

	finalPath := dataset.FinalPath(dir, prefix)
	if err := dataset.WriteCSV(finalPath, rows); err != nil {
		return nil, fmt.Errorf("write final snapshot: %w", err)
	}
	r.logger.Info("run complete", "path", finalPath, "records", len(rows))

	return rows, nil
}

// scrapeOne fetches and extracts a single facility. The attempt counts
// as successful only when extraction yielded a name.
func (r *Runner) scrapeOne(ctx context.Context, url string) (dataset.Row, bool) {
	page, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, false
	}
	rec := r.extractor.Extract(page)
	if rec.Name == "" {
		return nil, false
	}
	return rec.Row(), true
}
