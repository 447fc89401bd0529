package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/lonestardata/dcscrape/internal/dataset"
)

// Phrases that mark a record's name as a placeholder page rather than a
// real facility: the page said "we're at full capacity" or "you're in
// the right place, but..." instead of a name.
var placeholderPhrases = []string{"full capacity", "right place", "you're in the right"}

// IsPlaceholderName reports whether a scraped name matches a known
// placeholder-page signature.
func IsPlaceholderName(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range placeholderPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// RescrapeOptions control one triage pass.
type RescrapeOptions struct {
	// DatasetPath is the completed dataset to triage.
	DatasetPath string

	// Prefix overrides the configured output file prefix ("" = config).
	Prefix string

	// CheckpointEvery persists the fixed-so-far records every N
	// attempts (0 = the configured chunk size).
	CheckpointEvery int
}

// RescrapeSummary reports the outcome of a triage pass.
type RescrapeSummary struct {
	Total     int
	Good      int
	Bad       int
	Fixed     int
	StillBad  []string
	FinalRows int
	FixedPath string
	CleanPath string
}

// Rescrape partitions a completed dataset into good rows and
// placeholder ("bad") rows, re-scrapes only the bad URLs, and merges
// successfully fixed records back in, the fixed version superseding the
// stale row for the same URL. It is a single pass: URLs that come back
// as placeholders again are reported, not retried.
func (r *Runner) Rescrape(ctx context.Context, opts RescrapeOptions) (*RescrapeSummary, []dataset.Row, error) {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = r.cfg.Output.Prefix
	}
	every := opts.CheckpointEvery
	if every <= 0 {
		every = r.cfg.Output.ChunkSize
	}
	dir := r.cfg.Output.Dir

	rows, err := dataset.ReadCSV(opts.DatasetPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load dataset: %w", err)
	}

	var good, bad []dataset.Row
	for _, row := range rows {
		if IsPlaceholderName(row["name"]) {
			bad = append(bad, row)
		} else {
			good = append(good, row)
		}
	}

	summary := &RescrapeSummary{
		Total: len(rows),
		Good:  len(good),
		Bad:   len(bad),
	}
	r.logger.Info("dataset triaged", "total", len(rows), "good", len(good), "bad", len(bad))

	if len(bad) == 0 {
		r.logger.Info("no placeholder records found, nothing to re-scrape")
		summary.FinalRows = len(rows)
		return summary, rows, nil
	}

	var fixed []dataset.Row
	for i, row := range bad {
		u := row["url"]
		r.logger.Info("re-scraping", "index", i+1, "total", len(bad), "url", u)

		result, ok := r.scrapeOne(ctx, u)
		switch {
		case !ok:
			r.logger.Warn("re-scrape failed", "url", u)
			summary.StillBad = append(summary.StillBad, u)
		case IsPlaceholderName(result["name"]):
			r.logger.Warn("still a placeholder page", "url", u)
			summary.StillBad = append(summary.StillBad, u)
		default:
			fixed = append(fixed, result)
			r.logger.Info("fixed", "name", result["name"])
		}

		if (i+1)%every == 0 {
			path := dataset.FixedCheckpointPath(dir, i+1)
			if err := dataset.WriteCSV(path, fixed); err != nil {
				return nil, nil, fmt.Errorf("write fixed checkpoint: %w", err)
			}
			r.logger.Info("checkpoint saved", "path", path, "fixed", len(fixed))
		}
	}

	summary.Fixed = len(fixed)
	if len(fixed) == 0 {
		r.logger.Warn("no records were fixed")
		summary.FinalRows = len(good)
		return summary, good, nil
	}

	fixedPath := dataset.FixedPath(dir, prefix)
	if err := dataset.WriteCSV(fixedPath, fixed); err != nil {
		return nil, nil, fmt.Errorf("write fixed records: %w", err)
	}
	summary.FixedPath = fixedPath

	combined := dataset.DedupeByURL(append(good, fixed...))
	cleanPath := dataset.CleanPath(dir, prefix)
	if err := dataset.WriteCSV(cleanPath, combined); err != nil {
		return nil, nil, fmt.Errorf("write clean dataset: %w", err)
	}
	summary.CleanPath = cleanPath
	summary.FinalRows = len(combined)

	r.logger.Info("clean dataset written",
		"path", cleanPath,
		"records", len(combined),
		"fixed", len(fixed),
		"still_bad", len(summary.StillBad),
	)

	return summary, combined, nil
}
