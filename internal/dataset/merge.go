package dataset

import (
	"fmt"
	"log/slog"
	"path/filepath"
)

// MergeChunks loads every checkpoint file for the prefix in
// filename-sorted order, concatenates them, deduplicates by URL keeping
// the last occurrence (later checkpoints are cumulative supersets of
// earlier ones), and writes the merged file. It returns the merged rows
// and the output path.
func MergeChunks(dir, prefix string, logger *slog.Logger) ([]Row, string, error) {
	pattern := filepath.Join(dir, prefix+"_chunk_*.csv")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, "", err
	}
	if len(files) == 0 {
		return nil, "", fmt.Errorf("no chunk files matching %s", pattern)
	}

	var combined []Row
	for _, file := range files {
		rows, err := ReadCSV(file)
		if err != nil {
			return nil, "", err
		}
		logger.Info("chunk loaded", "file", file, "rows", len(rows))
		combined = append(combined, rows...)
	}

	before := len(combined)
	merged := DedupeByURL(combined)
	if removed := before - len(merged); removed > 0 {
		logger.Info("duplicates removed", "count", removed)
	}

	out := MergedPath(dir, prefix)
	if err := WriteCSV(out, merged); err != nil {
		return nil, "", err
	}
	logger.Info("merged dataset written", "path", out, "rows", len(merged))
	return merged, out, nil
}

// DedupeByURL collapses rows sharing a url to the last occurrence,
// preserving the position of that last occurrence in the input order.
func DedupeByURL(rows []Row) []Row {
	last := make(map[string]int, len(rows))
	for i, row := range rows {
		if u := row["url"]; u != "" {
			last[u] = i
		}
	}

	out := make([]Row, 0, len(last))
	for i, row := range rows {
		u := row["url"]
		if u == "" || last[u] == i {
			out = append(out, row)
		}
	}
	return out
}
