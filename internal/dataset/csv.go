package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/lonestardata/dcscrape/internal/types"
)

// Row is one dataset row: field name to cell value. Cells are strings;
// numeric typing lives in FacilityRecord, not in the files.
type Row = map[string]string

// Output file naming. One chunk file per checkpoint boundary, one final
// snapshot per run, one merged file per merge, one clean file per
// re-scrape pass.
func ChunkPath(dir, prefix string, index int) string {
	return filepath.Join(dir, fmt.Sprintf("%s_chunk_%d.csv", prefix, index))
}

func FinalPath(dir, prefix string) string {
	return filepath.Join(dir, prefix+"_final.csv")
}

func MergedPath(dir, prefix string) string {
	return filepath.Join(dir, prefix+"_merged.csv")
}

func FixedPath(dir, prefix string) string {
	return filepath.Join(dir, prefix+"_fixed.csv")
}

func CleanPath(dir, prefix string) string {
	return filepath.Join(dir, prefix+"_final_clean.csv")
}

func ManifestPath(dir, prefix string) string {
	return filepath.Join(dir, prefix+"_urls.txt")
}

func FixedCheckpointPath(dir string, index int) string {
	return filepath.Join(dir, fmt.Sprintf("fixed_data_checkpoint_%d.csv", index))
}

// WriteCSV writes rows to path with a header that is the canonical
// column order plus any extra columns found in the rows, sorted. The
// whole file is rewritten on every call; checkpoints are cumulative
// snapshots, not appends.
func WriteCSV(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	header := headerFor(rows)
	w := csv.NewWriter(f)

	if err := w.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	record := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// ReadCSV loads a dataset file written by WriteCSV (or any delimited
// file with a header row) into rows.
func ReadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteManifest persists the discovered URL list as "<index>,<url>"
// lines, one per entry.
func WriteManifest(path string, urls []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	defer f.Close()

	for i, u := range urls {
		if _, err := fmt.Fprintf(f, "%d,%s\n", i, u); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
	}
	return nil
}

// headerFor is the canonical columns followed by any extras, sorted.
func headerFor(rows []Row) []string {
	canonical := make(map[string]bool, len(types.Columns))
	for _, col := range types.Columns {
		canonical[col] = true
	}

	extraSet := make(map[string]bool)
	for _, row := range rows {
		for col := range row {
			if !canonical[col] {
				extraSet[col] = true
			}
		}
	}

	header := append([]string(nil), types.Columns...)
	extras := make([]string, 0, len(extraSet))
	for col := range extraSet {
		extras = append(extras, col)
	}
	sort.Strings(extras)
	return append(header, extras...)
}
