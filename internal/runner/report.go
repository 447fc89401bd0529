package runner

import (
	"fmt"
	"io"
	"sort"

	"github.com/lonestardata/dcscrape/internal/dataset"
	"github.com/lonestardata/dcscrape/internal/types"
)

// FieldCount is how many rows have a field populated.
type FieldCount struct {
	Field string
	Count int
}

// CityCount is how many facilities a city has.
type CityCount struct {
	City  string
	Count int
}

// Summary describes completeness of a dataset.
type Summary struct {
	Total     int
	Populated []FieldCount
	TopCities []CityCount
}

// Summarize computes per-field completeness and the city distribution
// of a dataset. All rates are derived from the rows actually loaded.
func Summarize(rows []dataset.Row) *Summary {
	s := &Summary{Total: len(rows)}

	for _, col := range types.Columns {
		if col == "url" {
			continue
		}
		n := 0
		for _, row := range rows {
			if row[col] != "" {
				n++
			}
		}
		s.Populated = append(s.Populated, FieldCount{Field: col, Count: n})
	}

	cities := make(map[string]int)
	for _, row := range rows {
		if city := row["city"]; city != "" {
			cities[city]++
		}
	}
	for city, n := range cities {
		s.TopCities = append(s.TopCities, CityCount{City: city, Count: n})
	}
	sort.Slice(s.TopCities, func(i, j int) bool {
		if s.TopCities[i].Count != s.TopCities[j].Count {
			return s.TopCities[i].Count > s.TopCities[j].Count
		}
		return s.TopCities[i].City < s.TopCities[j].City
	})
	if len(s.TopCities) > 10 {
		s.TopCities = s.TopCities[:10]
	}

	return s
}

// Print writes a human-readable summary report.
func (s *Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "============================================================")
	fmt.Fprintln(w, "SUMMARY STATISTICS")
	fmt.Fprintln(w, "============================================================")
	fmt.Fprintf(w, "Total records: %d\n", s.Total)
	for _, fc := range s.Populated {
		pct := 0.0
		if s.Total > 0 {
			pct = float64(fc.Count) / float64(s.Total) * 100
		}
		fmt.Fprintf(w, "  %-20s %4d (%.1f%%)\n", fc.Field, fc.Count, pct)
	}

	if len(s.TopCities) > 0 {
		fmt.Fprintln(w, "\nTop cities by facility count:")
		for _, cc := range s.TopCities {
			fmt.Fprintf(w, "  %-20s %d\n", cc.City, cc.Count)
		}
	}
}

// PrintRescrape writes the triage pass report. The success rate is
// computed from the actual totals of this dataset.
func (s *RescrapeSummary) Print(w io.Writer) {
	fmt.Fprintln(w, "============================================================")
	fmt.Fprintln(w, "RE-SCRAPE SUMMARY")
	fmt.Fprintln(w, "============================================================")
	fmt.Fprintf(w, "Records triaged:    %d (%d good, %d bad)\n", s.Total, s.Good, s.Bad)
	fmt.Fprintf(w, "Successfully fixed: %d\n", s.Fixed)
	fmt.Fprintf(w, "Still bad/failed:   %d\n", len(s.StillBad))
	fmt.Fprintf(w, "Final dataset:      %d records\n", s.FinalRows)
	if s.Total > 0 {
		fmt.Fprintf(w, "Success rate:       %.1f%%\n", float64(s.FinalRows)/float64(s.Total)*100)
	}

	if len(s.StillBad) > 0 {
		fmt.Fprintf(w, "\n%d URLs still returning errors:\n", len(s.StillBad))
		for i, u := range s.StillBad {
			if i == 10 {
				fmt.Fprintf(w, "  ... and %d more\n", len(s.StillBad)-10)
				break
			}
			fmt.Fprintf(w, "  - %s\n", u)
		}
	}
}
