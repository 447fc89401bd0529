package types

import (
	"testing"
	"time"
)

func TestRowFormatsFields(t *testing.T) {
	rec := NewFacilityRecord("https://x/dc/", "Texas", "United States")
	rec.Name = "Dallas Infomart"
	lat, lng, mw := 32.8024, -96.8201, 5.0
	size := 1600000
	rec.Latitude = &lat
	rec.Longitude = &lng
	rec.PowerCapacityMW = &mw
	rec.BuildingSizeSqft = &size
	rec.Certifications = []string{"ISO 27001", `LEED "Gold"`}

	row := rec.Row()

	if row["url"] != "https://x/dc/" || row["state"] != "Texas" || row["country"] != "United States" {
		t.Errorf("identity fields wrong: %v", row)
	}
	if row["latitude"] != "32.8024" || row["longitude"] != "-96.8201" {
		t.Errorf("coordinates wrong: %q %q", row["latitude"], row["longitude"])
	}
	if row["power_capacity_mw"] != "5" {
		t.Errorf("power = %q", row["power_capacity_mw"])
	}
	if row["building_size_sqft"] != "1600000" {
		t.Errorf("size = %q", row["building_size_sqft"])
	}
	if row["certifications"] != `["ISO 27001","LEED \"Gold\""]` {
		t.Errorf("certifications = %q", row["certifications"])
	}
}

func TestRowOmitsUnsetNumerics(t *testing.T) {
	rec := NewFacilityRecord("https://x/dc/", "Texas", "United States")
	row := rec.Row()

	for _, col := range []string{"latitude", "longitude", "power_capacity_mw", "building_size_sqft", "whitespace_sqft", "year_operational", "certifications"} {
		if _, ok := row[col]; ok {
			t.Errorf("unset %s should be absent, got %q", col, row[col])
		}
	}
}

func TestPageLazyParsing(t *testing.T) {
	p := NewPage("https://x/dc/", 200, []byte(`<html><body><h1>A</h1></body></html>`), time.Second)

	doc, err := p.Document()
	if err != nil {
		t.Fatal(err)
	}
	if doc2, _ := p.Document(); doc2 != doc {
		t.Error("document should be parsed once and cached")
	}

	root, err := p.Root()
	if err != nil {
		t.Fatal(err)
	}
	if root2, _ := p.Root(); root2 != root {
		t.Error("node tree should be parsed once and cached")
	}
}
