package extract

import (
	"log/slog"
	"os"
	"testing"

	"github.com/lonestardata/dcscrape/internal/config"
	"github.com/lonestardata/dcscrape/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func testExtractor() *Extractor {
	cfg := config.DefaultConfig()
	return New(&cfg.Region, testLogger)
}

func makePage(url, body string) *types.Page {
	return types.NewPage(url, 200, []byte(body), 0)
}

const embeddedDataHTML = `<!DOCTYPE html>
<html>
<head>
<script id="__NEXT_DATA__" type="application/json">
{"props":{"pageProps":{"dc":{
  "name":"Dallas Infomart",
  "latitude":32.8024,
  "longitude":-96.8201,
  "city":"Dallas",
  "postal":"75207",
  "address":"1950 N Stemmons Fwy",
  "meta_power":{"totalmw":5.0},
  "meta_building":{"area_building":1600000,"area_whitespace":120000,"year_operational":1985},
  "meta_standards":{"tier_designed":3},
  "companies":{"name":"Equinix"}
}}}}
</script>
</head>
<body>
  <h1>Some Other Heading</h1>
  <p>Total capacity: 10 MW across the campus.</p>
  <li>Building: 999,999 sq ft</li>
</body>
</html>`

func TestEmbeddedDataTakesPrecedence(t *testing.T) {
	e := testExtractor()
	rec := e.Extract(makePage("https://example.com/usa/texas/dallas/infomart/", embeddedDataHTML))

	if rec.Name != "Dallas Infomart" {
		t.Errorf("expected blob name, got %q", rec.Name)
	}
	if rec.Operator != "Equinix" {
		t.Errorf("expected operator Equinix, got %q", rec.Operator)
	}
	if rec.City != "Dallas" || rec.PostalCode != "75207" {
		t.Errorf("unexpected city/postal: %q %q", rec.City, rec.PostalCode)
	}
	if rec.Address != "1950 N Stemmons Fwy" {
		t.Errorf("unexpected address: %q", rec.Address)
	}
	if rec.Latitude == nil || *rec.Latitude != 32.8024 {
		t.Errorf("unexpected latitude: %v", rec.Latitude)
	}
	if rec.Longitude == nil || *rec.Longitude != -96.8201 {
		t.Errorf("unexpected longitude: %v", rec.Longitude)
	}
	if rec.TierRating != "TIER 3" {
		t.Errorf("expected TIER 3, got %q", rec.TierRating)
	}
	if rec.YearOperational == nil || *rec.YearOperational != 1985 {
		t.Errorf("unexpected year: %v", rec.YearOperational)
	}
	if rec.State != "Texas" || rec.Country != "United States" {
		t.Errorf("region constants not set: %q %q", rec.State, rec.Country)
	}
}

// A field set by tier 1 must never be overwritten by the text-mining
// tier, even when the page text carries a different value.
func TestEarlierTierIsNeverOverwritten(t *testing.T) {
	e := testExtractor()
	rec := e.Extract(makePage("https://example.com/dc/", embeddedDataHTML))

	if rec.PowerCapacityMW == nil || *rec.PowerCapacityMW != 5.0 {
		t.Errorf("expected blob power 5.0 to survive the 10 MW page text, got %v", rec.PowerCapacityMW)
	}
	if rec.BuildingSizeSqft == nil || *rec.BuildingSizeSqft != 1600000 {
		t.Errorf("expected blob building size to survive, got %v", rec.BuildingSizeSqft)
	}
}

func TestHeadingFallbackRejectsPlaceholders(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		wantName string
	}{
		{
			name:     "error phrase heading yields empty name",
			html:     `<html><body><h1>We're at full capacity in this market</h1></body></html>`,
			wantName: "",
		},
		{
			name:     "right place phrase yields empty name",
			html:     `<html><body><h1>You're in the right place, but...</h1></body></html>`,
			wantName: "",
		},
		{
			name:     "real heading is accepted",
			html:     `<html><body><h1 class="datacenter-name">Austin Data Center 1</h1></body></html>`,
			wantName: "Austin Data Center 1",
		},
		{
			name:     "placeholder h1 but clean facility-name",
			html:     `<html><body><h1>We're at full capacity</h1><div class="facility-name">Houston West</div></body></html>`,
			wantName: "Houston West",
		},
	}

	e := testExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.Extract(makePage("https://example.com/dc/", tt.html))
			if rec.Name != tt.wantName {
				t.Errorf("expected name %q, got %q", tt.wantName, rec.Name)
			}
		})
	}
}

func TestOperatorFallbackSkipsBoilerplate(t *testing.T) {
	html := `<html><body>
	  <h1>San Antonio DC</h1>
	  <div class="provider-name">Follow on LinkedIn</div>
	  <div class="company-name">CyrusOne</div>
	</body></html>`

	e := testExtractor()
	rec := e.Extract(makePage("https://example.com/dc/", html))

	if rec.Operator != "CyrusOne" {
		t.Errorf("expected boilerplate skipped in favor of CyrusOne, got %q", rec.Operator)
	}
}

func TestGeoPositionMeta(t *testing.T) {
	html := `<html><head>
	  <meta name="geo.position" content="32.7767; -96.7970">
	</head><body><h1>Dallas DC</h1></body></html>`

	e := testExtractor()
	rec := e.Extract(makePage("https://example.com/dc/", html))

	if rec.Latitude == nil || *rec.Latitude != 32.7767 {
		t.Fatalf("expected latitude from geo.position, got %v", rec.Latitude)
	}
	if rec.Longitude == nil || *rec.Longitude != -96.7970 {
		t.Fatalf("expected longitude from geo.position, got %v", rec.Longitude)
	}
}

func TestSeparateGeoMetas(t *testing.T) {
	html := `<html><head>
	  <meta name="geo.latitude" content="29.7604">
	  <meta name="geo.longitude" content="-95.3698">
	</head><body><h1>Houston DC</h1></body></html>`

	e := testExtractor()
	rec := e.Extract(makePage("https://example.com/dc/", html))

	if rec.Latitude == nil || *rec.Latitude != 29.7604 {
		t.Fatalf("expected latitude from geo.latitude meta, got %v", rec.Latitude)
	}
}

func TestScriptCoordinatesBoundingBox(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantLat *float64
	}{
		{
			name:    "in-bounds pair accepted",
			script:  `var map = init({lat: 32.7767, lng: -96.7970});`,
			wantLat: f64(32.7767),
		},
		{
			name:    "out-of-bounds pair rejected",
			script:  `var map = init({lat: 40.7128, lng: -74.0060});`,
			wantLat: nil,
		},
		{
			name:    "lat without lng ignored",
			script:  `var x = {lat: 32.7767};`,
			wantLat: nil,
		},
	}

	e := testExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := `<html><body><h1>DC</h1><script>` + tt.script + `</script></body></html>`
			rec := e.Extract(makePage("https://example.com/dc/", html))

			if tt.wantLat == nil {
				if rec.Latitude != nil {
					t.Errorf("expected no latitude, got %v", *rec.Latitude)
				}
				return
			}
			if rec.Latitude == nil || *rec.Latitude != *tt.wantLat {
				t.Errorf("expected latitude %v, got %v", *tt.wantLat, rec.Latitude)
			}
		})
	}
}

func TestFirstInBoundsScriptWins(t *testing.T) {
	html := `<html><body><h1>DC</h1>
	  <script>var bad = {lat: 51.5074, lng: -0.1278};</script>
	  <script>var good = {lat: 30.2672, lng: -97.7431};</script>
	  <script>var other = {lat: 29.4241, lng: -98.4936};</script>
	</body></html>`

	e := testExtractor()
	rec := e.Extract(makePage("https://example.com/dc/", html))

	if rec.Latitude == nil || *rec.Latitude != 30.2672 {
		t.Errorf("expected first in-bounds pair, got %v", rec.Latitude)
	}
}

func TestSpecTextMining(t *testing.T) {
	html := `<html><body>
	  <h1>Fort Worth DC</h1>
	  <table>
	    <tr><td>Power capacity</td><td>12.5 MW</td></tr>
	    <tr><td>Building size</td><td>1,250,000 sq ft</td></tr>
	    <tr><td>Whitespace: 50,000 sq ft</td></tr>
	    <tr><td>Designed to Tier III standards</td></tr>
	    <tr><td>Opened: 2015</td></tr>
	  </table>
	</body></html>`

	e := testExtractor()
	rec := e.Extract(makePage("https://example.com/dc/", html))

	if rec.PowerCapacityMW == nil || *rec.PowerCapacityMW != 12.5 {
		t.Errorf("power: got %v", rec.PowerCapacityMW)
	}
	if rec.BuildingSizeSqft == nil || *rec.BuildingSizeSqft != 1250000 {
		t.Errorf("building size: got %v", rec.BuildingSizeSqft)
	}
	if rec.WhitespaceSqft == nil || *rec.WhitespaceSqft != 50000 {
		t.Errorf("whitespace: got %v", rec.WhitespaceSqft)
	}
	if rec.TierRating != "III" {
		t.Errorf("tier: got %q", rec.TierRating)
	}
	if rec.YearOperational == nil || *rec.YearOperational != 2015 {
		t.Errorf("year: got %v", rec.YearOperational)
	}
}

func TestYearCapturesFullYear(t *testing.T) {
	html := `<html><body><h1>DC</h1><p>Year built: 1998</p></body></html>`

	e := testExtractor()
	rec := e.Extract(makePage("https://example.com/dc/", html))

	if rec.YearOperational == nil || *rec.YearOperational != 1998 {
		t.Errorf("expected 1998, got %v", rec.YearOperational)
	}
}

func TestCertificationsKeywordContainment(t *testing.T) {
	html := `<html><body>
	  <h1>DC</h1>
	  <div class="badge">ISO 27001</div>
	  <div class="certification">LEED Gold Certified</div>
	  <div class="badge">Best Coffee 2020</div>
	  <div class="award">SOC 2 Type II</div>
	  <div class="badge">ISO 27001</div>
	</body></html>`

	e := testExtractor()
	rec := e.Extract(makePage("https://example.com/dc/", html))

	want := []string{"ISO 27001", "LEED Gold Certified", "SOC 2 Type II", "ISO 27001"}
	if len(rec.Certifications) != len(want) {
		t.Fatalf("expected %d certifications, got %v", len(want), rec.Certifications)
	}
	for i, w := range want {
		if rec.Certifications[i] != w {
			t.Errorf("certification %d: expected %q, got %q", i, w, rec.Certifications[i])
		}
	}
}

func TestDescriptionSelectorsAndMetaFallback(t *testing.T) {
	t.Run("description element wins", func(t *testing.T) {
		html := `<html><head><meta name="description" content="meta text"></head>
		  <body><h1>DC</h1><div class="description">A carrier hotel in downtown Dallas.</div></body></html>`

		e := testExtractor()
		rec := e.Extract(makePage("https://example.com/dc/", html))
		if rec.Description != "A carrier hotel in downtown Dallas." {
			t.Errorf("got %q", rec.Description)
		}
	})

	t.Run("meta content used when no element matches", func(t *testing.T) {
		html := `<html><head><meta name="description" content="Colocation facility in Austin."></head>
		  <body><h1>DC</h1></body></html>`

		e := testExtractor()
		rec := e.Extract(makePage("https://example.com/dc/", html))
		if rec.Description != "Colocation facility in Austin." {
			t.Errorf("got %q", rec.Description)
		}
	})
}

func TestMalformedEmbeddedDataDegrades(t *testing.T) {
	html := `<html><head>
	  <script id="__NEXT_DATA__" type="application/json">{not valid json</script>
	</head><body><h1 class="datacenter-name">Waco DC</h1></body></html>`

	e := testExtractor()
	rec := e.Extract(makePage("https://example.com/dc/", html))

	if rec.Name != "Waco DC" {
		t.Errorf("expected HTML fallback after blob parse failure, got %q", rec.Name)
	}
}

func TestEmbeddedDataStringCoercions(t *testing.T) {
	html := `<html><head>
	<script id="__NEXT_DATA__" type="application/json">
	{"props":{"pageProps":{"dc":{
	  "name":"Plano DC",
	  "latitude":"33.0198",
	  "longitude":"-96.6989",
	  "meta_power":{"totalmw":"7.5"},
	  "meta_building":{"area_building":"40000","year_operational":"not a year"},
	  "meta_standards":{"tier_designed":"IV"}
	}}}}
	</script>
	</head><body></body></html>`

	e := testExtractor()
	rec := e.Extract(makePage("https://example.com/dc/", html))

	if rec.Latitude == nil || *rec.Latitude != 33.0198 {
		t.Errorf("string latitude not coerced: %v", rec.Latitude)
	}
	if rec.PowerCapacityMW == nil || *rec.PowerCapacityMW != 7.5 {
		t.Errorf("string totalmw not coerced: %v", rec.PowerCapacityMW)
	}
	if rec.BuildingSizeSqft == nil || *rec.BuildingSizeSqft != 40000 {
		t.Errorf("string area not coerced: %v", rec.BuildingSizeSqft)
	}
	if rec.YearOperational != nil {
		t.Errorf("bad year should stay empty, got %v", *rec.YearOperational)
	}
	if rec.TierRating != "TIER IV" {
		t.Errorf("expected TIER IV, got %q", rec.TierRating)
	}
}

func f64(f float64) *float64 { return &f }
