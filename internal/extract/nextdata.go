package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lonestardata/dcscrape/internal/types"
)

// The directory is a Next.js app: every detail page embeds the full
// facility object in a script tag for client-side hydration. That blob
// is the highest-trust source, so it runs first.
const nextDataSelector = `script#__NEXT_DATA__`

// fromEmbeddedData fills the record from the page's __NEXT_DATA__ blob.
// Any parse failure degrades to "tier produced nothing"; the later
// tiers pick up whichever fields are still empty.
func (e *Extractor) fromEmbeddedData(doc *goquery.Document, rec *types.FacilityRecord) {
	raw := strings.TrimSpace(doc.Find(nextDataSelector).First().Text())
	if raw == "" {
		return
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		e.logger.Warn("could not parse embedded data", "url", rec.URL, "error", err)
		return
	}

	dc, ok := dig(payload, "props", "pageProps", "dc")
	if !ok {
		e.logger.Warn("embedded data has no facility object", "url", rec.URL)
		return
	}

	if s := stringAt(dc, "name"); s != "" {
		rec.Name = s
	}
	if f, ok := floatAt(dc, "latitude"); ok {
		rec.Latitude = &f
	}
	if f, ok := floatAt(dc, "longitude"); ok {
		rec.Longitude = &f
	}
	if s := stringAt(dc, "city"); s != "" {
		rec.City = s
	}
	if s := stringAt(dc, "postal"); s != "" {
		rec.PostalCode = s
	}
	if s := stringAt(dc, "address"); s != "" {
		rec.Address = s
	}

	if power, ok := dig(dc, "meta_power"); ok {
		if f, ok := floatAt(power, "totalmw"); ok {
			rec.PowerCapacityMW = &f
		}
	}

	if building, ok := dig(dc, "meta_building"); ok {
		if n, ok := intAt(building, "area_building"); ok {
			rec.BuildingSizeSqft = &n
		}
		if n, ok := intAt(building, "area_whitespace"); ok {
			rec.WhitespaceSqft = &n
		}
		if n, ok := intAt(building, "year_operational"); ok {
			rec.YearOperational = &n
		}
	}

	if standards, ok := dig(dc, "meta_standards"); ok {
		if tier := scalarAt(standards, "tier_designed"); tier != "" {
			rec.TierRating = "TIER " + tier
		}
	}

	if companies, ok := dig(dc, "companies"); ok {
		if s := stringAt(companies, "name"); s != "" {
			rec.Operator = s
		}
	}

	e.logger.Debug("embedded data extracted",
		"url", rec.URL, "name", rec.Name, "lat", rec.Latitude, "lng", rec.Longitude)
}

// dig walks a nested map along the given keys, returning absence the
// moment a step is missing or is not an object.
func dig(v any, keys ...string) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	for _, key := range keys {
		next, ok := m[key]
		if !ok {
			return nil, false
		}
		m, ok = next.(map[string]any)
		if !ok {
			return nil, false
		}
	}
	return m, true
}

// stringAt returns a non-empty string value, or "".
func stringAt(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

// scalarAt renders a string or numeric value as text, or "".
// JSON numbers arrive as float64; integral values drop the ".0".
func scalarAt(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// floatAt coerces a value to float64. Failed coercions and zero values
// are silently skipped, keeping the field empty.
func floatAt(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, v != 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil && f != 0
	default:
		return 0, false
	}
}

// intAt coerces a value to int, silently skipping failures.
func intAt(m map[string]any, key string) (int, bool) {
	switch v := m[key].(type) {
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	default:
		return 0, false
	}
}
