package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lonestardata/dcscrape/internal/types"
)

// Coordinate patterns as they appear in inline map-setup scripts,
// e.g. "lat: 32.7767, lng: -96.7970".
var (
	scriptLatRe = regexp.MustCompile(`(?i)lat[:\s]*([+-]?\d+\.\d+)`)
	scriptLngRe = regexp.MustCompile(`(?i)l(?:ng|on)[:\s]*([+-]?\d+\.\d+)`)
)

// fromGeoFallbacks fills latitude/longitude when the embedded blob had
// none. Three strategies in order, first success wins:
//
//	a. a combined geo.position meta tag ("lat;lng")
//	b. separate geo.latitude / geo.longitude meta tags
//	c. regex scan of inline scripts, accepted only when the pair falls
//	   inside the region's bounding box. A mined pair far outside the
//	   region is a mis-extraction, not data.
func (e *Extractor) fromGeoFallbacks(doc *goquery.Document, rec *types.FacilityRecord) {
	if rec.Latitude != nil {
		return
	}

	if content, ok := doc.Find(`meta[name="geo.position"]`).Attr("content"); ok {
		parts := strings.Split(content, ";")
		if len(parts) == 2 {
			lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
			lng, errLng := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if errLat == nil && errLng == nil {
				rec.Latitude = &lat
				rec.Longitude = &lng
				return
			}
		}
	}

	latContent, okLat := doc.Find(`meta[name="geo.latitude"]`).Attr("content")
	lngContent, okLng := doc.Find(`meta[name="geo.longitude"]`).Attr("content")
	if okLat && okLng {
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(latContent), 64)
		lng, errLng := strconv.ParseFloat(strings.TrimSpace(lngContent), 64)
		if errLat == nil && errLng == nil {
			rec.Latitude = &lat
			rec.Longitude = &lng
			return
		}
	}

	// A script must contain both a lat and a lng label to count as a
	// candidate pair; scanning stops at the first in-bounds pair.
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		latMatch := scriptLatRe.FindStringSubmatch(text)
		lngMatch := scriptLngRe.FindStringSubmatch(text)
		if latMatch == nil || lngMatch == nil {
			return true
		}
		lat, errLat := strconv.ParseFloat(latMatch[1], 64)
		lng, errLng := strconv.ParseFloat(lngMatch[1], 64)
		if errLat != nil || errLng != nil {
			return true
		}
		if !e.cfg.Bounds.Contains(lat, lng) {
			e.logger.Debug("mined coordinates out of bounds",
				"url", rec.URL, "lat", lat, "lng", lng)
			return true
		}
		rec.Latitude = &lat
		rec.Longitude = &lng
		return false
	})
}
