package extract

import (
	"log/slog"

	"github.com/lonestardata/dcscrape/internal/config"
	"github.com/lonestardata/dcscrape/internal/types"
)

// Extractor turns a facility detail page into a FacilityRecord via an
// ordered chain of extraction tiers. A field is populated by the first
// tier that yields a non-empty value; later tiers never override it.
// Extraction never fails outright: every decode or coercion failure
// leaves the field empty, and the caller judges the attempt solely by
// whether Name ended up populated.
type Extractor struct {
	cfg    *config.RegionConfig
	logger *slog.Logger
}

// New creates an Extractor for the configured region.
func New(cfg *config.RegionConfig, logger *slog.Logger) *Extractor {
	return &Extractor{
		cfg:    cfg,
		logger: logger.With("component", "extract"),
	}
}

// Extract produces a record for one facility page.
//
// Tier order:
//  1. embedded data blob (__NEXT_DATA__), the highest-trust source
//  2. HTML heading/operator fallback, only when the blob gave no name
//  3. coordinate fallbacks (geo metas, then script regex with a
//     bounding-box sanity check)
//  4. regex text-mining of specification-like elements, per field
//
// Certifications and the description are collected independently of the
// tiers.
func (e *Extractor) Extract(page *types.Page) *types.FacilityRecord {
	rec := types.NewFacilityRecord(page.URL, e.cfg.State, e.cfg.Country)

	doc, err := page.Document()
	if err != nil {
		e.logger.Warn("page not parseable", "url", page.URL, "error", err)
		return rec
	}

	e.fromEmbeddedData(doc, rec)
	e.fromHeadings(doc, rec)
	e.fromGeoFallbacks(doc, rec)
	e.fromSpecText(doc, rec)
	e.collectCertifications(doc, rec)
	e.extractDescription(doc, rec)

	return rec
}
