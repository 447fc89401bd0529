package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lonestardata/dcscrape/internal/types"
)

// Specification values rarely live in dedicated markup; they appear as
// free text inside table rows, list items, and paragraphs. Each pattern
// mines one field from that text.
var (
	powerRe      = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*mw`)
	sizeRe       = regexp.MustCompile(`(?i)([\d,]+)\s*(?:sq\.?\s*ft|sqft|square\s*feet)`)
	whitespaceRe = regexp.MustCompile(`(?i)whitespace[:\s]*([\d,]+)\s*(?:sq\.?\s*ft|sqft)`)
	tierRe       = regexp.MustCompile(`(?i)tier\s*([IViv1-4]+)`)
	yearRe       = regexp.MustCompile(`(?i)(?:year|opened|operational|built)[:\s]*((?:19|20)\d{2})`)
)

const specSelector = ".spec-item, .specification, tr, li, p, div"

// fromSpecText mines the remaining empty fields out of
// specification-like elements. Per field, the first match in document
// order wins; fields filled by earlier tiers are never touched.
func (e *Extractor) fromSpecText(doc *goquery.Document, rec *types.FacilityRecord) {
	doc.Find(specSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()

		if rec.PowerCapacityMW == nil {
			if m := powerRe.FindStringSubmatch(text); m != nil {
				if f, err := strconv.ParseFloat(m[1], 64); err == nil {
					rec.PowerCapacityMW = &f
				}
			}
		}

		if rec.BuildingSizeSqft == nil {
			if m := sizeRe.FindStringSubmatch(text); m != nil {
				if n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
					rec.BuildingSizeSqft = &n
				}
			}
		}

		if rec.WhitespaceSqft == nil {
			if m := whitespaceRe.FindStringSubmatch(text); m != nil {
				if n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
					rec.WhitespaceSqft = &n
				}
			}
		}

		if rec.TierRating == "" {
			if m := tierRe.FindStringSubmatch(text); m != nil {
				rec.TierRating = strings.ToUpper(m[1])
			}
		}

		if rec.YearOperational == nil {
			if m := yearRe.FindStringSubmatch(text); m != nil {
				if n, err := strconv.Atoi(m[1]); err == nil {
					rec.YearOperational = &n
				}
			}
		}

		// Keep scanning only while something is still missing.
		return rec.PowerCapacityMW == nil || rec.BuildingSizeSqft == nil ||
			rec.WhitespaceSqft == nil || rec.TierRating == "" ||
			rec.YearOperational == nil
	})
}
