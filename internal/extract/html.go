package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lonestardata/dcscrape/internal/types"
)

// Phrases that identify a placeholder/error page masquerading as a
// facility heading ("We're at full capacity", "You're in the right
// place, but...").
var headingErrorPhrases = []string{"full capacity", "right place"}

var nameSelectors = []string{"h1.datacenter-name", "h1", ".facility-name"}

var operatorSelectors = []string{
	".provider-name", ".operator", ".company-name", `a[href*="/company/"]`,
}

// Boilerplate matched by the operator selectors that is not an operator.
const operatorBoilerplate = "Follow on LinkedIn"

// fromHeadings is the HTML fallback for name and operator. The name
// side runs only when the embedded blob produced nothing. That absence
// is the signal the page may be a placeholder, so headings carrying an
// error phrase are rejected rather than recorded.
func (e *Extractor) fromHeadings(doc *goquery.Document, rec *types.FacilityRecord) {
	if rec.Name == "" {
		for _, sel := range nameSelectors {
			s := doc.Find(sel).First()
			if s.Length() == 0 {
				continue
			}
			text := strings.TrimSpace(s.Text())
			if text == "" || containsAnyFold(text, headingErrorPhrases) {
				continue
			}
			rec.Name = text
			break
		}
	}

	if rec.Operator == "" {
		for _, sel := range operatorSelectors {
			s := doc.Find(sel).First()
			if s.Length() == 0 {
				continue
			}
			text := strings.TrimSpace(s.Text())
			if text == "" || text == operatorBoilerplate {
				continue
			}
			rec.Operator = text
			break
		}
	}
}

// Certification badges are collected by containment of a known keyword,
// not exact match; duplicates are kept as they appear on the page.
var certKeywords = []string{"iso", "leed", "tier", "uptime", "soc", "pci", "hipaa"}

const certSelector = ".certifications, .certification, .badge, .award"

func (e *Extractor) collectCertifications(doc *goquery.Document, rec *types.FacilityRecord) {
	doc.Find(certSelector).Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text != "" && containsAnyFold(text, certKeywords) {
			rec.Certifications = append(rec.Certifications, text)
		}
	})
}

var descriptionSelectors = []string{
	".description", ".about", ".overview", `meta[name="description"]`,
}

// extractDescription takes the first non-empty match in selector order.
// For the meta tag the content attribute is used instead of element text.
func (e *Extractor) extractDescription(doc *goquery.Document, rec *types.FacilityRecord) {
	for _, sel := range descriptionSelectors {
		s := doc.Find(sel).First()
		if s.Length() == 0 {
			continue
		}
		var text string
		if goquery.NodeName(s) == "meta" {
			text, _ = s.Attr("content")
		} else {
			text = s.Text()
		}
		if text = strings.TrimSpace(text); text != "" {
			rec.Description = text
			break
		}
	}
}

// containsAnyFold reports whether text contains any needle,
// case-insensitively.
func containsAnyFold(text string, needles []string) bool {
	lower := strings.ToLower(text)
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}
