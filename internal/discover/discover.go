package discover

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"

	"github.com/lonestardata/dcscrape/internal/config"
	"github.com/lonestardata/dcscrape/internal/fetcher"
	"github.com/lonestardata/dcscrape/internal/types"
)

// Discoverer walks the region's two-level listing hierarchy and collects
// facility detail URLs. Links are classified purely by path shape:
// sub-region (city) pages sit exactly one segment below the region root,
// facility pages at least two.
type Discoverer struct {
	fetcher fetcher.Fetcher
	cfg     *config.RegionConfig
	base    *url.URL
	logger  *slog.Logger
}

// New creates a Discoverer for the configured region.
func New(f fetcher.Fetcher, cfg *config.RegionConfig, logger *slog.Logger) (*Discoverer, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	return &Discoverer{
		fetcher: f,
		cfg:     cfg,
		base:    base,
		logger:  logger.With("component", "discover"),
	}, nil
}

// RegionURL returns the absolute URL of the region's landing page.
func (d *Discoverer) RegionURL() string {
	u := *d.base
	u.Path = d.cfg.Path
	return u.String()
}

// FacilityURLs discovers every facility detail URL in the region, in
// first-seen order, deduplicated across sub-regions. When no sub-region
// pages are found it falls back to scanning the region root directly;
// some regions list facilities without an intermediate level.
func (d *Discoverer) FacilityURLs(ctx context.Context) ([]string, error) {
	set := NewURLSet()

	cityURLs, err := d.SubRegionURLs(ctx)
	if err != nil {
		return nil, err
	}

	if len(cityURLs) == 0 {
		d.logger.Warn("no sub-region URLs found, trying region root directly")
		page, err := d.fetcher.Fetch(ctx, d.RegionURL())
		if err != nil {
			return nil, err
		}
		d.collectFacilityLinks(page, set)
		d.logger.Info("direct discovery complete", "facilities", set.Len())
		return set.URLs(), nil
	}

	for _, cityURL := range cityURLs {
		page, err := d.fetcher.Fetch(ctx, cityURL)
		if err != nil {
			d.logger.Warn("sub-region page skipped", "url", cityURL, "error", err)
			continue
		}
		before := set.Len()
		d.collectFacilityLinks(page, set)
		d.logger.Info("sub-region scanned", "url", cityURL, "facilities", set.Len()-before)
	}

	d.logger.Info("discovery complete", "facilities", set.Len())
	return set.URLs(), nil
}

// SubRegionURLs extracts the sub-region (city) listing URLs from the
// region's landing page. The primary strategy scans only links inside
// tables, where the directory renders its market listing; when the page
// has no tables at all, every link is considered.
func (d *Discoverer) SubRegionURLs(ctx context.Context) ([]string, error) {
	page, err := d.fetcher.Fetch(ctx, d.RegionURL())
	if err != nil {
		return nil, err
	}

	hrefs, err := d.tableHrefs(page)
	if err != nil || len(hrefs) == 0 {
		d.logger.Warn("no listing tables found, scanning all links")
		hrefs = d.allHrefs(page)
	}

	set := NewURLSet()
	for _, href := range hrefs {
		if !d.isSubRegionLink(href) {
			continue
		}
		abs, ok := d.resolve(href)
		if !ok {
			continue
		}
		if set.Add(abs) {
			d.logger.Info("found sub-region", "name", lastSegment(href))
		}
	}

	d.logger.Info("sub-region discovery complete", "count", set.Len())
	return set.URLs(), nil
}

// collectFacilityLinks scans every link of a listing page and adds
// facility-shaped ones to the set.
func (d *Discoverer) collectFacilityLinks(page *types.Page, set *URLSet) {
	for _, href := range d.allHrefs(page) {
		if !d.isFacilityLink(href) {
			continue
		}
		abs, ok := d.resolve(href)
		if !ok {
			continue
		}
		if set.Add(abs) {
			d.logger.Debug("found facility", "href", href)
		}
	}
}

// tableHrefs returns the href of every anchor inside a table on the page.
func (d *Discoverer) tableHrefs(page *types.Page) ([]string, error) {
	root, err := page.Root()
	if err != nil {
		return nil, err
	}
	nodes, err := htmlquery.QueryAll(root, "//table//a[@href]")
	if err != nil {
		return nil, err
	}
	hrefs := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if href := htmlquery.SelectAttr(n, "href"); href != "" {
			hrefs = append(hrefs, href)
		}
	}
	return hrefs, nil
}

// allHrefs returns the href of every anchor on the page.
func (d *Discoverer) allHrefs(page *types.Page) []string {
	doc, err := page.Document()
	if err != nil {
		d.logger.Warn("page not parseable", "url", page.URL, "error", err)
		return nil
	}
	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok && href != "" {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs
}

// isSubRegionLink reports whether a href is a sub-region listing page:
// under the region prefix, exactly one extra path segment, trailing
// slash, and not the region root or an excluded utility page.
func (d *Discoverer) isSubRegionLink(href string) bool {
	path := pathOf(href)
	if path == "" || path == d.cfg.Path {
		return false
	}
	if !strings.HasPrefix(path, d.cfg.Path) || !strings.HasSuffix(path, "/") {
		return false
	}
	if d.isExcluded(path) {
		return false
	}
	return segmentDepth(path, d.cfg.Path) == 1
}

// isFacilityLink reports whether a href is a facility detail page:
// under the region prefix, strictly deeper than the sub-region level,
// and not an excluded utility page.
func (d *Discoverer) isFacilityLink(href string) bool {
	path := pathOf(href)
	if path == "" || !strings.HasPrefix(path, d.cfg.Path) {
		return false
	}
	if d.isExcluded(path) {
		return false
	}
	return segmentDepth(path, d.cfg.Path) >= 2
}

func (d *Discoverer) isExcluded(path string) bool {
	for _, seg := range d.cfg.ExcludedSegments {
		if strings.Contains(path, seg) {
			return true
		}
	}
	return false
}

// resolve turns a href into an absolute URL against the region base.
func (d *Discoverer) resolve(href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	resolved := d.base.ResolveReference(u)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	resolved.Fragment = ""
	return resolved.String(), true
}

// pathOf extracts the path portion of a href, which may be relative or
// absolute.
func pathOf(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return u.Path
}

// segmentDepth counts the path segments of path beyond those of prefix.
// A trailing slash does not count as a segment.
func segmentDepth(path, prefix string) int {
	count := func(p string) int {
		n := 0
		for _, seg := range strings.Split(p, "/") {
			if seg != "" {
				n++
			}
		}
		return n
	}
	return count(path) - count(prefix)
}

// lastSegment returns the final non-empty path segment of a href.
func lastSegment(href string) string {
	path := strings.TrimSuffix(pathOf(href), "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
