package types

import (
	"bytes"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Page is a fetched, parseable document. The goquery document and the
// raw html.Node tree are both lazily built from the same body: CSS
// selection runs through goquery, XPath scans through htmlquery.
type Page struct {
	// URL is the address the page was fetched from.
	URL string

	// StatusCode is the HTTP status code.
	StatusCode int

	// Body is the raw (decompressed) response body.
	Body []byte

	// FetchDuration is how long the fetch took.
	FetchDuration time.Duration

	// FetchedAt is when the response was received.
	FetchedAt time.Time

	doc  *goquery.Document
	root *html.Node
}

// NewPage creates a Page from a fetched body.
func NewPage(url string, statusCode int, body []byte, duration time.Duration) *Page {
	return &Page{
		URL:           url,
		StatusCode:    statusCode,
		Body:          body,
		FetchDuration: duration,
		FetchedAt:     time.Now(),
	}
}

// Document returns the parsed goquery document, lazily initializing it.
func (p *Page) Document() (*goquery.Document, error) {
	if p.doc != nil {
		return p.doc, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.Body))
	if err != nil {
		return nil, err
	}
	p.doc = doc
	return doc, nil
}

// Root returns the html.Node tree for XPath queries, lazily initializing it.
func (p *Page) Root() (*html.Node, error) {
	if p.root != nil {
		return p.root, nil
	}
	root, err := htmlquery.Parse(bytes.NewReader(p.Body))
	if err != nil {
		return nil, err
	}
	p.root = root
	return root, nil
}
