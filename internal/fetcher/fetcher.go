package fetcher

import (
	"context"

	"github.com/lonestardata/dcscrape/internal/types"
)

// Fetcher retrieves and wraps a single page.
type Fetcher interface {
	// Fetch retrieves the content at the given URL. A nil error means the
	// page was fetched with a 2xx status; all failures (policy rejection,
	// transport error, bad status) return a non-nil error the caller is
	// expected to treat as "no document".
	Fetch(ctx context.Context, rawURL string) (*types.Page, error)

	// Close releases any resources held by the fetcher.
	Close() error
}
