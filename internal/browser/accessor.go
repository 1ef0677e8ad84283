// Package browser provides the page-fetch collaborator the extraction core
// depends on: navigation with retry and timeout, a bounded pool of browsing
// contexts, and the robots.txt politeness checker.
package browser

import "context"

// Page is a fetched page: its final URL after redirects and the raw HTML.
type Page struct {
	URL        string
	HTML       string
	StatusCode int
}

// PageAccessor is the capability handed to extractors. Extractors decide
// which URL to visit next in their fallback chain; the accessor owns
// retries, timeouts, and politeness delays. Navigation failure after
// retries returns an error, never a panic, and leaves the current page
// unchanged.
type PageAccessor interface {
	// BaseURL returns the dealership root URL this accessor is bound to.
	BaseURL() string

	// Current returns the most recently loaded page, or nil before the
	// first successful navigation.
	Current() *Page

	// Navigate fetches the URL and makes it the current page.
	Navigate(ctx context.Context, url string) (*Page, error)
}
