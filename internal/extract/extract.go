// Package extract implements the per-field extraction pipelines. Each
// extractor runs an ordered chain of strategies against a fetched page;
// the first strategy that finds a candidate passing the field's validator
// wins, with confidence fixed by the strategy that produced it.
package extract

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/dealer-scout/internal/browser"
	"github.com/sells-group/dealer-scout/internal/model"
)

// strategy is one step in a fallback chain. Try returns the extracted
// value, an evidence pointer, and whether the strategy succeeded. A failed
// strategy never aborts the chain; the next one runs.
type strategy[T any] struct {
	name model.Strategy
	conf model.Confidence
	try  func(ctx context.Context, pa browser.PageAccessor, doc *goquery.Document) (T, string, bool)
}

// runChain tries strategies in priority order, returning the first success.
// Exhausting the chain yields a terminal UNSURE result with a diagnostic,
// never an error to the caller.
func runChain[T any](
	ctx context.Context,
	pa browser.PageAccessor,
	doc *goquery.Document,
	strategies []strategy[T],
	log *zap.Logger,
	missReason string,
) model.Result[T] {
	for _, s := range strategies {
		value, evidence, ok := s.try(ctx, pa, doc)
		if ok {
			return model.Hit(value, s.conf, s.name, evidence)
		}
		log.Debug("strategy missed, trying next",
			zap.String("strategy", string(s.name)),
			zap.String("dealer", pa.BaseURL()),
		)
	}
	return model.Miss[T](missReason)
}

// homepageDoc returns a parsed document for the dealership root, navigating
// there unless it is already the current page. An earlier extractor may have
// left a subpage loaded; homepage strategies must never read that page, or
// their evidence would point at the wrong URL.
func homepageDoc(ctx context.Context, pa browser.PageAccessor) (*goquery.Document, error) {
	page := pa.Current()
	if page == nil || !sameURL(page.URL, pa.BaseURL()) {
		var err error
		page, err = pa.Navigate(ctx, pa.BaseURL())
		if err != nil {
			return nil, err
		}
	}
	return parseHTML(page.HTML)
}

func sameURL(a, b string) bool {
	return strings.TrimRight(a, "/") == strings.TrimRight(b, "/")
}

func parseHTML(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// findFooter locates the page footer: a <footer> element, else the first
// div whose class mentions "footer".
func findFooter(doc *goquery.Document) *goquery.Selection {
	return findRegion(doc, "footer")
}

// findHeader locates the page header: a <header> element, else a nav, else
// the first div whose class or id mentions "header".
func findHeader(doc *goquery.Document) *goquery.Selection {
	if sel := findRegion(doc, "header"); sel != nil {
		return sel
	}
	if nav := doc.Find("nav").First(); nav.Length() > 0 {
		return nav
	}
	return nil
}

func findRegion(doc *goquery.Document, name string) *goquery.Selection {
	if el := doc.Find(name).First(); el.Length() > 0 {
		return el
	}
	div := doc.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		return strings.Contains(strings.ToLower(class), name) ||
			strings.Contains(strings.ToLower(id), name)
	}).First()
	if div.Length() > 0 {
		return div
	}
	return nil
}

// contactPaths are the dedicated contact-page candidates shared by the
// address and phone chains, tried in order.
var contactPaths = []string{"/contact", "/contact-us", "/about/contact"}

// candidateURL joins a path onto the dealership root.
func candidateURL(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + path
}

// resolveHref turns an href into an absolute URL against the dealer root.
func resolveHref(href, baseURL string) string {
	switch {
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		return strings.TrimRight(baseURL, "/") + href
	default:
		return strings.TrimRight(baseURL, "/") + "/" + href
	}
}

// outerHTML renders a selection back to HTML, used when a strategy parses
// a page region with regexes rather than DOM queries.
func outerHTML(sel *goquery.Selection) string {
	html, err := goquery.OuterHtml(sel)
	if err != nil {
		return sel.Text()
	}
	return html
}
