package extract

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/dealer-scout/internal/browser"
)

// fakeAccessor serves canned HTML keyed by URL. Unknown URLs fail like a 404.
type fakeAccessor struct {
	base    string
	pages   map[string]string
	visited []string
	current *browser.Page
}

func newFakeAccessor(base string, pages map[string]string) *fakeAccessor {
	return &fakeAccessor{base: base, pages: pages}
}

func (f *fakeAccessor) BaseURL() string        { return f.base }
func (f *fakeAccessor) Current() *browser.Page { return f.current }

func (f *fakeAccessor) Navigate(_ context.Context, url string) (*browser.Page, error) {
	f.visited = append(f.visited, url)
	html, ok := f.pages[url]
	if !ok {
		return nil, eris.Errorf("status 404 for %s", url)
	}
	f.current = &browser.Page{URL: url, HTML: html, StatusCode: 200}
	return f.current, nil
}

func TestFindRegions(t *testing.T) {
	t.Parallel()

	t.Run("footer element preferred", func(t *testing.T) {
		t.Parallel()
		doc, err := parseHTML(`<html><body><div class="footer">wrapper</div><footer>real</footer></body></html>`)
		require.NoError(t, err)
		sel := findFooter(doc)
		require.NotNil(t, sel)
		assert.Equal(t, "real", sel.Text())
	})

	t.Run("footer falls back to class match", func(t *testing.T) {
		t.Parallel()
		doc, err := parseHTML(`<html><body><div class="site-Footer">bottom</div></body></html>`)
		require.NoError(t, err)
		sel := findFooter(doc)
		require.NotNil(t, sel)
		assert.Equal(t, "bottom", sel.Text())
	})

	t.Run("header falls back to nav", func(t *testing.T) {
		t.Parallel()
		doc, err := parseHTML(`<html><body><nav>menu</nav></body></html>`)
		require.NoError(t, err)
		sel := findHeader(doc)
		require.NotNil(t, sel)
		assert.Equal(t, "menu", sel.Text())
	})

	t.Run("nothing found yields nil", func(t *testing.T) {
		t.Parallel()
		doc, err := parseHTML(`<html><body><p>plain</p></body></html>`)
		require.NoError(t, err)
		assert.Nil(t, findFooter(doc))
		assert.Nil(t, findHeader(doc))
	})
}

func TestResolveHref(t *testing.T) {
	t.Parallel()

	base := "https://www.acmemotors.com/"
	tests := []struct{ name, href, want string }{
		{"absolute kept", "https://other.com/x", "https://other.com/x"},
		{"protocol relative", "//cdn.acme.com/a.js", "https://cdn.acme.com/a.js"},
		{"root relative", "/contact", "https://www.acmemotors.com/contact"},
		{"bare relative", "contact", "https://www.acmemotors.com/contact"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, resolveHref(tt.href, base))
		})
	}
}

func TestHomepageDoc(t *testing.T) {
	t.Parallel()

	t.Run("navigates when nothing loaded", func(t *testing.T) {
		t.Parallel()
		fa := newFakeAccessor("https://a.com/", map[string]string{
			"https://a.com/": "<html><body>home</body></html>",
		})
		doc, err := homepageDoc(context.Background(), fa)
		require.NoError(t, err)
		assert.Equal(t, "home", doc.Find("body").Text())
		assert.Equal(t, []string{"https://a.com/"}, fa.visited)
	})

	t.Run("reuses current page", func(t *testing.T) {
		t.Parallel()
		fa := newFakeAccessor("https://a.com/", map[string]string{
			"https://a.com/": "<html><body>home</body></html>",
		})
		_, err := fa.Navigate(context.Background(), "https://a.com/")
		require.NoError(t, err)

		_, err = homepageDoc(context.Background(), fa)
		require.NoError(t, err)
		assert.Len(t, fa.visited, 1, "no second navigation")
	})

	t.Run("reloads the root when a subpage is current", func(t *testing.T) {
		t.Parallel()
		fa := newFakeAccessor("https://a.com/", map[string]string{
			"https://a.com/":        "<html><body>home</body></html>",
			"https://a.com/contact": "<html><body>contact</body></html>",
		})
		_, err := fa.Navigate(context.Background(), "https://a.com/contact")
		require.NoError(t, err)

		doc, err := homepageDoc(context.Background(), fa)
		require.NoError(t, err)
		assert.Equal(t, "home", doc.Find("body").Text())
	})
}
