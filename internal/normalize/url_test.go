package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"forces https", "http://example.com/page", "https://example.com/page"},
		{"strips tracking params", "https://example.com/page?utm_source=x&utm_medium=y&id=7", "https://example.com/page?id=7"},
		{"strips gclid and fbclid", "https://example.com/?gclid=abc&fbclid=def", "https://example.com/"},
		{"drops fragment", "https://example.com/page#section", "https://example.com/page"},
		{"empty path becomes slash", "https://example.com", "https://example.com/"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, URL(tt.in))
		})
	}

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		once := URL("http://example.com/page?utm_source=x&id=7#frag")
		assert.Equal(t, once, URL(once))
	})
}

func TestDealerURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://www.exampledealer.com/", DealerURL("http://www.exampledealer.com"))
	assert.Equal(t, "https://www.exampledealer.com/inventory", DealerURL("https://www.exampledealer.com/inventory"))
}

func TestFacebookURL(t *testing.T) {
	t.Parallel()

	t.Run("strips facebook tracking and trailing slash", func(t *testing.T) {
		t.Parallel()
		got := FacebookURL("https://www.facebook.com/ExampleDealer/?ref=page_internal&fref=tag")
		assert.Equal(t, "https://www.facebook.com/ExampleDealer", got)
	})

	t.Run("non-facebook url passes through", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "https://example.com/x", FacebookURL("https://example.com/x"))
	})
}

func TestGoogleMapsURL(t *testing.T) {
	t.Parallel()

	t.Run("keeps allow-listed params, drops tracking", func(t *testing.T) {
		t.Parallel()
		got := GoogleMapsURL("http://www.google.com/maps?q=dealer&cid=123&utm_source=x")
		assert.Contains(t, got, "q=dealer")
		assert.Contains(t, got, "cid=123")
		assert.NotContains(t, got, "utm_source")
		assert.Contains(t, got, "https://")
	})

	t.Run("non-maps url passes through", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "https://example.com/maps", GoogleMapsURL("https://example.com/maps"))
	})
}
