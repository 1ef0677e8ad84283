package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/dealer-scout/internal/model"
)

func TestHoursExtractorGeneralFallback(t *testing.T) {
	t.Parallel()

	// Raw text blob with no department headings: the general parse is
	// copied into all three departments at LOW confidence.
	hoursPage := `<html><body><pre>Sales Hours
Mon-Fri: 9:00 AM - 6:00 PM
Saturday: 10am-4pm
Sunday: Closed</pre></body></html>`

	fa := newFakeAccessor(base, map[string]string{
		"https://www.acmemotors.com/hours": hoursPage,
	})

	r := NewHoursExtractor(zap.NewNop()).Extract(context.Background(), fa)
	require.True(t, r.Success())
	assert.Equal(t, model.ConfidenceLow, r.Confidence)
	assert.Equal(t, "https://www.acmemotors.com/hours", r.Evidence)

	require.NotNil(t, r.Value.Sales)
	require.NotNil(t, r.Value.Service)
	require.NotNil(t, r.Value.Parts)

	for _, h := range []*model.Hours{r.Value.Sales, r.Value.Service, r.Value.Parts} {
		assert.Equal(t, "9:00 AM – 6:00 PM", h.Monday)
		assert.Equal(t, "9:00 AM – 6:00 PM", h.Friday)
		assert.Equal(t, "10:00 AM – 4:00 PM", h.Saturday)
		assert.Equal(t, "Closed", h.Sunday)
	}
	assert.Equal(t, *r.Value.Sales, *r.Value.Service, "identical blocks from general fallback")
}

func TestHoursExtractorDepartmentSections(t *testing.T) {
	t.Parallel()

	hoursPage := `<html><body>
	<h3>Sales Hours</h3>
	<p>Mon-Fri: 9:00 AM - 7:00 PM</p>
	<p>Sat: 9:00 AM - 5:00 PM</p>
	<h3>Service Hours</h3>
	<p>Mon-Fri: 7:00 AM - 6:00 PM</p>
	<p>Sat: Closed</p>
	</body></html>`

	fa := newFakeAccessor(base, map[string]string{
		"https://www.acmemotors.com/hours": hoursPage,
	})

	r := NewHoursExtractor(zap.NewNop()).Extract(context.Background(), fa)
	require.True(t, r.Success())
	assert.Equal(t, model.ConfidenceMedium, r.Confidence)

	require.NotNil(t, r.Value.Sales)
	assert.Equal(t, "9:00 AM – 7:00 PM", r.Value.Sales.Monday)
	assert.Equal(t, "9:00 AM – 5:00 PM", r.Value.Sales.Saturday)

	require.NotNil(t, r.Value.Service)
	assert.Equal(t, "7:00 AM – 6:00 PM", r.Value.Service.Monday)

	// No parts section: inherits the general hours.
	require.NotNil(t, r.Value.Parts)
}

func TestHoursExtractorPageSelection(t *testing.T) {
	t.Parallel()

	t.Run("skips pages without hours keywords", func(t *testing.T) {
		t.Parallel()
		fa := newFakeAccessor(base, map[string]string{
			"https://www.acmemotors.com/hours": "<html><body>nothing relevant</body></html>",
			base: `<html><body>We are open Mon-Fri: 8:00 AM - 5:00 PM</body></html>`,
		})

		r := NewHoursExtractor(zap.NewNop()).Extract(context.Background(), fa)
		require.True(t, r.Success())
		assert.Equal(t, base, r.Evidence, "homepage accepted after /hours rejected")
		assert.Equal(t, "8:00 AM – 5:00 PM", r.Value.Sales.Monday)
	})

	t.Run("no usable page is a terminal miss", func(t *testing.T) {
		t.Parallel()
		fa := newFakeAccessor(base, map[string]string{
			base: "<html><body>inventory only</body></html>",
		})

		r := NewHoursExtractor(zap.NewNop()).Extract(context.Background(), fa)
		assert.False(t, r.Success())
		assert.NotEmpty(t, r.Err)
	})

	t.Run("hours page found but unparseable", func(t *testing.T) {
		t.Parallel()
		fa := newFakeAccessor(base, map[string]string{
			base: "<html><body>our hours are great</body></html>",
		})

		r := NewHoursExtractor(zap.NewNop()).Extract(context.Background(), fa)
		assert.False(t, r.Success())
	})
}

func TestParseHoursText(t *testing.T) {
	t.Parallel()

	t.Run("day range expansion with wraparound", func(t *testing.T) {
		t.Parallel()
		h, ok := parseHoursText("Sat-Mon: 10:00 AM - 3:00 PM")
		require.True(t, ok)
		assert.Equal(t, "10:00 AM – 3:00 PM", h.Saturday)
		assert.Equal(t, "10:00 AM – 3:00 PM", h.Sunday)
		assert.Equal(t, "10:00 AM – 3:00 PM", h.Monday)
		assert.Equal(t, "Closed", h.Tuesday)
	})

	t.Run("open 24 hours literal", func(t *testing.T) {
		t.Parallel()
		h, ok := parseHoursText("Monday: Open 24 Hours")
		require.True(t, ok)
		assert.Equal(t, "Open 24 hours", h.Monday)
	})

	t.Run("bare meridiem times get minutes", func(t *testing.T) {
		t.Parallel()
		h, ok := parseHoursText("Wed: 10am-4pm")
		require.True(t, ok)
		assert.Equal(t, "10:00 AM – 4:00 PM", h.Wednesday)
	})

	t.Run("no day lines", func(t *testing.T) {
		t.Parallel()
		_, ok := parseHoursText("Welcome to our dealership")
		require.False(t, ok)
	})
}
