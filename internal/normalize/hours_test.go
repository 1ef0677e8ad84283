package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/dealer-scout/internal/model"
)

func TestTimeRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"hyphen becomes spaced en-dash", "9:00 AM - 6:00 PM", "9:00 AM – 6:00 PM"},
		{"em-dash becomes spaced en-dash", "9:00 AM — 6:00 PM", "9:00 AM – 6:00 PM"},
		{"closed literal", "CLOSED", "Closed"},
		{"by appointment is closed", "By Appointment Only", "Closed"},
		{"24 hours literal", "Open 24 Hours", "Open 24 hours"},
		{"empty is closed", "", "Closed"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, TimeRange(tt.in))
		})
	}

	t.Run("idempotent on its own output", func(t *testing.T) {
		t.Parallel()
		once := TimeRange("9:00 AM - 6:00 PM")
		assert.Equal(t, once, TimeRange(once))
		assert.Equal(t, "Closed", TimeRange(TimeRange("closed")))
	})
}

func TestSplitHours(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "9:00 AM – 1:00 PM; 2:00 PM – 6:00 PM", SplitHours("9:00 AM-1:00 PM, 2:00 PM-6:00 PM"))
}

func TestHoursMap(t *testing.T) {
	t.Parallel()

	t.Run("empty map yields closed for all seven days", func(t *testing.T) {
		t.Parallel()
		h := HoursMap(map[string]string{})
		for _, day := range model.Weekdays {
			assert.Equal(t, "Closed", h.Day(day), day)
		}
	})

	t.Run("abbreviated keys match by prefix", func(t *testing.T) {
		t.Parallel()
		h := HoursMap(map[string]string{
			"Mon":      "9:00 AM - 6:00 PM",
			"saturday": "10:00 AM - 4:00 PM",
		})
		assert.Equal(t, "9:00 AM – 6:00 PM", h.Monday)
		assert.Equal(t, "10:00 AM – 4:00 PM", h.Saturday)
		assert.Equal(t, "Closed", h.Sunday)
	})

	t.Run("full-name key beats abbreviation for the same day", func(t *testing.T) {
		t.Parallel()
		for i := 0; i < 20; i++ {
			h := HoursMap(map[string]string{
				"Mon":    "9:00 AM - 5:00 PM",
				"Monday": "10:00 AM - 6:00 PM",
			})
			assert.Equal(t, "10:00 AM – 6:00 PM", h.Monday)
		}
	})
}

func TestMergeHours(t *testing.T) {
	t.Parallel()

	base := EmptyHours()
	base.Monday = "9:00 AM – 5:00 PM"
	base.Confidence = model.ConfidenceLow

	t.Run("closed override never clobbers real data", func(t *testing.T) {
		t.Parallel()
		override := EmptyHours()
		override.Confidence = model.ConfidenceMedium

		merged := MergeHours(base, override)
		assert.Equal(t, "9:00 AM – 5:00 PM", merged.Monday)
		assert.Equal(t, model.ConfidenceMedium, merged.Confidence)
	})

	t.Run("real override wins", func(t *testing.T) {
		t.Parallel()
		override := EmptyHours()
		override.Monday = "7:00 AM – 7:00 PM"

		merged := MergeHours(base, override)
		assert.Equal(t, "7:00 AM – 7:00 PM", merged.Monday)
	})
}

func TestExpandDayRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		start, end string
		want       []string
	}{
		{"mon to fri", "Mon", "Fri", []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}},
		{"wraparound sat to mon", "Sat", "Mon", []string{"Saturday", "Sunday", "Monday"}},
		{"single day span", "Wed", "Wed", []string{"Wednesday"}},
		{"unknown day", "Xyz", "Fri", nil},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExpandDayRange(tt.start, tt.end))
		})
	}
}
