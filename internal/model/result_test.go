package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultSuccess(t *testing.T) {
	t.Parallel()

	t.Run("hit is successful", func(t *testing.T) {
		t.Parallel()
		r := Hit("value", ConfidenceHigh, StrategyFooter, "https://example.com")
		assert.True(t, r.Success())
		assert.Equal(t, "value", r.Value)
		assert.Equal(t, StrategyFooter, r.Strategy)
	})

	t.Run("miss is never successful", func(t *testing.T) {
		t.Parallel()
		r := Miss[string]("nothing found")
		assert.False(t, r.Success())
		assert.Equal(t, ConfidenceUnsure, r.Confidence)
		assert.Equal(t, StrategyNone, r.Strategy)
		assert.Equal(t, "nothing found", r.Err)
	})

	t.Run("found with unsure confidence is not success", func(t *testing.T) {
		t.Parallel()
		r := Result[string]{Value: "v", Found: true, Confidence: ConfidenceUnsure}
		assert.False(t, r.Success())
	})
}

func TestHoursDayAccess(t *testing.T) {
	t.Parallel()

	var h Hours
	h.SetDay("Wednesday", "9:00 AM – 5:00 PM")

	assert.Equal(t, "9:00 AM – 5:00 PM", h.Day("Wednesday"))
	assert.Equal(t, "Closed", h.Day("Sunday"), "unset day reads as Closed")
}
