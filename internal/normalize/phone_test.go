package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/dealer-scout/internal/model"
)

func TestPhone(t *testing.T) {
	t.Parallel()

	t.Run("pretty and digits derive from the same extraction", func(t *testing.T) {
		t.Parallel()
		p := Phone("Call us: 1 (312) 555-0147", model.StrategyHeader)
		require.NotNil(t, p)
		assert.Equal(t, "(312) 555-0147", p.Pretty)
		assert.Equal(t, "3125550147", p.Digits)
		assert.Equal(t, model.ConfidenceHigh, p.Confidence)
	})

	t.Run("separator styles all normalize identically", func(t *testing.T) {
		t.Parallel()
		for _, raw := range []string{"312-555-0147", "312.555.0147", "(312) 555 0147", "3125550147"} {
			p := Phone(raw, model.StrategyFooter)
			require.NotNil(t, p, raw)
			assert.Equal(t, "(312) 555-0147", p.Pretty, raw)
			assert.Equal(t, "3125550147", p.Digits, raw)
		}
	})

	t.Run("too few digits comes back unsure with raw only", func(t *testing.T) {
		t.Parallel()
		p := Phone("555-01", model.StrategyFooter)
		require.NotNil(t, p)
		assert.Equal(t, model.ConfidenceUnsure, p.Confidence)
		assert.Empty(t, p.Pretty)
		assert.Empty(t, p.Digits)
		assert.Equal(t, "555-01", p.Raw)
	})

	t.Run("empty input yields nil", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, Phone("", model.StrategyFooter))
	})
}

func TestPhoneMultiple(t *testing.T) {
	t.Parallel()

	t.Run("first successful input wins", func(t *testing.T) {
		t.Parallel()
		p := PhoneMultiple([]string{"garbage", "312-555-0147", "847-555-0199"}, model.StrategyContactPage)
		require.NotNil(t, p)
		assert.Equal(t, "3125550147", p.Digits)
	})

	t.Run("no success returns first input as unsure placeholder", func(t *testing.T) {
		t.Parallel()
		p := PhoneMultiple([]string{"not-a-number", "also bad"}, model.StrategyContactPage)
		require.NotNil(t, p)
		assert.Equal(t, "not-a-number", p.Raw)
		assert.Equal(t, model.ConfidenceUnsure, p.Confidence)
	})

	t.Run("empty slice yields nil", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, PhoneMultiple(nil, model.StrategyContactPage))
	})
}
