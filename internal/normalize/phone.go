// Package normalize turns raw extracted strings into the canonical forms
// the report emits.
package normalize

import (
	"fmt"

	"github.com/sells-group/dealer-scout/internal/model"
	"github.com/sells-group/dealer-scout/internal/patterns"
)

// Phone normalizes a raw phone string. On success both Pretty and Digits
// are derived from the same extracted digit string; they never diverge.
// A string that does not yield exactly 10 digits comes back with raw only
// at UNSURE confidence.
func Phone(raw string, source model.Strategy) *model.Phone {
	if raw == "" {
		return nil
	}

	digits := patterns.ExtractPhoneDigits(raw)
	if len(digits) != 10 {
		return &model.Phone{
			Raw:        raw,
			Source:     source,
			Confidence: model.ConfidenceUnsure,
		}
	}

	return &model.Phone{
		Raw:        raw,
		Pretty:     fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:]),
		Digits:     digits,
		Source:     source,
		Confidence: model.ConfidenceHigh,
	}
}

// PhoneMultiple normalizes the first input that succeeds. If none succeed
// it returns the first input as an UNSURE placeholder, so the caller always
// has a record of what was attempted.
func PhoneMultiple(raws []string, source model.Strategy) *model.Phone {
	for _, raw := range raws {
		if p := Phone(raw, source); p != nil && p.Confidence != model.ConfidenceUnsure {
			return p
		}
	}
	if len(raws) > 0 {
		return &model.Phone{
			Raw:        raws[0],
			Source:     source,
			Confidence: model.ConfidenceUnsure,
		}
	}
	return nil
}
