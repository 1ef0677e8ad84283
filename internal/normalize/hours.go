package normalize

import (
	"strings"

	"github.com/sells-group/dealer-scout/internal/model"
	"github.com/sells-group/dealer-scout/internal/patterns"
)

const closed = "Closed"

// TimeRange normalizes a single range string: "closed"/"by appointment"
// become the literal "Closed", anything with "24" and "hour" becomes
// "Open 24 hours", and every hyphen or em-dash separator is rewritten to a
// single en-dash with one space on each side. Idempotent on its own output.
func TimeRange(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return closed
	}

	lower := strings.ToLower(s)
	if strings.Contains(lower, "closed") || strings.Contains(lower, "by appointment") {
		return closed
	}
	if strings.Contains(lower, "24") && strings.Contains(lower, "hour") {
		return "Open 24 hours"
	}

	s = strings.ReplaceAll(s, "—", "–")
	s = strings.ReplaceAll(s, "-", "–")
	s = strings.ReplaceAll(s, "–", " – ")
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return strings.TrimSpace(s)
}

// SplitHours normalizes a day with multiple ranges, e.g. "9-1, 2-6",
// joining the normalized parts with "; ".
func SplitHours(s string) string {
	parts := strings.Split(strings.ReplaceAll(s, ";", ","), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, TimeRange(p))
		}
	}
	return strings.Join(out, "; ")
}

// HoursMap builds an Hours value from free-text day keys. Keys match the
// canonical weekdays case-insensitively, including 3-letter abbreviation
// prefixes; a full-name key always beats an abbreviation for the same day.
// Every one of the seven fields is populated; missing days are "Closed".
func HoursMap(raw map[string]string) model.Hours {
	h := EmptyHours()
	h.Confidence = model.ConfidenceHigh

	for _, day := range model.Weekdays {
		dayLower := strings.ToLower(day)

		exact := false
		for key, val := range raw {
			if strings.ToLower(strings.TrimSpace(key)) == dayLower {
				h.SetDay(day, TimeRange(val))
				exact = true
				break
			}
		}
		if exact {
			continue
		}
		for key, val := range raw {
			k := strings.ToLower(strings.TrimSpace(key))
			if len(k) >= 3 && strings.HasPrefix(dayLower, k[:3]) {
				h.SetDay(day, TimeRange(val))
				break
			}
		}
	}
	return h
}

// EmptyHours returns an Hours value with all seven days "Closed".
func EmptyHours() model.Hours {
	h := model.Hours{Confidence: model.ConfidenceUnsure}
	for _, day := range model.Weekdays {
		h.SetDay(day, closed)
	}
	return h
}

// MergeHours layers override on top of base per day. Override wins unless
// its value for that day is the default "Closed", in which case the base
// value is kept — a department-specific fetch never clobbers real data
// with the default.
func MergeHours(base, override model.Hours) model.Hours {
	merged := model.Hours{
		SourceURL:  override.SourceURL,
		Confidence: model.Max(override.Confidence, base.Confidence),
	}
	if merged.SourceURL == "" {
		merged.SourceURL = base.SourceURL
	}
	for _, day := range model.Weekdays {
		ov := override.Day(day)
		if ov != "" && ov != closed {
			merged.SetDay(day, ov)
		} else {
			merged.SetDay(day, base.Day(day))
		}
	}
	return merged
}

// ExpandDayRange expands a span like "Mon-Fri" into the weekdays it covers,
// wrapping around the week when the span crosses Sunday ("Sat-Mon" → Sat,
// Sun, Mon). Unknown day names yield nil.
func ExpandDayRange(start, end string) []string {
	startIdx := dayIndex(patterns.NormalizeDayName(start))
	endIdx := dayIndex(patterns.NormalizeDayName(end))
	if startIdx < 0 || endIdx < 0 {
		return nil
	}

	if startIdx <= endIdx {
		return append([]string(nil), model.Weekdays[startIdx:endIdx+1]...)
	}
	out := append([]string(nil), model.Weekdays[startIdx:]...)
	return append(out, model.Weekdays[:endIdx+1]...)
}

func dayIndex(day string) int {
	for i, d := range model.Weekdays {
		if d == day {
			return i
		}
	}
	return -1
}
