// Package patterns holds the compiled regular expressions and format
// validators used by every extractor and normalizer.
package patterns

import (
	"regexp"
	"strings"
)

// Address patterns.
var (
	// StreetRe matches a US street address: house number plus a named way.
	StreetRe = regexp.MustCompile(`(?i)\d+\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\s+(?:Street|St|Avenue|Ave|Road|Rd|Drive|Dr|Boulevard|Blvd|Lane|Ln|Way|Court|Ct|Circle|Cir|Parkway|Pkwy|Place|Pl)`)

	// StateRe matches a bare two-letter state code.
	StateRe = regexp.MustCompile(`\b[A-Z]{2}\b`)

	// ZipRe matches a 5 or 5+4 digit ZIP code.
	ZipRe = regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`)
)

// Phone patterns. PhoneRe tolerates arbitrary separators and a leading "1".
var (
	PhoneRe       = regexp.MustCompile(`\D*1?\D*(\d{3})\D*(\d{3})\D*(\d{4})\D*`)
	PhonePrettyRe = regexp.MustCompile(`^\(\d{3}\) \d{3}-\d{4}$`)
)

// placeholderPrefixes are NXX prefixes that mark a number as fake.
var placeholderPrefixes = map[string]bool{"000": true, "111": true, "555": true}

// IsPlaceholderPrefix reports whether the first three digits mark a
// placeholder number.
func IsPlaceholderPrefix(digits string) bool {
	return len(digits) >= 3 && placeholderPrefixes[digits[:3]]
}

// Hours patterns.
var (
	// HoursRangeRe matches "9:00 AM - 6:00 PM" style ranges, minutes optional.
	HoursRangeRe = regexp.MustCompile(`(?i)(\d{1,2}):?(\d{2})?\s*(AM|PM)\s*[-–—]\s*(\d{1,2}):?(\d{2})?\s*(AM|PM)`)

	// DayRe matches a weekday name or 3-letter abbreviation.
	DayRe = regexp.MustCompile(`(?i)\b(Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday|Mon|Tue|Wed|Thu|Fri|Sat|Sun)\b`)

	// DayRangeRe matches a day span like "Mon-Fri" or "Monday – Friday".
	DayRangeRe = regexp.MustCompile(`(?i)\b(Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday|Mon|Tue|Wed|Thu|Fri|Sat|Sun)\s*[-–—]\s*(Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday|Mon|Tue|Wed|Thu|Fri|Sat|Sun)\b`)

	ClosedRe   = regexp.MustCompile(`(?i)\b(closed|by\s+appointment)\b`)
	Open24Re   = regexp.MustCompile(`(?i)\b(24\s*hours?|open\s*24)\b`)
	PoweredBy  = regexp.MustCompile(`(?i)(?:powered\s+by|website\s+by|designed\s+by|built\s+by)\s+([^<>\n]+)`)
	GoogleMaps = regexp.MustCompile(`(?i)https?://(?:www\.)?(?:google\.com/maps|maps\.google\.com|goo\.gl/maps)`)
)

// URL-discovery path fragments.
var (
	ServicePathRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)/service[-_]?(?:appointment|scheduler?|booking)`),
		regexp.MustCompile(`(?i)/schedule[-_]?service`),
		regexp.MustCompile(`(?i)/book[-_]?(?:service|appointment)`),
	}
	CreditPathRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)/finance/apply`),
		regexp.MustCompile(`(?i)/apply[-_]?(?:for[-_])?financing`),
		regexp.MustCompile(`(?i)/credit[-_]?(?:app|application)`),
		regexp.MustCompile(`(?i)/finance[-_]?application`),
	}
	FacebookURLRe = regexp.MustCompile(`(?i)https?://(?:www\.)?facebook\.com/[a-zA-Z0-9._-]+/?`)
)

var dayNames = map[string]string{
	"mon": "Monday",
	"tue": "Tuesday",
	"wed": "Wednesday",
	"thu": "Thursday",
	"fri": "Friday",
	"sat": "Saturday",
	"sun": "Sunday",
}

// NormalizeDayName maps a day name or abbreviation to the canonical full
// name. Matching is on the first three letters, case-insensitive.
func NormalizeDayName(day string) string {
	d := strings.ToLower(strings.TrimSpace(day))
	if len(d) >= 3 {
		if full, ok := dayNames[d[:3]]; ok {
			return full
		}
	}
	if day == "" {
		return day
	}
	return strings.ToUpper(day[:1]) + strings.ToLower(day[1:])
}

// CleanWhitespace collapses whitespace runs to single spaces and trims.
func CleanWhitespace(text string) string {
	return strings.TrimSpace(wsRe.ReplaceAllString(text, " "))
}

var wsRe = regexp.MustCompile(`\s+`)
