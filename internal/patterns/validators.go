package patterns

import (
	"net/url"
	"regexp"
	"strings"
)

// uspsStates covers the 50 states plus DC and territories.
var uspsStates = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true,
	"CT": true, "DE": true, "FL": true, "GA": true, "HI": true, "ID": true,
	"IL": true, "IN": true, "IA": true, "KS": true, "KY": true, "LA": true,
	"ME": true, "MD": true, "MA": true, "MI": true, "MN": true, "MS": true,
	"MO": true, "MT": true, "NE": true, "NV": true, "NH": true, "NJ": true,
	"NM": true, "NY": true, "NC": true, "ND": true, "OH": true, "OK": true,
	"OR": true, "PA": true, "RI": true, "SC": true, "SD": true, "TN": true,
	"TX": true, "UT": true, "VT": true, "VA": true, "WA": true, "WV": true,
	"WI": true, "WY": true, "DC": true, "PR": true, "VI": true, "GU": true,
	"AS": true, "MP": true,
}

// IsValidState reports whether s is a valid two-letter USPS code.
func IsValidState(s string) bool {
	return len(s) == 2 && uspsStates[strings.ToUpper(s)]
}

var (
	hasDigitRe  = regexp.MustCompile(`\d`)
	hasLetterRe = regexp.MustCompile(`[A-Za-z]`)
	cityRe      = regexp.MustCompile(`^[A-Za-z\s\-.]+$`)
	zipExactRe  = regexp.MustCompile(`^\d{5}(?:-\d{4})?$`)
)

// ValidStreet requires both a house number and street text.
func ValidStreet(street string) bool {
	return street != "" && hasDigitRe.MatchString(street) && hasLetterRe.MatchString(street)
}

// ValidCity requires at least two characters of letters, spaces, or hyphens.
func ValidCity(city string) bool {
	return len(city) >= 2 && cityRe.MatchString(city)
}

// ValidZip requires a 5 or 5+4 digit ZIP.
func ValidZip(zip string) bool {
	return zipExactRe.MatchString(zip)
}

// ValidAddress checks all four components. An address passes whole or not
// at all; there is no partially valid address.
func ValidAddress(street, city, state, zip string) bool {
	return ValidStreet(street) && ValidCity(city) && IsValidState(state) && ValidZip(zip)
}

// ExtractPhoneDigits pulls a 10-digit number out of arbitrary text, or ""
// when none is present.
func ExtractPhoneDigits(raw string) string {
	m := PhoneRe.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return m[1] + m[2] + m[3]
}

// ValidURL requires a scheme and host.
func ValidURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Domain returns the lowercased host with any "www." prefix removed.
func Domain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}

// SameDomain compares two URLs ignoring scheme and "www.".
func SameDomain(a, b string) bool {
	da, db := Domain(a), Domain(b)
	return da != "" && da == db
}
