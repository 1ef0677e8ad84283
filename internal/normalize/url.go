package normalize

import (
	"net/url"
	"strings"
)

// trackingParams are stripped from every normalized URL.
var trackingParams = map[string]bool{
	"utm_source": true, "utm_medium": true, "utm_campaign": true,
	"utm_term": true, "utm_content": true,
	"gclid": true, "fbclid": true, "mc_cid": true, "mc_eid": true,
	"_ga": true, "_gl": true, "_gac": true,
	"msclkid": true, "twclid": true, "_kx": true,
}

// facebookParams are Facebook click-tracking params stripped in addition to
// the general set.
var facebookParams = map[string]bool{
	"ref": true, "fref": true, "hc_location": true, "__tn__": true, "__cft__": true,
}

// mapsAllowList are semantically meaningful Google Maps params kept even
// though they would otherwise be treated as tracking.
var mapsAllowList = map[string]bool{
	"cid": true, "place_id": true, "q": true, "ll": true, "z": true,
}

// URL forces https, strips the tracking-parameter set from the query,
// drops any fragment, and preserves the path (an empty path becomes "/").
// Idempotent. Unparseable input is returned unchanged.
func URL(raw string) string {
	if raw == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = "https"
	u.Fragment = ""
	u.RawQuery = filterQuery(u.Query(), func(k string) bool {
		return !trackingParams[k]
	})
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// DealerURL normalizes a dealership root URL, forcing a trailing slash when
// the path is empty or "/".
func DealerURL(raw string) string {
	normalized := URL(raw)
	u, err := url.Parse(normalized)
	if err != nil {
		return normalized
	}
	if u.Path == "" || u.Path == "/" {
		if !strings.HasSuffix(normalized, "/") {
			normalized += "/"
		}
	}
	return normalized
}

// FacebookURL additionally strips Facebook click-tracking params and removes
// a trailing slash from the path; canonical Facebook URLs are slash-free.
// Non-Facebook URLs pass through untouched.
func FacebookURL(raw string) string {
	if raw == "" || !strings.Contains(strings.ToLower(raw), "facebook.com") {
		return raw
	}
	u, err := url.Parse(URL(raw))
	if err != nil {
		return raw
	}

	u.RawQuery = filterQuery(u.Query(), func(k string) bool {
		return !facebookParams[k] && !trackingParams[k]
	})
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.Fragment = ""
	return u.String()
}

// GoogleMapsURL strips tracking params but preserves the Maps allow-list
// (cid, place_id, q, ll, z) and forces https. Non-Maps URLs pass through.
func GoogleMapsURL(raw string) string {
	lower := strings.ToLower(raw)
	if raw == "" || (!strings.Contains(lower, "google.com/maps") && !strings.Contains(lower, "maps.google.com")) {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = "https"
	u.Fragment = ""
	u.RawQuery = filterQuery(u.Query(), func(k string) bool {
		return mapsAllowList[k] || !trackingParams[k]
	})
	return u.String()
}

func filterQuery(q url.Values, keep func(key string) bool) string {
	for k := range q {
		if !keep(k) {
			q.Del(k)
		}
	}
	if len(q) == 0 {
		return ""
	}
	return q.Encode()
}
