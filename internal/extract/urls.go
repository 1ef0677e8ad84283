package extract

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/dealer-scout/internal/browser"
	"github.com/sells-group/dealer-scout/internal/model"
	"github.com/sells-group/dealer-scout/internal/normalize"
	"github.com/sells-group/dealer-scout/internal/patterns"
)

// servicePathProbes are the conventional scheduler paths probed when no
// in-page link qualifies.
var servicePathProbes = []string{
	"/service-appointment",
	"/schedule-service",
	"/service/schedule",
	"/book-service",
}

// creditPathProbes are the conventional credit application paths.
var creditPathProbes = []string{
	"/finance/apply-for-financing",
	"/finance/apply",
	"/apply-for-financing",
	"/credit-application",
}

var (
	serviceKeywords = []string{"service", "appointment"}
	creditKeywords  = []string{"apply", "credit", "financing"}
)

// URLDiscoverer finds the service scheduler, credit application, and Facebook
// URLs on a dealership site. Link scans run against the homepage; path probes
// navigate directly. Every accepted URL must sit on the dealer's own domain
// (Facebook excepted).
type URLDiscoverer struct {
	log *zap.Logger
}

// NewURLDiscoverer creates a URL discoverer.
func NewURLDiscoverer(log *zap.Logger) *URLDiscoverer {
	return &URLDiscoverer{log: log}
}

// Discover runs all three discoveries against the homepage. A field with no
// hit is simply left empty on the result; discovery never fails the dealer.
func (d *URLDiscoverer) Discover(ctx context.Context, pa browser.PageAccessor) *model.URLDiscovery {
	out := &model.URLDiscovery{}

	doc, err := homepageDoc(ctx, pa)
	if err != nil {
		d.log.Warn("url discovery could not load homepage", zap.Error(err))
		return out
	}

	if url, source, ok := d.discoverOnDomain(ctx, pa, doc, patterns.ServicePathRes, serviceKeywords, servicePathProbes); ok {
		out.ServiceScheduler = url
		out.ServiceSchedulerSource = source
	}
	if url, source, ok := d.discoverOnDomain(ctx, pa, doc, patterns.CreditPathRes, creditKeywords, creditPathProbes); ok {
		out.CreditApp = url
		out.CreditAppSource = source
	}

	if fb, source, ok := d.discoverFacebook(doc, pa.BaseURL()); ok {
		out.Facebook = fb
		out.FacebookPageID = facebookPageID(fb)
		out.FacebookSource = source
	}

	return out
}

// discoverOnDomain runs the link-scan then path-probe chain for one field.
// The source return names the winning strategy plus its locator.
func (d *URLDiscoverer) discoverOnDomain(
	ctx context.Context,
	pa browser.PageAccessor,
	doc *goquery.Document,
	pathRes []*regexp.Regexp,
	keywords []string,
	probes []string,
) (string, string, bool) {
	if url, ok := d.scanLinks(doc, pa.BaseURL(), pathRes, keywords); ok {
		return url, string(model.StrategyLinkScan), true
	}
	if url, ok := d.probePaths(ctx, pa, probes); ok {
		return url, string(model.StrategyPathProbe), true
	}
	return "", "", false
}

// scanLinks accepts the first link whose href matches a path regex or whose
// text contains a field keyword, resolved and verified on-domain.
func (d *URLDiscoverer) scanLinks(doc *goquery.Document, baseURL string, pathRes []*regexp.Regexp, keywords []string) (string, bool) {
	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") {
			return true
		}

		matched := false
		for _, re := range pathRes {
			if re.MatchString(href) {
				matched = true
				break
			}
		}
		if !matched {
			text := strings.ToLower(patterns.CleanWhitespace(s.Text()))
			for _, kw := range keywords {
				if strings.Contains(text, kw) {
					matched = true
					break
				}
			}
		}
		if !matched {
			return true
		}

		resolved := resolveHref(href, baseURL)
		if !patterns.SameDomain(resolved, baseURL) {
			return true
		}
		found = normalize.URL(resolved)
		return false
	})
	return found, found != ""
}

// probePaths navigates the conventional paths directly, accepting the first
// that loads without redirecting off-domain.
func (d *URLDiscoverer) probePaths(ctx context.Context, pa browser.PageAccessor, probes []string) (string, bool) {
	for _, path := range probes {
		target := candidateURL(pa.BaseURL(), path)
		page, err := pa.Navigate(ctx, target)
		if err != nil {
			continue
		}
		if !patterns.SameDomain(page.URL, pa.BaseURL()) {
			d.log.Debug("path probe redirected off-domain",
				zap.String("probe", target), zap.String("landed", page.URL))
			continue
		}
		return normalize.URL(page.URL), true
	}
	return "", false
}

// discoverFacebook scans for a Facebook link by href or by link class. The
// source records the raw href and the cleaned final URL as "start → final".
func (d *URLDiscoverer) discoverFacebook(doc *goquery.Document, baseURL string) (string, string, bool) {
	var start string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if href == "" {
			return true
		}
		candidate := resolveHref(href, baseURL)

		if patterns.FacebookURLRe.MatchString(candidate) {
			start = candidate
			return false
		}

		// Social icon links sometimes carry the URL in an odd format; accept
		// them when the class marks them as Facebook and the host agrees.
		class, _ := s.Attr("class")
		classLower := strings.ToLower(class)
		if (strings.Contains(classLower, "fa-facebook") || strings.Contains(classLower, "facebook")) &&
			strings.Contains(strings.ToLower(candidate), "facebook.com") {
			start = candidate
			return false
		}
		return true
	})
	if start == "" {
		return "", "", false
	}

	final := normalize.FacebookURL(start)
	return final, start + " → " + final, true
}

// facebookPageID extracts the page slug from a cleaned Facebook URL, skipping
// the structural segments Facebook puts before some page names.
func facebookPageID(fbURL string) string {
	u, err := url.Parse(fbURL)
	if err != nil || !strings.Contains(u.Host, "facebook.com") {
		return ""
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for _, seg := range segments {
		switch seg {
		case "", "pages", "people", "pg", "profile.php":
			continue
		}
		return seg
	}
	return ""
}
