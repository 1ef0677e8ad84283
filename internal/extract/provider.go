package extract

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/dealer-scout/internal/browser"
	"github.com/sells-group/dealer-scout/internal/model"
	"github.com/sells-group/dealer-scout/internal/patterns"
)

// ProviderDetector identifies the platform a dealer site runs on by checking
// the page against the fingerprint table: footer text (HIGH), meta tags
// (MEDIUM), then script src / link href (MEDIUM). No match yields an explicit
// "Unsure" provider, never an absent one.
type ProviderDetector struct {
	log          *zap.Logger
	fingerprints *FingerprintRegistry
	chain        []strategy[*model.WebsiteProvider]
}

// NewProviderDetector creates a provider detector backed by a registry.
func NewProviderDetector(fingerprints *FingerprintRegistry, log *zap.Logger) *ProviderDetector {
	d := &ProviderDetector{log: log, fingerprints: fingerprints}
	d.chain = []strategy[*model.WebsiteProvider]{
		{name: model.StrategyFooter, conf: model.ConfidenceHigh, try: d.fromFooter},
		{name: model.StrategyMetaTags, conf: model.ConfidenceMedium, try: d.fromMetaTags},
		{name: model.StrategyScriptSrc, conf: model.ConfidenceMedium, try: d.fromScriptSrc},
	}
	return d
}

// Detect runs the fingerprint chain. The returned result always carries a
// printable provider value, "Unsure" when nothing matched.
func (d *ProviderDetector) Detect(ctx context.Context, pa browser.PageAccessor) model.Result[*model.WebsiteProvider] {
	doc, err := homepageDoc(ctx, pa)
	if err != nil {
		return unsureProvider("failed to load homepage: " + err.Error())
	}

	result := runChain(ctx, pa, doc, d.chain, d.log, "no platform fingerprint matched")
	if !result.Success() {
		return unsureProvider(result.Err)
	}
	result.Value.DetectionMethod = string(result.Strategy)
	result.Value.Confidence = result.Confidence
	return result
}

func unsureProvider(reason string) model.Result[*model.WebsiteProvider] {
	r := model.Miss[*model.WebsiteProvider](reason)
	r.Value = &model.WebsiteProvider{
		Name:        "unsure",
		DisplayName: "Unsure",
		Confidence:  model.ConfidenceUnsure,
	}
	return r
}

func (d *ProviderDetector) fromFooter(_ context.Context, pa browser.PageAccessor, doc *goquery.Document) (*model.WebsiteProvider, string, bool) {
	footer := findFooter(doc)
	if footer == nil {
		return nil, "", false
	}
	text := strings.ToLower(footer.Text() + " " + outerHTML(footer))

	for _, fp := range d.fingerprints.Providers {
		for _, needle := range fp.FooterTextContains {
			if needle != "" && strings.Contains(text, strings.ToLower(needle)) {
				return providerFromFingerprint(fp), pa.BaseURL(), true
			}
		}
	}

	// Generic "powered by X" credit with no known fingerprint.
	if m := patterns.PoweredBy.FindStringSubmatch(footer.Text()); m != nil {
		name := patterns.CleanWhitespace(m[1])
		if name != "" {
			return &model.WebsiteProvider{
				Name:        strings.ToLower(strings.ReplaceAll(name, " ", "_")),
				DisplayName: name,
			}, pa.BaseURL(), true
		}
	}
	return nil, "", false
}

func (d *ProviderDetector) fromMetaTags(_ context.Context, pa browser.PageAccessor, doc *goquery.Document) (*model.WebsiteProvider, string, bool) {
	var contents []string
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		if content, ok := s.Attr("content"); ok {
			contents = append(contents, strings.ToLower(content))
		}
	})
	joined := strings.Join(contents, " ")

	for _, fp := range d.fingerprints.Providers {
		for _, clue := range fp.StructuredDataClues {
			if clue != "" && strings.Contains(joined, strings.ToLower(clue)) {
				return providerFromFingerprint(fp), pa.BaseURL(), true
			}
		}
	}
	return nil, "", false
}

func (d *ProviderDetector) fromScriptSrc(_ context.Context, pa browser.PageAccessor, doc *goquery.Document) (*model.WebsiteProvider, string, bool) {
	var srcs []string
	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			srcs = append(srcs, strings.ToLower(src))
		}
	})
	doc.Find("link[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			srcs = append(srcs, strings.ToLower(href))
		}
	})
	joined := strings.Join(srcs, " ")

	for _, fp := range d.fingerprints.Providers {
		for _, clue := range fp.DomainClues {
			if clue != "" && strings.Contains(joined, strings.ToLower(clue)) {
				return providerFromFingerprint(fp), pa.BaseURL(), true
			}
		}
	}
	return nil, "", false
}

func providerFromFingerprint(fp ProviderFingerprint) *model.WebsiteProvider {
	return &model.WebsiteProvider{
		Name:            fp.Name,
		DisplayName:     fp.DisplayName,
		VerificationURL: fp.VerificationURL,
	}
}

// CreditAppProviderDetector identifies the embedded credit-application vendor
// on the credit application page itself: iframe src (HIGH), script src
// (MEDIUM), then a raw-HTML substring sweep (LOW). Evidence records the
// literal matched src or snippet.
type CreditAppProviderDetector struct {
	log          *zap.Logger
	fingerprints *FingerprintRegistry
}

// NewCreditAppProviderDetector creates a credit-vendor detector.
func NewCreditAppProviderDetector(fingerprints *FingerprintRegistry, log *zap.Logger) *CreditAppProviderDetector {
	return &CreditAppProviderDetector{log: log, fingerprints: fingerprints}
}

// Detect fetches the credit application page and runs the vendor chain.
func (d *CreditAppProviderDetector) Detect(ctx context.Context, pa browser.PageAccessor, creditAppURL string) model.Result[*model.CreditAppProvider] {
	if creditAppURL == "" {
		return unsureCreditProvider("no credit application page discovered")
	}

	page, err := pa.Navigate(ctx, creditAppURL)
	if err != nil {
		return unsureCreditProvider("failed to load credit application page: " + err.Error())
	}
	doc, err := parseHTML(page.HTML)
	if err != nil {
		return unsureCreditProvider("failed to parse credit application page: " + err.Error())
	}

	if vendor, evidence, ok := d.matchAttrs(doc, "iframe[src]", "src"); ok {
		vendor.DetectionMethod = string(model.StrategyIframe)
		vendor.Confidence = model.ConfidenceHigh
		return model.Hit(vendor, model.ConfidenceHigh, model.StrategyIframe, evidence)
	}
	if vendor, evidence, ok := d.matchAttrs(doc, "script[src]", "src"); ok {
		vendor.DetectionMethod = string(model.StrategyScriptSrc)
		vendor.Confidence = model.ConfidenceMedium
		return model.Hit(vendor, model.ConfidenceMedium, model.StrategyScriptSrc, evidence)
	}
	if vendor, evidence, ok := d.matchRawHTML(page.HTML); ok {
		vendor.DetectionMethod = string(model.StrategyPageSource)
		vendor.Confidence = model.ConfidenceLow
		return model.Hit(vendor, model.ConfidenceLow, model.StrategyPageSource, evidence)
	}

	return unsureCreditProvider("no credit vendor fingerprint matched")
}

func unsureCreditProvider(reason string) model.Result[*model.CreditAppProvider] {
	r := model.Miss[*model.CreditAppProvider](reason)
	r.Value = &model.CreditAppProvider{
		Name:        "unsure",
		DisplayName: "Unsure",
		Confidence:  model.ConfidenceUnsure,
	}
	return r
}

// matchAttrs matches fingerprint domains against one attribute of one
// element type. The evidence is the literal attribute value that matched.
func (d *CreditAppProviderDetector) matchAttrs(doc *goquery.Document, selector, attr string) (*model.CreditAppProvider, string, bool) {
	var vendor *model.CreditAppProvider
	var evidence string

	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		val, _ := s.Attr(attr)
		lower := strings.ToLower(val)
		for _, fp := range d.fingerprints.CreditApps {
			for _, domain := range fp.Domains {
				if domain != "" && strings.Contains(lower, strings.ToLower(domain)) {
					vendor = creditFromFingerprint(fp)
					evidence = val
					return false
				}
			}
		}
		return true
	})

	if vendor == nil {
		return nil, "", false
	}
	vendor.Evidence = evidence
	return vendor, evidence, true
}

// matchRawHTML sweeps the whole page source, returning a short snippet around
// the match as evidence.
func (d *CreditAppProviderDetector) matchRawHTML(html string) (*model.CreditAppProvider, string, bool) {
	lower := strings.ToLower(html)
	for _, fp := range d.fingerprints.CreditApps {
		for _, domain := range fp.Domains {
			idx := strings.Index(lower, strings.ToLower(domain))
			if domain == "" || idx < 0 {
				continue
			}
			start := idx - 40
			if start < 0 {
				start = 0
			}
			end := idx + len(domain) + 40
			if end > len(html) {
				end = len(html)
			}
			snippet := patterns.CleanWhitespace(html[start:end])
			vendor := creditFromFingerprint(fp)
			vendor.Evidence = snippet
			return vendor, snippet, true
		}
	}
	return nil, "", false
}

func creditFromFingerprint(fp CreditFingerprint) *model.CreditAppProvider {
	return &model.CreditAppProvider{
		Name:        fp.Name,
		DisplayName: fp.DisplayName,
	}
}
