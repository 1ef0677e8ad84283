package extract

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/dealer-scout/internal/browser"
	"github.com/sells-group/dealer-scout/internal/model"
	"github.com/sells-group/dealer-scout/internal/normalize"
	"github.com/sells-group/dealer-scout/internal/patterns"
)

// PhoneExtractor finds the sales phone number. Chain order: header element,
// footer element, dedicated contact page. Placeholder prefixes (000/111/555)
// are rejected as candidates.
type PhoneExtractor struct {
	log   *zap.Logger
	chain []strategy[*model.Phone]
}

// NewPhoneExtractor creates a phone extractor.
func NewPhoneExtractor(log *zap.Logger) *PhoneExtractor {
	e := &PhoneExtractor{log: log}
	e.chain = []strategy[*model.Phone]{
		{name: model.StrategyHeader, conf: model.ConfidenceHigh, try: e.fromHeader},
		{name: model.StrategyFooter, conf: model.ConfidenceHigh, try: e.fromFooter},
		{name: model.StrategyContactPage, conf: model.ConfidenceMedium, try: e.fromContactPage},
	}
	return e
}

// Extract runs the phone fallback chain against the homepage.
func (e *PhoneExtractor) Extract(ctx context.Context, pa browser.PageAccessor) model.Result[*model.Phone] {
	doc, err := homepageDoc(ctx, pa)
	if err != nil {
		return model.Miss[*model.Phone]("failed to load homepage: " + err.Error())
	}

	result := runChain(ctx, pa, doc, e.chain, e.log, "no phone number found")
	if result.Success() {
		result.Value.Source = result.Strategy
		result.Value.Confidence = result.Confidence
	}
	return result
}

func (e *PhoneExtractor) fromHeader(_ context.Context, pa browser.PageAccessor, doc *goquery.Document) (*model.Phone, string, bool) {
	header := findHeader(doc)
	if header == nil {
		return nil, "", false
	}
	return e.normalizeFirst(findPhoneNumbers(outerHTML(header)), model.StrategyHeader, pa.BaseURL())
}

func (e *PhoneExtractor) fromFooter(_ context.Context, pa browser.PageAccessor, doc *goquery.Document) (*model.Phone, string, bool) {
	footer := findFooter(doc)
	if footer == nil {
		return nil, "", false
	}
	return e.normalizeFirst(findPhoneNumbers(outerHTML(footer)), model.StrategyFooter, pa.BaseURL())
}

func (e *PhoneExtractor) fromContactPage(ctx context.Context, pa browser.PageAccessor, _ *goquery.Document) (*model.Phone, string, bool) {
	for _, path := range contactPaths {
		contactURL := candidateURL(pa.BaseURL(), path)
		page, err := pa.Navigate(ctx, contactURL)
		if err != nil {
			continue
		}
		if phone, evidence, ok := e.normalizeFirst(findPhoneNumbers(page.HTML), model.StrategyContactPage, contactURL); ok {
			return phone, evidence, true
		}
	}
	return nil, "", false
}

func (e *PhoneExtractor) normalizeFirst(candidates []string, source model.Strategy, evidence string) (*model.Phone, string, bool) {
	if len(candidates) == 0 {
		return nil, "", false
	}
	phone := normalize.Phone(candidates[0], source)
	if phone == nil || phone.Confidence == model.ConfidenceUnsure {
		return nil, "", false
	}
	return phone, evidence, true
}

// findPhoneNumbers extracts every 10-digit candidate from text, dropping
// placeholder prefixes.
func findPhoneNumbers(text string) []string {
	var out []string
	for _, m := range patterns.PhoneRe.FindAllStringSubmatch(text, -1) {
		digits := m[1] + m[2] + m[3]
		if len(digits) == 10 && !patterns.IsPlaceholderPrefix(digits) {
			out = append(out, digits)
		}
	}
	return out
}
