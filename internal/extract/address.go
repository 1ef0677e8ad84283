package extract

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/dealer-scout/internal/browser"
	"github.com/sells-group/dealer-scout/internal/model"
	"github.com/sells-group/dealer-scout/internal/patterns"
)

// AddressExtractor resolves the dealership street address. Chain order:
// Google Maps link (source of truth, currently a recording stub that always
// falls through), Schema.org JSON-LD, microdata, dedicated contact page,
// footer text, header text. Every candidate must pass the four-component
// validator before acceptance.
type AddressExtractor struct {
	log   *zap.Logger
	chain []strategy[*model.Address]
}

// NewAddressExtractor creates an address extractor.
func NewAddressExtractor(log *zap.Logger) *AddressExtractor {
	e := &AddressExtractor{log: log}
	e.chain = []strategy[*model.Address]{
		{name: model.StrategyGoogleMaps, conf: model.ConfidenceHigh, try: e.fromGoogleMapsLink},
		{name: model.StrategySchemaOrg, conf: model.ConfidenceHigh, try: e.fromSchemaOrg},
		{name: model.StrategyMicrodata, conf: model.ConfidenceHigh, try: e.fromMicrodata},
		{name: model.StrategyContactPage, conf: model.ConfidenceMedium, try: e.fromContactPage},
		{name: model.StrategyFooter, conf: model.ConfidenceMedium, try: e.fromFooter},
		{name: model.StrategyHeader, conf: model.ConfidenceLow, try: e.fromHeader},
	}
	return e
}

// Extract runs the address fallback chain against the homepage.
func (e *AddressExtractor) Extract(ctx context.Context, pa browser.PageAccessor) model.Result[*model.Address] {
	doc, err := homepageDoc(ctx, pa)
	if err != nil {
		return model.Miss[*model.Address]("failed to load homepage: " + err.Error())
	}

	result := runChain(ctx, pa, doc, e.chain, e.log, "no valid address found")
	if result.Success() {
		result.Value.Source = result.Strategy
		result.Value.Confidence = result.Confidence
	}
	return result
}

// fromGoogleMapsLink finds a Maps link on the page and records it for
// evidence, but scraping the Maps listing itself is not built; the strategy
// always falls through to the next one.
func (e *AddressExtractor) fromGoogleMapsLink(_ context.Context, _ browser.PageAccessor, doc *goquery.Document) (*model.Address, string, bool) {
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if patterns.GoogleMaps.MatchString(href) {
			e.log.Debug("google maps link found", zap.String("href", href))
			return false
		}
		return true
	})
	return nil, "", false
}

// schemaTypes are the Schema.org @type values that carry a business address.
var schemaTypes = map[string]bool{
	"LocalBusiness":      true,
	"Organization":       true,
	"AutomotiveBusiness": true,
	"AutoDealer":         true,
}

type schemaAddress struct {
	StreetAddress   string `json:"streetAddress"`
	AddressLocality string `json:"addressLocality"`
	AddressRegion   string `json:"addressRegion"`
	PostalCode      string `json:"postalCode"`
}

type schemaBusiness struct {
	Type    string          `json:"@type"`
	Address json.RawMessage `json:"address"`
}

func (e *AddressExtractor) fromSchemaOrg(_ context.Context, pa browser.PageAccessor, doc *goquery.Document) (*model.Address, string, bool) {
	var found *model.Address

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return true
		}

		// Blocks hold either a single object or an array.
		var items []schemaBusiness
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			var single schemaBusiness
			if err := json.Unmarshal([]byte(raw), &single); err != nil {
				// Malformed JSON-LD is a failed strategy, not a fault.
				e.log.Debug("malformed json-ld block skipped", zap.Error(err))
				return true
			}
			items = []schemaBusiness{single}
		}

		for _, item := range items {
			if !schemaTypes[item.Type] || len(item.Address) == 0 {
				continue
			}
			var addr schemaAddress
			if err := json.Unmarshal(item.Address, &addr); err != nil {
				continue
			}
			if candidate := buildAddress(addr.StreetAddress, addr.AddressLocality, addr.AddressRegion, addr.PostalCode); candidate != nil {
				found = candidate
				return false
			}
		}
		return true
	})

	if found == nil {
		return nil, "", false
	}
	return found, pa.BaseURL(), true
}

func (e *AddressExtractor) fromMicrodata(_ context.Context, pa browser.PageAccessor, doc *goquery.Document) (*model.Address, string, bool) {
	itemprop := func(name string) string {
		return strings.TrimSpace(doc.Find(`[itemprop="` + name + `"]`).First().Text())
	}

	street := itemprop("streetAddress")
	city := itemprop("addressLocality")
	if street == "" || city == "" {
		return nil, "", false
	}

	candidate := buildAddress(street, city, itemprop("addressRegion"), itemprop("postalCode"))
	if candidate == nil {
		return nil, "", false
	}
	return candidate, pa.BaseURL(), true
}

func (e *AddressExtractor) fromContactPage(ctx context.Context, pa browser.PageAccessor, _ *goquery.Document) (*model.Address, string, bool) {
	for _, path := range contactPaths {
		contactURL := candidateURL(pa.BaseURL(), path)
		page, err := pa.Navigate(ctx, contactURL)
		if err != nil {
			continue
		}
		if candidate := parseAddressFromText(page.HTML); candidate != nil {
			return candidate, contactURL, true
		}
	}
	return nil, "", false
}

func (e *AddressExtractor) fromFooter(_ context.Context, pa browser.PageAccessor, doc *goquery.Document) (*model.Address, string, bool) {
	footer := findFooter(doc)
	if footer == nil {
		return nil, "", false
	}
	if candidate := parseAddressFromText(outerHTML(footer)); candidate != nil {
		return candidate, pa.BaseURL(), true
	}
	return nil, "", false
}

func (e *AddressExtractor) fromHeader(_ context.Context, pa browser.PageAccessor, doc *goquery.Document) (*model.Address, string, bool) {
	header := findHeader(doc)
	if header == nil {
		return nil, "", false
	}
	if candidate := parseAddressFromText(outerHTML(header)); candidate != nil {
		return candidate, pa.BaseURL(), true
	}
	return nil, "", false
}

// parseAddressFromText pulls address components out of free text with the
// street/state/zip regexes. The city is recovered as the text between the
// street match and the state code.
func parseAddressFromText(text string) *model.Address {
	street := patterns.StreetRe.FindString(text)
	if street == "" {
		return nil
	}

	state := ""
	if m := patterns.StateRe.FindString(text); m != "" {
		state = m
	}

	zip := ""
	if m := patterns.ZipRe.FindString(text); m != "" {
		zip = m
	}

	city := ""
	if state != "" {
		if before, _, ok := strings.Cut(text, state); ok {
			if _, after, ok := strings.Cut(before, street); ok {
				city = strings.Trim(patterns.CleanWhitespace(after), " ,")
			}
		}
	}

	return buildAddress(street, city, state, zip)
}

// buildAddress validates all four components and assembles the Address.
// Any component failing validation discards the whole candidate.
func buildAddress(street, city, state, zip string) *model.Address {
	street = strings.TrimSpace(street)
	city = strings.TrimSpace(city)
	state = strings.ToUpper(strings.TrimSpace(state))
	zip = strings.TrimSpace(zip)

	if !patterns.ValidAddress(street, city, state, zip) {
		return nil
	}

	return &model.Address{
		Street:      street,
		City:        city,
		State:       state,
		Zip:         zip,
		FullAddress: street + ", " + city + ", " + state + " " + zip,
	}
}
