package model

// Strategy names the fallback step that produced an extracted value.
type Strategy string

const (
	StrategyGoogleMaps  Strategy = "google_maps"
	StrategySchemaOrg   Strategy = "schema_org"
	StrategyMicrodata   Strategy = "microdata"
	StrategyContactPage Strategy = "contact_page"
	StrategyFooter      Strategy = "footer"
	StrategyHeader      Strategy = "header"
	StrategyHoursPage   Strategy = "hours_page"
	StrategyMetaTags    Strategy = "meta_tags"
	StrategyDomainClue  Strategy = "domain"
	StrategyIframe      Strategy = "iframe"
	StrategyScriptSrc   Strategy = "script_src"
	StrategyPageSource  Strategy = "page_source"
	StrategyLinkScan    Strategy = "link_scan"
	StrategyPathProbe   Strategy = "path_probe"
	StrategyNone        Strategy = "none"
)

// Result is the shared contract every extractor returns. Value carries the
// extracted data when Success; Evidence points at where it was found (a URL
// or locator); Err holds the diagnostic for a terminal miss.
type Result[T any] struct {
	Value      T
	Found      bool
	Confidence Confidence
	Strategy   Strategy
	Evidence   string
	Err        string
}

// Success reports whether the extraction produced a usable value.
// By contract this is true exactly when a value is present and the
// confidence is not UNSURE.
func (r Result[T]) Success() bool {
	return r.Found && r.Confidence != ConfidenceUnsure
}

// Hit builds a successful result.
func Hit[T any](value T, conf Confidence, strat Strategy, evidence string) Result[T] {
	return Result[T]{
		Value:      value,
		Found:      true,
		Confidence: conf,
		Strategy:   strat,
		Evidence:   evidence,
	}
}

// Miss builds a terminal UNSURE result carrying a diagnostic. Extractors
// return this instead of an error when every strategy fails.
func Miss[T any](reason string) Result[T] {
	return Result[T]{
		Confidence: ConfidenceUnsure,
		Strategy:   StrategyNone,
		Err:        reason,
	}
}
