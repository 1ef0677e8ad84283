package model

import "time"

// Address is a validated street address. All four components passed
// validation or the address was discarded; it is never partially valid.
type Address struct {
	Street      string     `json:"street"`
	City        string     `json:"city"`
	State       string     `json:"state"`
	Zip         string     `json:"zip"`
	FullAddress string     `json:"full_address"`
	Source      Strategy   `json:"source,omitempty"`
	Confidence  Confidence `json:"confidence"`
	MapsURL     string     `json:"google_maps_url,omitempty"`
}

// County is a jurisdiction lookup result. FullName is always printable:
// a failed lookup yields FullName "Unsure" at UNSURE confidence, never an
// absent county.
type County struct {
	Name            string     `json:"name,omitempty"`
	Label           string     `json:"label,omitempty"`
	FullName        string     `json:"full_name"`
	Source          string     `json:"source,omitempty"`
	VerificationURL string     `json:"verification_url,omitempty"`
	Confidence      Confidence `json:"confidence"`
}

// Phone carries a number in both output forms. Pretty and Digits are both
// set or both empty, never one without the other.
type Phone struct {
	Raw        string     `json:"raw,omitempty"`
	Pretty     string     `json:"pretty,omitempty"`
	Digits     string     `json:"digits,omitempty"`
	Source     Strategy   `json:"source,omitempty"`
	Confidence Confidence `json:"confidence"`
}

// Hours holds one normalized range per weekday. Every field is always
// populated; a missing day is "Closed".
type Hours struct {
	Monday    string `json:"monday"`
	Tuesday   string `json:"tuesday"`
	Wednesday string `json:"wednesday"`
	Thursday  string `json:"thursday"`
	Friday    string `json:"friday"`
	Saturday  string `json:"saturday"`
	Sunday    string `json:"sunday"`

	SourceURL  string     `json:"source_url,omitempty"`
	Confidence Confidence `json:"confidence"`
}

// Weekdays is the canonical Monday-first day order used everywhere hours
// are rendered or merged.
var Weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Day returns the range for a canonical weekday name, or "Closed".
func (h Hours) Day(name string) string {
	var v string
	switch name {
	case "Monday":
		v = h.Monday
	case "Tuesday":
		v = h.Tuesday
	case "Wednesday":
		v = h.Wednesday
	case "Thursday":
		v = h.Thursday
	case "Friday":
		v = h.Friday
	case "Saturday":
		v = h.Saturday
	case "Sunday":
		v = h.Sunday
	}
	if v == "" {
		return "Closed"
	}
	return v
}

// SetDay assigns the range for a canonical weekday name.
func (h *Hours) SetDay(name, value string) {
	switch name {
	case "Monday":
		h.Monday = value
	case "Tuesday":
		h.Tuesday = value
	case "Wednesday":
		h.Wednesday = value
	case "Thursday":
		h.Thursday = value
	case "Friday":
		h.Friday = value
	case "Saturday":
		h.Saturday = value
	case "Sunday":
		h.Sunday = value
	}
}

// DepartmentHours groups hours per dealership department. When no
// department-specific hours exist, the general-hours result is copied into
// all three.
type DepartmentHours struct {
	Sales   *Hours `json:"sales,omitempty"`
	Service *Hours `json:"service,omitempty"`
	Parts   *Hours `json:"parts,omitempty"`
}

// URLDiscovery holds the key URLs found on a dealership site, each paired
// with where it was found. For Facebook the source is the link chain
// "start → final".
type URLDiscovery struct {
	ServiceScheduler       string `json:"service_scheduler,omitempty"`
	ServiceSchedulerSource string `json:"service_scheduler_source,omitempty"`

	CreditApp       string `json:"credit_app,omitempty"`
	CreditAppSource string `json:"credit_app_source,omitempty"`

	Facebook       string `json:"facebook,omitempty"`
	FacebookPageID string `json:"facebook_page_id,omitempty"`
	FacebookSource string `json:"facebook_source,omitempty"`
}

// WebsiteProvider identifies the platform a dealer site is built on.
type WebsiteProvider struct {
	Name            string     `json:"name,omitempty"`
	DisplayName     string     `json:"display_name,omitempty"`
	DetectionMethod string     `json:"detection_method,omitempty"`
	VerificationURL string     `json:"verification_url,omitempty"`
	Confidence      Confidence `json:"confidence"`
}

// CreditAppProvider identifies the embedded credit application vendor.
// Evidence records the literal matched src or snippet, not just a method
// label.
type CreditAppProvider struct {
	Name            string     `json:"name,omitempty"`
	DisplayName     string     `json:"display_name,omitempty"`
	DetectionMethod string     `json:"detection_method,omitempty"`
	Evidence        string     `json:"evidence,omitempty"`
	Confidence      Confidence `json:"confidence"`
}

// Evidence holds one pointer per verifiable claim in the final record.
// Every populated data field must have a corresponding non-empty entry here.
type Evidence struct {
	GoogleMapsAddress  string   `json:"google_maps_address,omitempty"`
	CountyVerification string   `json:"county_verification,omitempty"`
	HomepagePhone      string   `json:"dealer_homepage_phone,omitempty"`
	HoursPage          string   `json:"dealer_hours_page,omitempty"`
	ServiceVerifiedOn  string   `json:"service_verified_on,omitempty"`
	CreditAppVerified  string   `json:"credit_app_verified_on,omitempty"`
	CreditAppEmbedded  string   `json:"credit_app_embedded_evidence,omitempty"`
	FacebookStart      string   `json:"facebook_start,omitempty"`
	FacebookFinal      string   `json:"facebook_final,omitempty"`
	ProviderVerified   string   `json:"provider_verification,omitempty"`
	CapturedTimestamp  string   `json:"captured_timestamp,omitempty"`
	Notes              []string `json:"notes,omitempty"`
}

// DealerData is the complete record for one dealership, keyed by Website
// (the canonical input URL). Created once per successful homepage fetch,
// populated incrementally by each extractor, terminal once written and
// checkpointed.
type DealerData struct {
	Name    string `json:"name,omitempty"`
	Website string `json:"website"`

	Address *Address `json:"address,omitempty"`
	County  *County  `json:"county,omitempty"`
	Phone   *Phone   `json:"phone,omitempty"`

	Hours *DepartmentHours `json:"hours,omitempty"`
	URLs  *URLDiscovery    `json:"urls,omitempty"`

	WebsiteProvider   *WebsiteProvider   `json:"website_provider,omitempty"`
	CreditAppProvider *CreditAppProvider `json:"credit_app_provider,omitempty"`

	Evidence *Evidence `json:"evidence,omitempty"`

	ProcessedAt    time.Time `json:"processed_at,omitempty"`
	ProcessingSecs float64   `json:"processing_time_seconds,omitempty"`
	Errors         []string  `json:"errors,omitempty"`
}
