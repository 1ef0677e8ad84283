// Package report renders dealer records into the Markdown output file, one
// fenced block per dealership with an evidence citation list.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/sells-group/dealer-scout/internal/model"
)

// TemplateBuilder renders one dealer block. The line order inside the fenced
// block is fixed; fields with no value render the literal "Unsure" or stay
// empty, never disappear.
type TemplateBuilder struct {
	location *time.Location
	tzName   string
	now      func() time.Time
}

// NewTemplateBuilder creates a builder rendering timestamps in the given IANA
// timezone, falling back to UTC when it cannot be loaded.
func NewTemplateBuilder(timezone string) *TemplateBuilder {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
		timezone = "UTC"
	}
	return &TemplateBuilder{location: loc, tzName: timezone, now: time.Now}
}

// DealerBlock renders a complete fenced markdown block for one dealership.
func (b *TemplateBuilder) DealerBlock(dealer *model.DealerData) string {
	var lines []string

	name := dealer.Name
	if name == "" {
		name = "Unsure"
	}
	lines = append(lines, name)

	if dealer.Address != nil && dealer.Address.FullAddress != "" {
		lines = append(lines, dealer.Address.FullAddress)
	} else {
		lines = append(lines, "Unsure")
	}

	lines = append(lines, "County: "+countyName(dealer.County))

	if dealer.Phone != nil && dealer.Phone.Pretty != "" && dealer.Phone.Digits != "" {
		lines = append(lines,
			"Phone: "+dealer.Phone.Pretty,
			"Phone (no dashes): "+dealer.Phone.Digits,
		)
	} else {
		lines = append(lines,
			"Phone: Unsure",
			"Phone (no dashes): Unsure",
		)
	}

	lines = append(lines, "Website: "+dealer.Website)

	provider := "Unsure"
	if dealer.WebsiteProvider != nil && dealer.WebsiteProvider.DisplayName != "" {
		provider = dealer.WebsiteProvider.DisplayName
	}
	lines = append(lines, "Provider: "+provider, "")

	var sales, service, parts *model.Hours
	if dealer.Hours != nil {
		sales, service, parts = dealer.Hours.Sales, dealer.Hours.Service, dealer.Hours.Parts
	}
	lines = append(lines, hoursSection("Sales Hours", sales)...)
	lines = append(lines, hoursSection("Service Hours", service)...)
	lines = append(lines, hoursSection("Parts Hours", parts)...)

	serviceURL := "Unsure"
	creditURL := "Unsure"
	facebookURL := ""
	if dealer.URLs != nil {
		if dealer.URLs.ServiceScheduler != "" {
			serviceURL = dealer.URLs.ServiceScheduler
		}
		if dealer.URLs.CreditApp != "" {
			creditURL = dealer.URLs.CreditApp
		}
		facebookURL = dealer.URLs.Facebook
	}
	lines = append(lines, "Schedule Service: "+serviceURL)
	lines = append(lines, "Credit App: "+creditURL)

	embedded := ""
	if dealer.CreditAppProvider != nil {
		embedded = dealer.CreditAppProvider.DisplayName
	}
	lines = append(lines, strings.TrimRight("  • Embedded provider (if any): "+embedded, " "))

	// The page-id label stays bare; the derived id lives on the model for
	// downstream consumers, not in the report.
	lines = append(lines, "Facebook: "+facebookURL)
	lines = append(lines, "Facebook Page ID:")

	lines = append(lines, "", "Evidence")
	lines = append(lines, b.evidenceLines(dealer)...)

	return "```markdown\n" + strings.Join(lines, "\n") + "\n```"
}

// RunHeader renders the header line written at the top of a fresh output file.
func (b *TemplateBuilder) RunHeader() string {
	return fmt.Sprintf("# Dealership Data + URL Discovery — Run started at %s\n\n", b.timestamp())
}

func countyName(county *model.County) string {
	if county == nil {
		return "Unsure"
	}
	if county.FullName != "" {
		return county.FullName
	}
	if county.Name != "" {
		return county.Name
	}
	return "Unsure"
}

func hoursSection(title string, hours *model.Hours) []string {
	lines := []string{title}
	for _, day := range model.Weekdays {
		value := "Closed"
		if hours != nil {
			value = hours.Day(day)
		}
		lines = append(lines, day+": "+value)
	}
	return append(lines, "")
}

// evidenceLines renders one bullet per populated evidence field in fixed
// order, ending with the capture timestamp.
func (b *TemplateBuilder) evidenceLines(dealer *model.DealerData) []string {
	ev := dealer.Evidence
	if ev == nil {
		return []string{"- No evidence collected"}
	}

	var lines []string
	add := func(label, value string) {
		if value != "" {
			lines = append(lines, "- "+label+": "+value)
		}
	}

	add("Google Maps (address)", ev.GoogleMapsAddress)
	add("County verification", ev.CountyVerification)
	add("Dealer homepage (header phone)", ev.HomepagePhone)
	add("Dealer hours page (hours)", ev.HoursPage)
	add("Service verified on", ev.ServiceVerifiedOn)
	add("Credit app verified on", ev.CreditAppVerified)
	add("Credit app embedded provider evidence", ev.CreditAppEmbedded)

	if ev.FacebookStart != "" && ev.FacebookFinal != "" {
		lines = append(lines, "- Facebook start: "+ev.FacebookStart+" → final FB: "+ev.FacebookFinal)
	} else if ev.FacebookFinal != "" {
		lines = append(lines, "- Facebook: "+ev.FacebookFinal)
	}

	add("Provider verification", ev.ProviderVerified)

	timestamp := ev.CapturedTimestamp
	if timestamp == "" {
		timestamp = b.timestamp()
	}
	lines = append(lines, "- Captured: "+timestamp)

	for _, note := range ev.Notes {
		lines = append(lines, "- Note: "+note)
	}
	return lines
}

// Timestamp renders the current time the way evidence bullets cite it.
func (b *TemplateBuilder) Timestamp() string {
	return b.timestamp()
}

func (b *TemplateBuilder) timestamp() string {
	return b.now().In(b.location).Format("2006-01-02 15:04") + " (" + b.tzName + ")"
}
