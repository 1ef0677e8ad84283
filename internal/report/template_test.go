package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/dealer-scout/internal/model"
)

func fixedTemplate() *TemplateBuilder {
	b := NewTemplateBuilder("UTC")
	b.now = func() time.Time {
		return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	}
	return b
}

func sampleDealer() *model.DealerData {
	return &model.DealerData{
		Name:    "Acme Motors",
		Website: "https://www.acmemotors.com/",
		Address: &model.Address{
			Street: "123 Main St", City: "Chicago", State: "IL", Zip: "60601",
			FullAddress: "123 Main St, Chicago, IL 60601",
		},
		County: &model.County{FullName: "Cook County"},
		Phone:  &model.Phone{Pretty: "(312) 555-0147", Digits: "3125550147"},
		Hours: &model.DepartmentHours{
			Sales: &model.Hours{
				Monday: "9:00 AM – 6:00 PM", Tuesday: "9:00 AM – 6:00 PM",
				Wednesday: "9:00 AM – 6:00 PM", Thursday: "9:00 AM – 6:00 PM",
				Friday: "9:00 AM – 6:00 PM", Saturday: "10:00 AM – 4:00 PM",
				Sunday: "Closed",
			},
		},
		URLs: &model.URLDiscovery{
			ServiceScheduler: "https://www.acmemotors.com/schedule-service",
			CreditApp:        "https://www.acmemotors.com/finance/apply",
			Facebook:         "https://www.facebook.com/AcmeMotors",
			FacebookPageID:   "AcmeMotors",
		},
		WebsiteProvider:   &model.WebsiteProvider{DisplayName: "Dealer.com"},
		CreditAppProvider: &model.CreditAppProvider{DisplayName: "RouteOne"},
		Evidence: &model.Evidence{
			CountyVerification: "https://www.census.gov/quickfacts/fact/table/17031",
			HomepagePhone:      "https://www.acmemotors.com/",
			CapturedTimestamp:  "2024-03-15 10:30 (UTC)",
		},
	}
}

func TestDealerBlock(t *testing.T) {
	t.Parallel()

	block := fixedTemplate().DealerBlock(sampleDealer())
	lines := strings.Split(block, "\n")

	t.Run("wrapped in fenced markdown block", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "```markdown", lines[0])
		assert.Equal(t, "```", lines[len(lines)-1])
	})

	t.Run("fixed header line order", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Acme Motors", lines[1])
		assert.Equal(t, "123 Main St, Chicago, IL 60601", lines[2])
		assert.Equal(t, "County: Cook County", lines[3])
		assert.Equal(t, "Phone: (312) 555-0147", lines[4])
		assert.Equal(t, "Phone (no dashes): 3125550147", lines[5])
		assert.Equal(t, "Website: https://www.acmemotors.com/", lines[6])
		assert.Equal(t, "Provider: Dealer.com", lines[7])
		assert.Equal(t, "", lines[8])
	})

	t.Run("three hours sections with seven days each", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, block, "Sales Hours\nMonday: 9:00 AM – 6:00 PM")
		assert.Contains(t, block, "Service Hours\nMonday: Closed")
		assert.Contains(t, block, "Parts Hours\nMonday: Closed")
		assert.Contains(t, block, "Saturday: 10:00 AM – 4:00 PM")
	})

	t.Run("url and evidence lines", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, block, "Schedule Service: https://www.acmemotors.com/schedule-service")
		assert.Contains(t, block, "Credit App: https://www.acmemotors.com/finance/apply")
		assert.Contains(t, block, "  • Embedded provider (if any): RouteOne")
		assert.Contains(t, block, "Facebook: https://www.facebook.com/AcmeMotors")
		assert.Contains(t, block, "Facebook Page ID:\n", "label stays bare even with a derived page id")
		assert.NotContains(t, block, "Facebook Page ID: AcmeMotors")
		assert.Contains(t, block, "Evidence")
		assert.Contains(t, block, "- County verification: https://www.census.gov/quickfacts/fact/table/17031")
		assert.Contains(t, block, "- Captured: 2024-03-15 10:30 (UTC)")
	})
}

func TestDealerBlockMissingFields(t *testing.T) {
	t.Parallel()

	block := fixedTemplate().DealerBlock(&model.DealerData{Website: "https://bare.com/"})

	assert.Contains(t, block, "Unsure\nUnsure\nCounty: Unsure")
	assert.Contains(t, block, "Phone: Unsure\nPhone (no dashes): Unsure")
	assert.Contains(t, block, "Provider: Unsure")
	assert.Contains(t, block, "Schedule Service: Unsure")
	assert.Contains(t, block, "Credit App: Unsure")
	assert.Contains(t, block, "  • Embedded provider (if any):\n")
	assert.Contains(t, block, "- No evidence collected")

	// All 21 weekday lines default to Closed.
	assert.Equal(t, 21, strings.Count(block, ": Closed"))
}

func TestRunHeader(t *testing.T) {
	t.Parallel()

	header := fixedTemplate().RunHeader()
	assert.Equal(t, "# Dealership Data + URL Discovery — Run started at 2024-03-15 10:30 (UTC)\n\n", header)
}

func TestTemplateUnknownTimezoneFallsBackToUTC(t *testing.T) {
	t.Parallel()

	b := NewTemplateBuilder("Not/AZone")
	require.NotNil(t, b)
	assert.Contains(t, b.Timestamp(), "(UTC)")
}
