package extract

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/dealer-scout/internal/browser"
	"github.com/sells-group/dealer-scout/internal/model"
	"github.com/sells-group/dealer-scout/internal/normalize"
	"github.com/sells-group/dealer-scout/internal/patterns"
)

// hoursPagePaths are the candidate pages tried before falling back to the
// homepage. The first page whose HTML mentions "hours" or "open" wins.
var hoursPagePaths = []string{"/hours", "/contact", "/about"}

// departmentKeywords pair each dealership department with the heading words
// that identify its hours section.
var departmentKeywords = map[string][]string{
	"sales":   {"sales", "showroom"},
	"service": {"service", "repair"},
	"parts":   {"parts", "accessories"},
}

// maxSectionChars caps how much sibling text is read after a matched heading.
const maxSectionChars = 1000

// HoursExtractor resolves per-department operating hours. Department-specific
// sections score MEDIUM; when none exist, a single general-hours parse is
// copied into all three departments at LOW.
type HoursExtractor struct {
	log *zap.Logger
}

// NewHoursExtractor creates an hours extractor.
func NewHoursExtractor(log *zap.Logger) *HoursExtractor {
	return &HoursExtractor{log: log}
}

// Extract finds an hours-bearing page and parses department sections from it.
func (e *HoursExtractor) Extract(ctx context.Context, pa browser.PageAccessor) model.Result[*model.DepartmentHours] {
	page, doc := e.findHoursPage(ctx, pa)
	if page == nil {
		return model.Miss[*model.DepartmentHours]("no page mentioning hours found")
	}

	general, generalOK := e.generalHours(doc, page.URL)

	dept := &model.DepartmentHours{}
	anyDept := false
	for name, keywords := range departmentKeywords {
		section := e.departmentSection(doc, keywords)
		if section == "" {
			continue
		}
		parsed, ok := parseHoursText(section)
		if !ok {
			continue
		}
		parsed.SourceURL = page.URL
		parsed.Confidence = model.ConfidenceMedium
		merged := normalize.MergeHours(general, parsed)
		setDepartment(dept, name, &merged)
		anyDept = true
	}

	conf := model.ConfidenceMedium
	if !anyDept {
		if !generalOK {
			return model.Miss[*model.DepartmentHours]("hours page found but no parseable schedule")
		}
		conf = model.ConfidenceLow
		general.Confidence = conf
	}

	// Departments without their own section inherit the general hours.
	for _, name := range []string{"sales", "service", "parts"} {
		if getDepartment(dept, name) == nil {
			copied := general
			setDepartment(dept, name, &copied)
		}
	}

	return model.Hit(dept, conf, model.StrategyHoursPage, page.URL)
}

// findHoursPage tries the dedicated paths then the homepage, accepting the
// first page whose HTML contains "hours" or "open".
func (e *HoursExtractor) findHoursPage(ctx context.Context, pa browser.PageAccessor) (*browser.Page, *goquery.Document) {
	candidates := make([]string, 0, len(hoursPagePaths)+1)
	for _, path := range hoursPagePaths {
		candidates = append(candidates, candidateURL(pa.BaseURL(), path))
	}
	candidates = append(candidates, pa.BaseURL())

	for _, target := range candidates {
		page, err := pa.Navigate(ctx, target)
		if err != nil {
			e.log.Debug("hours candidate page failed", zap.String("url", target), zap.Error(err))
			continue
		}
		lower := strings.ToLower(page.HTML)
		if !strings.Contains(lower, "hours") && !strings.Contains(lower, "open") {
			continue
		}
		doc, err := parseHTML(page.HTML)
		if err != nil {
			continue
		}
		return page, doc
	}
	return nil, nil
}

// departmentSection finds a heading matching the department keywords plus the
// word "hour", and returns the text that follows it.
func (e *HoursExtractor) departmentSection(doc *goquery.Document, keywords []string) string {
	var section string
	doc.Find("h1,h2,h3,h4,h5,h6,strong,b,th,dt").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := patterns.CleanWhitespace(s.Text())
		if len(text) == 0 || len(text) > 80 {
			return true
		}
		lower := strings.ToLower(text)
		if !strings.Contains(lower, "hour") {
			return true
		}
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				section = headingSectionText(s)
				return section == ""
			}
		}
		return true
	})
	return section
}

// generalHours parses a generic "hours" heading section, falling back to the
// whole page text when no heading carries a schedule.
func (e *HoursExtractor) generalHours(doc *goquery.Document, pageURL string) (model.Hours, bool) {
	var section string
	doc.Find("h1,h2,h3,h4,h5,h6,strong,b,th,dt").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := patterns.CleanWhitespace(s.Text())
		if len(text) == 0 || len(text) > 80 {
			return true
		}
		if !strings.Contains(strings.ToLower(text), "hour") {
			return true
		}
		if candidate := headingSectionText(s); candidate != "" {
			if _, ok := parseHoursText(candidate); ok {
				section = candidate
				return false
			}
		}
		return true
	})

	if section == "" {
		section = doc.Text()
	}

	parsed, ok := parseHoursText(section)
	if !ok {
		return normalize.EmptyHours(), false
	}
	parsed.SourceURL = pageURL
	parsed.Confidence = model.ConfidenceLow
	return parsed, true
}

// headingSectionText gathers the sibling text after a heading, capped, or the
// parent's text when the heading has no following siblings. Accumulation
// stops at the next hours heading so one department's section never bleeds
// into another's.
func headingSectionText(heading *goquery.Selection) string {
	var b strings.Builder
	heading.NextAll().EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Is("h1,h2,h3,h4,h5,h6,strong,b,th,dt") &&
			strings.Contains(strings.ToLower(s.Text()), "hour") {
			return false
		}
		b.WriteString(s.Text())
		b.WriteString("\n")
		return b.Len() < maxSectionChars
	})
	text := strings.TrimSpace(b.String())
	if text == "" {
		text = strings.TrimSpace(heading.Parent().Text())
	}
	if len(text) > maxSectionChars {
		text = text[:maxSectionChars]
	}
	return text
}

// parseHoursText parses day-name + time-range lines into an Hours value.
// Day-range tokens ("Mon-Fri") expand to every weekday they span. The second
// return reports whether at least one day was assigned.
func parseHoursText(text string) (model.Hours, bool) {
	h := normalize.EmptyHours()
	assigned := false

	for _, line := range strings.Split(text, "\n") {
		line = patterns.CleanWhitespace(line)
		if line == "" {
			continue
		}

		var days []string
		rest := line
		if m := patterns.DayRangeRe.FindStringSubmatchIndex(line); m != nil {
			start := patterns.NormalizeDayName(line[m[2]:m[3]])
			end := patterns.NormalizeDayName(line[m[4]:m[5]])
			days = normalize.ExpandDayRange(start, end)
			rest = line[m[1]:]
		} else if m := patterns.DayRe.FindStringSubmatchIndex(line); m != nil {
			days = []string{patterns.NormalizeDayName(line[m[2]:m[3]])}
			rest = line[m[1]:]
		}
		if len(days) == 0 {
			continue
		}

		value := rangeValue(rest)
		if value == "" {
			continue
		}
		for _, day := range days {
			h.SetDay(day, value)
		}
		assigned = true
	}

	return h, assigned
}

// rangeValue extracts and normalizes the time-range portion of a line, or
// returns "" when the line carries no recognizable range.
func rangeValue(text string) string {
	if m := patterns.HoursRangeRe.FindStringSubmatch(text); m != nil {
		return prettyTime(m[1], m[2], m[3]) + " – " + prettyTime(m[4], m[5], m[6])
	}
	if patterns.Open24Re.MatchString(text) {
		return "Open 24 hours"
	}
	if patterns.ClosedRe.MatchString(text) {
		return "Closed"
	}
	return ""
}

// prettyTime renders an hour/minute/meridiem capture as "H:MM AM".
func prettyTime(hour, minute, meridiem string) string {
	if minute == "" {
		minute = "00"
	}
	return hour + ":" + minute + " " + strings.ToUpper(meridiem)
}

func setDepartment(d *model.DepartmentHours, name string, h *model.Hours) {
	switch name {
	case "sales":
		d.Sales = h
	case "service":
		d.Service = h
	case "parts":
		d.Parts = h
	}
}

func getDepartment(d *model.DepartmentHours, name string) *model.Hours {
	switch name {
	case "sales":
		return d.Sales
	case "service":
		return d.Service
	case "parts":
		return d.Parts
	}
	return nil
}
