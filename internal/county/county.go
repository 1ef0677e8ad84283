// Package county resolves an address to its jurisdiction name through the
// Census geocoder, with an address-then-coordinates fallback chain.
package county

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/dealer-scout/internal/model"
	"github.com/sells-group/dealer-scout/pkg/geocode"
)

// Geocoder is the slice of the Census client the service needs.
type Geocoder interface {
	CountyByAddress(ctx context.Context, street, city, state, zip string) (*geocode.CountyResult, error)
	CountyByCoordinates(ctx context.Context, lat, lon float64) (*geocode.CountyResult, error)
}

// Service looks up counties with a two-tier fallback: by address string,
// then by coordinates. A total failure yields an explicit "Unsure" county,
// never an absent one.
type Service struct {
	geocoder Geocoder
	log      *zap.Logger
}

// NewService creates a county lookup service.
func NewService(geocoder Geocoder, log *zap.Logger) *Service {
	return &Service{geocoder: geocoder, log: log}
}

// LookupRequest carries the inputs for a county lookup. Coordinates are
// optional and only used when the address lookup fails.
type LookupRequest struct {
	Street    string
	City      string
	State     string
	Zip       string
	Latitude  float64
	Longitude float64
}

// Lookup resolves the county for a request. Geocoder failures degrade to
// the Unsure county rather than propagating.
func (s *Service) Lookup(ctx context.Context, req LookupRequest) *model.County {
	if req.Street != "" && req.City != "" && req.State != "" {
		result, err := s.geocoder.CountyByAddress(ctx, req.Street, req.City, req.State, req.Zip)
		if err != nil {
			s.log.Warn("county lookup by address failed", zap.Error(err))
		} else if result.Matched {
			return s.build(result, req.State)
		}
	}

	if req.Latitude != 0 && req.Longitude != 0 {
		result, err := s.geocoder.CountyByCoordinates(ctx, req.Latitude, req.Longitude)
		if err != nil {
			s.log.Warn("county lookup by coordinates failed", zap.Error(err))
		} else if result.Matched {
			return s.build(result, req.State)
		}
	}

	return &model.County{
		FullName:   "Unsure",
		Source:     "Census lookup failed",
		Confidence: model.ConfidenceUnsure,
	}
}

func (s *Service) build(result *geocode.CountyResult, state string) *model.County {
	name := StripSuffix(result.Name)
	label := Suffix(name, state)

	return &model.County{
		Name:            name,
		Label:           label,
		FullName:        name + " " + label,
		Source:          "Census Bureau Geocoder",
		VerificationURL: verificationURL(result),
		Confidence:      model.ConfidenceHigh,
	}
}

// StripSuffix removes any " County"/" Parish"/" Borough" suffix the
// geocoder returned, so the canonical suffix is always re-derived from
// state rules rather than trusted from upstream.
func StripSuffix(name string) string {
	for _, suffix := range []string{" County", " Parish", " Borough"} {
		name = strings.ReplaceAll(name, suffix, "")
	}
	return strings.TrimSpace(name)
}

// Suffix derives the jurisdiction label from the state code alone, plus
// the fixed Virginia independent-city set. Never derived from free text.
func Suffix(name, state string) string {
	switch strings.ToUpper(state) {
	case "LA":
		return "Parish"
	case "AK":
		return "Borough"
	case "VA":
		if vaIndependentCities[name] {
			return "Independent City"
		}
	}
	return "County"
}

// vaIndependentCities are Virginia's independent cities, which are not part
// of any county.
var vaIndependentCities = map[string]bool{
	"Alexandria": true, "Bristol": true, "Buena Vista": true,
	"Charlottesville": true, "Chesapeake": true, "Colonial Heights": true,
	"Covington": true, "Danville": true, "Emporia": true, "Fairfax": true,
	"Falls Church": true, "Franklin": true, "Fredericksburg": true,
	"Galax": true, "Hampton": true, "Harrisonburg": true, "Hopewell": true,
	"Lexington": true, "Lynchburg": true, "Manassas": true,
	"Manassas Park": true, "Martinsville": true, "Newport News": true,
	"Norfolk": true, "Norton": true, "Petersburg": true, "Poquoson": true,
	"Portsmouth": true, "Radford": true, "Richmond": true, "Roanoke": true,
	"Salem": true, "Staunton": true, "Suffolk": true, "Virginia Beach": true,
	"Waynesboro": true, "Williamsburg": true, "Winchester": true,
}

func verificationURL(result *geocode.CountyResult) string {
	if result.StateFIPS != "" && result.CountyFIPS != "" {
		return "https://www.census.gov/quickfacts/fact/table/" + result.StateFIPS + result.CountyFIPS
	}
	return geocode.DefaultBaseURL
}
