// Package geocode wraps the U.S. Census Bureau geocoder "Find Geographies"
// service, the source of truth for county lookups.
package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL  = "https://geocoding.geo.census.gov/geocoder"
	censusBenchmark = "Public_AR_Current"
	censusVintage   = "Current_Current"
)

// CountyResult is a successful county lookup.
type CountyResult struct {
	Name       string // as returned, e.g. "Cook County"
	StateFIPS  string
	CountyFIPS string
	Latitude   float64
	Longitude  float64
	Matched    bool
}

// Client calls the Census geographies endpoints. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the geocoder base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Census geocoder client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// censusResponse covers both geographies endpoints: onelineaddress nests
// the geographies under addressMatches, coordinates returns them directly.
type censusResponse struct {
	Result struct {
		AddressMatches []struct {
			Geographies censusGeographies `json:"geographies"`
			Coordinates struct {
				X float64 `json:"x"`
				Y float64 `json:"y"`
			} `json:"coordinates"`
		} `json:"addressMatches"`
		Geographies censusGeographies `json:"geographies"`
	} `json:"result"`
}

type censusGeographies struct {
	Counties []struct {
		Name   string `json:"NAME"`
		State  string `json:"STATE"`
		County string `json:"COUNTY"`
	} `json:"Counties"`
}

// CountyByAddress looks up the county containing a street address.
// A well-formed response with no match returns Matched=false, not an error.
func (c *Client) CountyByAddress(ctx context.Context, street, city, state, zip string) (*CountyResult, error) {
	parts := make([]string, 0, 4)
	for _, p := range []string{street, city, state, zip} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	params := url.Values{
		"address":   {strings.Join(parts, ", ")},
		"benchmark": {censusBenchmark},
		"vintage":   {censusVintage},
		"format":    {"json"},
	}
	return c.lookup(ctx, c.baseURL+"/geographies/onelineaddress?"+params.Encode())
}

// CountyByCoordinates looks up the county containing a lat/lon point.
func (c *Client) CountyByCoordinates(ctx context.Context, lat, lon float64) (*CountyResult, error) {
	params := url.Values{
		"x":         {strconv.FormatFloat(lon, 'f', -1, 64)},
		"y":         {strconv.FormatFloat(lat, 'f', -1, 64)},
		"benchmark": {censusBenchmark},
		"vintage":   {censusVintage},
		"format":    {"json"},
	}
	return c.lookup(ctx, c.baseURL+"/geographies/coordinates?"+params.Encode())
}

func (c *Client) lookup(ctx context.Context, reqURL string) (*CountyResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: census returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: read body")
	}

	var parsed censusResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, eris.Wrap(err, "geocode: parse response")
	}

	geos := parsed.Result.Geographies
	var lat, lon float64
	if len(parsed.Result.AddressMatches) > 0 {
		match := parsed.Result.AddressMatches[0]
		geos = match.Geographies
		lat = match.Coordinates.Y
		lon = match.Coordinates.X
	}

	if len(geos.Counties) == 0 {
		return &CountyResult{Matched: false}, nil
	}

	county := geos.Counties[0]
	return &CountyResult{
		Name:       county.Name,
		StateFIPS:  county.State,
		CountyFIPS: county.County,
		Latitude:   lat,
		Longitude:  lon,
		Matched:    county.Name != "",
	}, nil
}
