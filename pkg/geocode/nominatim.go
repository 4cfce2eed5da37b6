package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// NominatimProvider geocodes through the OSM Nominatim search endpoint.
// Nominatim's usage policy caps anonymous clients at one request per second;
// the limiter enforces that across callers.
type NominatimProvider struct {
	baseURL    string
	userAgent  string
	email      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NominatimOptions configures a NominatimProvider.
type NominatimOptions struct {
	BaseURL    string
	UserAgent  string
	Email      string  // included in requests per Nominatim etiquette
	RatePerSec float64 // default 1
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewNominatim creates a NominatimProvider.
func NewNominatim(opts NominatimOptions) *NominatimProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "dublin-geo/1.0"
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 1
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &NominatimProvider{
		baseURL:    opts.BaseURL,
		userAgent:  opts.UserAgent,
		email:      opts.Email,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(opts.RatePerSec), 1),
	}
}

// Name implements Provider.
func (p *NominatimProvider) Name() string { return "nominatim" }

// nominatimResult is one entry of the Nominatim search response. Coordinates
// arrive as strings.
type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode implements Provider. A response with no results is an unmatched
// outcome, not an error.
func (p *NominatimProvider) Geocode(ctx context.Context, address string) (*Result, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim rate limit")
	}

	params := url.Values{
		"q":      {address},
		"format": {"json"},
		"limit":  {"1"},
	}
	if p.email != "" {
		params.Set("email", p.email)
	}

	reqURL := p.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim build request")
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: nominatim returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim read body")
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim parse response")
	}
	if len(results) == 0 {
		return &Result{Matched: false, Source: "nominatim"}, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim parse latitude")
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim parse longitude")
	}

	return &Result{
		Latitude:    lat,
		Longitude:   lon,
		Matched:     true,
		DisplayName: results[0].DisplayName,
		Source:      "nominatim",
	}, nil
}
