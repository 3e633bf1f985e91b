// Package weather looks up forecasts from a wttr.in compatible service.
package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/hpungsan/linkbot/internal/errors"
)

// DefaultBaseURL is the public wttr.in endpoint.
const DefaultBaseURL = "https://wttr.in"

const collaboratorName = "weather"

// maxBodyBytes bounds the response read; a j1 document is a few tens of KB.
const maxBodyBytes = 1 << 20

// Report is a one-day summary for a location.
type Report struct {
	LocationName string `json:"location_name"`
	High         string `json:"high"`
	Low          string `json:"low"`
	Current      string `json:"current"`
}

// String formats the report as a chat reply.
func (r *Report) String() string {
	return fmt.Sprintf("%s — High: %s Low: %s Current: %s", r.LocationName, r.High, r.Low, r.Current)
}

// Client queries the weather service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	units      string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUnits selects "F" or "C" temperatures. Anything else falls back to F.
func WithUnits(units string) Option {
	return func(c *Client) { c.units = strings.ToUpper(strings.TrimSpace(units)) }
}

// NewClient creates a client for baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		units:      "F",
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.units != "C" {
		c.units = "F"
	}
	return c
}

// Lookup fetches the forecast for query (a zip code, city name or airport
// code). Transport, status and payload failures are COLLABORATOR_FAILED.
func (c *Client) Lookup(ctx context.Context, query string) (*Report, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.NewInvalidRequest("location is required")
	}

	endpoint := c.baseURL + "/" + url.PathEscape(query) + "?format=j1"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.NewCollaborator(collaboratorName, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewCollaborator(collaboratorName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewCollaborator(collaboratorName, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.NewCollaborator(collaboratorName, err)
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.NewCollaborator(collaboratorName, fmt.Errorf("malformed response"))
	}

	return c.parse(body, query)
}

func (c *Client) parse(body []byte, query string) (*Report, error) {
	fields := gjson.GetManyBytes(body,
		"nearest_area.0.areaName.0.value",
		"weather.0.maxtemp"+c.units,
		"weather.0.mintemp"+c.units,
		"current_condition.0.temp_"+c.units,
	)
	for _, f := range fields[1:] {
		if !f.Exists() {
			return nil, errors.NewCollaborator(collaboratorName, fmt.Errorf("response missing forecast for %q", query))
		}
	}

	name := fields[0].String()
	if name == "" {
		name = query
	}
	return &Report{
		LocationName: name,
		High:         fields[1].String(),
		Low:          fields[2].String(),
		Current:      fields[3].String(),
	}, nil
}
