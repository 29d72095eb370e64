// Package httpclient provides the Location Data Service adapter over HTTP.
//
// The service exposes three GET endpoints, each returning a JSON array of
// names:
//
//	/countries
//	/country={countryName}/states
//	/country={countryName}/state={stateName}/cities
package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/locselect/internal/core/domain"
	"github.com/custodia-labs/locselect/internal/core/ports/driven"
	"github.com/custodia-labs/locselect/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.LocationService = (*Client)(nil)

// Path templates relative to the base URL.
const (
	countriesPath = "/countries"
	statesPath    = "/country={countryName}/states"
	citiesPath    = "/country={countryName}/state={stateName}/cities"
)

const (
	// maxBodyBytes bounds how much of a response body is decoded.
	maxBodyBytes = 8 << 20

	// maxErrorBodyBytes bounds how much of an error body is kept for diagnostics.
	maxErrorBodyBytes = 512
)

// Config holds configuration for the Location Data Service client.
type Config struct {
	// BaseURL is prefixed to every path (default: domain.DefaultServiceBaseURL).
	BaseURL string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// RequestsPerSecond is the sustained request rate. Zero or less disables throttling.
	RequestsPerSecond float64

	// Burst is the token bucket size (default: 1).
	Burst int

	// EscapePath path-escapes names before substitution.
	// When false, names are substituted verbatim.
	EscapePath bool

	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper
}

// ConfigFromSettings converts service settings into a client config.
func ConfigFromSettings(s domain.ServiceSettings) Config {
	return Config{
		BaseURL:           s.BaseURL,
		Timeout:           s.Timeout,
		RequestsPerSecond: s.RequestsPerSecond,
		Burst:             s.Burst,
		EscapePath:        s.EscapePath,
	}
}

// Client lists countries, states and cities from the Location Data Service.
// It is safe for concurrent use and can be reconfigured while in use.
type Client struct {
	mu         sync.RWMutex
	client     *http.Client
	baseURL    string
	escapePath bool
	limiter    *RateLimiter
}

// NewClient creates a new Location Data Service client.
func NewClient(cfg Config) *Client {
	c := &Client{}
	c.Reconfigure(cfg)
	return c
}

// Reconfigure replaces the client's settings.
// Requests already in flight finish with the settings they started with.
func (c *Client) Reconfigure(cfg Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultServiceBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = domain.DefaultServiceTimeout
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.client = &http.Client{
		Timeout:   cfg.Timeout,
		Transport: cfg.Transport,
	}
	c.baseURL = strings.TrimRight(cfg.BaseURL, "/")
	c.escapePath = cfg.EscapePath
	c.limiter = NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst)
}

// BaseURL returns the current base URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// Countries lists every country.
func (c *Client) Countries(ctx context.Context) ([]string, error) {
	return c.getNames(ctx, countriesPath)
}

// States lists the states of country.
func (c *Client) States(ctx context.Context, country string) ([]string, error) {
	return c.getNames(ctx, c.expand(statesPath, country, ""))
}

// Cities lists the cities of state within country.
func (c *Client) Cities(ctx context.Context, country, state string) ([]string, error) {
	return c.getNames(ctx, c.expand(citiesPath, country, state))
}

// expand substitutes names into a path template.
func (c *Client) expand(template, country, state string) string {
	c.mu.RLock()
	escape := c.escapePath
	c.mu.RUnlock()

	if escape {
		country = url.PathEscape(country)
		state = url.PathEscape(state)
	}
	return strings.NewReplacer("{countryName}", country, "{stateName}", state).Replace(template)
}

// getNames performs a GET and decodes a JSON array of strings.
func (c *Client) getNames(ctx context.Context, path string) ([]string, error) {
	c.mu.RLock()
	client, limiter, endpoint := c.client, c.limiter, c.baseURL+path
	c.mu.RUnlock()

	if err := limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", domain.ErrNetworkFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", domain.ErrInvalidInput, err)
	}
	req.Header.Set("Accept", "application/json")

	logger.Debug("GET %s", req.URL.String())
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %w", domain.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusTooManyRequests {
			limiter.RecordRateLimited(resp.Header.Get("Retry-After"))
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &domain.HTTPError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var names []string
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&names); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty body", domain.ErrMalformedResponse)
		}
		return nil, fmt.Errorf("%w: decode response: %w", domain.ErrMalformedResponse, err)
	}

	if names == nil {
		names = []string{}
	}
	return names, nil
}
