package domain

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"
)

// Default Location Data Service settings.
const (
	DefaultServiceBaseURL        = "https://crio-location-selector.onrender.com"
	DefaultServiceTimeout        = 30 * time.Second
	DefaultServiceRequestsPerSec = 5.0
	DefaultServiceBurst          = 5

	// MaxServiceTimeout is the longest accepted request timeout.
	MaxServiceTimeout = time.Hour
)

// Config keys, in dot notation.
const (
	KeyServiceBaseURL    = "service.base_url"
	KeyServiceTimeout    = "service.timeout_seconds"
	KeyServiceRate       = "service.requests_per_second"
	KeyServiceBurst      = "service.burst"
	KeyServiceEscapePath = "service.escape_path"
)

// SettingKeys returns every recognised config key in display order.
func SettingKeys() []string {
	return []string{
		KeyServiceBaseURL,
		KeyServiceTimeout,
		KeyServiceRate,
		KeyServiceBurst,
		KeyServiceEscapePath,
	}
}

// ServiceSettings holds Location Data Service configuration.
type ServiceSettings struct {
	// BaseURL is prefixed to every endpoint path.
	BaseURL string

	// Timeout bounds a single request.
	Timeout time.Duration

	// RequestsPerSecond is the sustained client-side request rate.
	RequestsPerSecond float64

	// Burst is the number of requests allowed back to back.
	Burst int

	// EscapePath applies URL path escaping to country and state names.
	// When false, names are substituted into the path templates verbatim.
	EscapePath bool
}

// Validate checks the settings are usable.
func (s ServiceSettings) Validate() error {
	if s.BaseURL == "" {
		return fmt.Errorf("%w: base url is required", ErrInvalidInput)
	}
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: base url: %w", ErrInvalidInput, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: base url scheme must be http or https, got %q", ErrInvalidInput, u.Scheme)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidInput)
	}
	if s.Timeout > MaxServiceTimeout {
		return fmt.Errorf("%w: timeout must be at most %s", ErrInvalidInput, MaxServiceTimeout)
	}
	if math.IsNaN(s.RequestsPerSecond) || math.IsInf(s.RequestsPerSecond, 0) {
		return fmt.Errorf("%w: requests per second must be a finite number", ErrInvalidInput)
	}
	if s.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests per second must not be negative", ErrInvalidInput)
	}
	if s.Burst < 0 {
		return fmt.Errorf("%w: burst must not be negative", ErrInvalidInput)
	}
	return nil
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Service configures the Location Data Service client.
	Service ServiceSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Service: ServiceSettings{
			BaseURL:           DefaultServiceBaseURL,
			Timeout:           DefaultServiceTimeout,
			RequestsPerSecond: DefaultServiceRequestsPerSec,
			Burst:             DefaultServiceBurst,
			EscapePath:        false,
		},
	}
}

// Value formats the setting stored under key, or "" for an unknown key.
func (s AppSettings) Value(key string) string {
	switch key {
	case KeyServiceBaseURL:
		return s.Service.BaseURL
	case KeyServiceTimeout:
		return strconv.Itoa(int(s.Service.Timeout / time.Second))
	case KeyServiceRate:
		return strconv.FormatFloat(s.Service.RequestsPerSecond, 'g', -1, 64)
	case KeyServiceBurst:
		return strconv.Itoa(s.Service.Burst)
	case KeyServiceEscapePath:
		return strconv.FormatBool(s.Service.EscapePath)
	default:
		return ""
	}
}
