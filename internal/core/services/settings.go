package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/locselect/internal/core/domain"
	"github.com/custodia-labs/locselect/internal/core/ports/driven"
	"github.com/custodia-labs/locselect/internal/core/ports/driving"
)

const maxTimeoutSeconds = int(domain.MaxServiceTimeout / time.Second)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
// Missing or unusable values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	timeout := defaults.Service.Timeout
	if secs := s.configStore.GetInt(domain.KeyServiceTimeout); secs > 0 && secs <= maxTimeoutSeconds {
		timeout = time.Duration(secs) * time.Second
	}

	settings := &domain.AppSettings{
		Service: domain.ServiceSettings{
			BaseURL:           s.getString(domain.KeyServiceBaseURL, defaults.Service.BaseURL),
			Timeout:           timeout,
			RequestsPerSecond: s.getFloat(domain.KeyServiceRate, defaults.Service.RequestsPerSecond),
			Burst:             s.getInt(domain.KeyServiceBurst, defaults.Service.Burst),
			EscapePath:        s.getBool(domain.KeyServiceEscapePath, defaults.Service.EscapePath),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Service.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(domain.KeyServiceBaseURL, settings.Service.BaseURL); err != nil {
		return fmt.Errorf("save base_url: %w", err)
	}
	if err := s.configStore.Set(domain.KeyServiceTimeout, int64(settings.Service.Timeout/time.Second)); err != nil {
		return fmt.Errorf("save timeout_seconds: %w", err)
	}
	if err := s.configStore.Set(domain.KeyServiceRate, settings.Service.RequestsPerSecond); err != nil {
		return fmt.Errorf("save requests_per_second: %w", err)
	}
	if err := s.configStore.Set(domain.KeyServiceBurst, int64(settings.Service.Burst)); err != nil {
		return fmt.Errorf("save burst: %w", err)
	}
	if err := s.configStore.Set(domain.KeyServiceEscapePath, settings.Service.EscapePath); err != nil {
		return fmt.Errorf("save escape_path: %w", err)
	}

	return nil
}

// Set updates a single setting by config key.
// The value is parsed for the key's type and validated before saving.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case domain.KeyServiceBaseURL:
		settings.Service.BaseURL = value

	case domain.KeyServiceTimeout:
		secs, err := strconv.Atoi(value)
		if err != nil || secs <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		if secs > maxTimeoutSeconds {
			return fmt.Errorf("%w: %s must be at most %d", domain.ErrInvalidInput, key, maxTimeoutSeconds)
		}
		settings.Service.Timeout = time.Duration(secs) * time.Second

	case domain.KeyServiceRate:
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		settings.Service.RequestsPerSecond = rate

	case domain.KeyServiceBurst:
		burst, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		settings.Service.Burst = burst

	case domain.KeyServiceEscapePath:
		escape, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		settings.Service.EscapePath = escape

	default:
		return fmt.Errorf("%w: %s", domain.ErrUnknownConfigKey, key)
	}

	return s.Save(settings)
}

// Keys returns every recognised config key in display order.
func (s *SettingsService) Keys() []string {
	return domain.SettingKeys()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}
