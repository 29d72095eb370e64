package driven

// ConfigStore holds application configuration under dot-separated keys
// such as "service.base_url".
//
// Typed getters return the zero value when a key is missing or holds a
// different type; use Get to tell the two apart.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	// GetFloat also accepts integer values.
	GetFloat(key string) float64
	GetBool(key string) bool

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Save persists the current configuration.
	Save() error

	// Load replaces the in-memory configuration with the persisted one.
	// On failure the previous values are kept.
	Load() error

	// Path describes where the configuration lives.
	Path() string
}
