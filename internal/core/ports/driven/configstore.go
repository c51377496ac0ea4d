package driven

// ConfigStore provides access to application configuration.
// Keys use dot notation for nested tables ("embedding.batch_size").
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" when missing.
	GetString(key string) string

	// GetInt retrieves an integer value, or 0 when missing.
	GetInt(key string) int

	// GetFloat retrieves a float value, or 0 when missing.
	// Integer values are widened.
	GetFloat(key string) float64

	// GetBool retrieves a boolean value, or false when missing.
	GetBool(key string) bool

	// GetStringSlice retrieves a string slice value, or nil when missing.
	GetStringSlice(key string) []string

	// Set stores a configuration value and persists it.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
