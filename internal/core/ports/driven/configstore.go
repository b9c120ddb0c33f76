package driven

// ConfigStore persists settings under flat dotted keys such as
// "chunking.size". Implementations decide the on-disk layout.
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	// GetString returns "" when the key is unset or not a string.
	GetString(key string) string

	// GetInt returns 0 when the key is unset or not numeric.
	// Numeric strings are parsed.
	GetInt(key string) int

	// Set stores one value and persists it.
	Set(key string, value any) error

	// SetAll stores several values with a single write, so a crash
	// cannot leave half of a settings change on disk.
	SetAll(values map[string]any) error

	// Path names the backing file, for display.
	Path() string
}
