package driven

import "context"

// ConfigStore holds settings under dotted keys such as "google.page_size".
// Typed getters return the zero value for missing keys and type mismatches.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool

	// Set changes a value in memory. Call Save to persist it.
	Set(key string, value any) error

	// Save writes every value back to the backing file.
	Save() error

	// Load replaces the in-memory values with the backing file's.
	// A missing file leaves the store empty.
	Load() error

	// Path is the backing file, for display.
	Path() string
}

// ConfigWatcher reports edits to the backing configuration.
type ConfigWatcher interface {
	// Watch reloads and calls onChange whenever the configuration changes,
	// until ctx is done.
	Watch(ctx context.Context, onChange func()) error
}
