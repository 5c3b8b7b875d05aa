package driven

// ConfigStore holds flat, dot-separated settings keys such as
// "llm.provider". File-backed stores map each prefix onto a table.
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	// GetString returns "" for a missing or non-string value.
	GetString(key string) string

	// GetStringSlice accepts a list or a single string. Anything else is nil.
	GetStringSlice(key string) []string

	// Set updates a key. File-backed stores write through.
	Set(key string, value any) error

	Save() error
	Load() error

	// Path describes where the store persists.
	Path() string
}
