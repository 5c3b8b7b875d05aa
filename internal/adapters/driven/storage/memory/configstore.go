package memory

import (
	"maps"
	"sync"

	"github.com/custodia-labs/askwork/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in a map. It follows the file store's typing
// rules so services behave the same against either.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewConfigStore copies values into a new store.
func NewConfigStore(values map[string]any) *ConfigStore {
	return &ConfigStore{values: maps.Clone(values)}
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	return val, ok
}

func (s *ConfigStore) GetString(key string) string {
	val, _ := s.Get(key)
	str, _ := val.(string)
	return str
}

func (s *ConfigStore) GetStringSlice(key string) []string {
	val, _ := s.Get(key)
	switch v := val.(type) {
	case []string:
		return v
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = make(map[string]any)
	}
	s.values[key] = value
	return nil
}

// Save and Load have nothing to do.
func (s *ConfigStore) Save() error { return nil }
func (s *ConfigStore) Load() error { return nil }

// Path is a marker; nothing is written.
func (s *ConfigStore) Path() string { return ":memory:" }
