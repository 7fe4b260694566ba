// Package prefs is a file-backed key/value store for console preferences.
// Writes are best-effort: persistence failures are swallowed because
// preferences are never worth interrupting a presentation for.
package prefs

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Well-known preference keys.
const (
	KeyTheme          = "theme"
	KeyReducedMotion  = "reduced-motion"
	KeyContentDensity = "content-density"
	KeyLayoutMode     = "layout-mode"
	KeyInsights       = "insights-enabled"
	KeyMediaHidden    = "media-hidden"
	KeyChartHidden    = "chart-hidden"
	KeyGamepad        = "gamepad-enabled"
	KeySessionConfig  = "session-config"
)

// Store holds string preferences, persisted as one JSON file.
// Last-writer-wins; the mutex guards in-process access only.
type Store struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// Open loads preferences from path. A missing or unreadable file yields an
// empty store; preferences always start from defaults rather than failing.
func Open(path string) *Store {
	s := &Store{path: path, values: make(map[string]string)}
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		log.Printf("prefs: ignoring corrupt file %s: %v", path, err)
		s.values = make(map[string]string)
	}
	return s
}

// Get returns the stored value, or fallback when unset.
func (s *Store) Get(key, fallback string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.values[key]; ok {
		return v
	}
	return fallback
}

// GetBool interprets a stored "true"/"false" value.
func (s *Store) GetBool(key string, fallback bool) bool {
	switch s.Get(key, "") {
	case "true":
		return true
	case "false":
		return false
	}
	return fallback
}

// Set stores a value and persists. Persistence failure is swallowed.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	s.values[key] = value
	s.persistLocked()
	s.mu.Unlock()
}

// SetBool stores a boolean as "true"/"false".
func (s *Store) SetBool(key string, value bool) {
	if value {
		s.Set(key, "true")
	} else {
		s.Set(key, "false")
	}
}

// Delete removes a key and persists.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.values, key)
	s.persistLocked()
	s.mu.Unlock()
}

// All returns a copy of every stored preference.
func (s *Store) All() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

func (s *Store) persistLocked() {
	if s.path == "" {
		return
	}
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		log.Printf("prefs: write %s: %v", s.path, err)
	}
}
