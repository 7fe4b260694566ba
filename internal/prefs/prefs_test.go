package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	s := Open(path)
	s.Set(KeyTheme, "dark")
	s.SetBool(KeyReducedMotion, true)

	reloaded := Open(path)
	if got := reloaded.Get(KeyTheme, "light"); got != "dark" {
		t.Errorf("theme = %q, want dark", got)
	}
	if !reloaded.GetBool(KeyReducedMotion, false) {
		t.Error("reduced-motion not persisted")
	}
}

func TestFallbacks(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "missing.json"))
	if got := s.Get(KeyContentDensity, "auto"); got != "auto" {
		t.Errorf("fallback = %q, want auto", got)
	}
	if s.GetBool(KeyGamepad, false) {
		t.Error("bool fallback should be false")
	}
	if got := s.Get("garbage-value", ""); got != "" {
		t.Errorf("unset key = %q", got)
	}
}

func TestCorruptFileIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	if err := os.WriteFile(path, []byte("{bad json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := Open(path)
	if got := s.Get(KeyTheme, "light"); got != "light" {
		t.Errorf("corrupt file leaked value %q", got)
	}
	// Writing afterwards replaces the corrupt file.
	s.Set(KeyTheme, "dark")
	if got := Open(path).Get(KeyTheme, ""); got != "dark" {
		t.Errorf("recovered value = %q, want dark", got)
	}
}

func TestWriteFailureSwallowed(t *testing.T) {
	dir := t.TempDir()
	// Pointing the store at a directory makes every write fail.
	s := Open(dir)
	s.Set(KeyTheme, "dark") // must not panic or error

	if got := s.Get(KeyTheme, ""); got != "dark" {
		t.Errorf("in-memory value lost: %q", got)
	}
}

func TestDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	s := Open(path)
	s.Set(KeyLayoutMode, "wide")
	s.Delete(KeyLayoutMode)

	if got := Open(path).Get(KeyLayoutMode, "unset"); got != "unset" {
		t.Errorf("deleted key survived: %q", got)
	}
}
