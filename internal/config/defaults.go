package config

// DefaultExcludes are glob patterns the deck library skips by default.
var DefaultExcludes = []string{
	"**/node_modules/**",
	"**/.git/**",
	"**/*.schema.json",
	"**/package.json",
	"**/package-lock.json",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:      8787,
		DecksDir:  "decks",
		Include:   []string{"**/*.json"},
		Exclude:   DefaultExcludes,
		DBPath:    ".miconsole/console.db",
		PrefsPath: ".miconsole/prefs.json",
		Channel:   "main",
		Transport: TransportHub,
		RelayPath: ".miconsole/relay.json",
	}
}
