package config

// TransportKind selects how console windows synchronize state.
type TransportKind string

const (
	TransportHub  TransportKind = "hub"
	TransportFile TransportKind = "file"
)

// Config is the top-level console configuration, corresponding to
// .miconsole.yml.
type Config struct {
	Port        int           `yaml:"port" koanf:"port"`
	DecksDir    string        `yaml:"decks_dir" koanf:"decks_dir"`
	DefaultDeck string        `yaml:"default_deck" koanf:"default_deck"`
	Include     []string      `yaml:"include" koanf:"include"`
	Exclude     []string      `yaml:"exclude" koanf:"exclude"`
	DBPath      string        `yaml:"db_path" koanf:"db_path"`
	PrefsPath   string        `yaml:"prefs_path" koanf:"prefs_path"`
	StaticDir   string        `yaml:"static_dir" koanf:"static_dir"`
	UpstreamURL string        `yaml:"upstream_url" koanf:"upstream_url"`
	Channel     string        `yaml:"channel" koanf:"channel"`
	Transport   TransportKind `yaml:"transport" koanf:"transport"`
	RelayPath   string        `yaml:"relay_path" koanf:"relay_path"`
	AllowAll    bool          `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
