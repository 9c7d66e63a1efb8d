package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the application's configuration model.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Journal JournalConfig `yaml:"journal"`
	API     APIConfig     `yaml:"api"`
	Metrics MetricsConfig `yaml:"metrics"`
	Shell   ShellConfig   `yaml:"shell"`
	Logging LoggingConfig `yaml:"logging"`
}

type StoreConfig struct {
	// Defaults used when a caller does not pass k
	RecentPostsDefault int `yaml:"recentPostsDefault"`
	SuggestionsDefault int `yaml:"suggestionsDefault"`
}

type JournalConfig struct {
	Enabled bool `yaml:"enabled"`
	// FRIENDGRAPH_DB_PATH overrides it when set.
	// If empty, read FRIENDGRAPH_DB_PATH
	DBPath string `yaml:"dbPath"`
}

type APIConfig struct {
	Addr          string  `yaml:"addr"`
	RatePerSecond float64 `yaml:"ratePerSecond"` // <= 0 disables limiting
	Burst         int     `yaml:"burst"`
}

type MetricsConfig struct {
	// Empty disables the metrics server; METRICS_ADDR overrides it when set.
	Addr string `yaml:"addr"`
}

type ShellConfig struct {
	// Lowercase command words and usernames before dispatch.
	CaseInsensitive bool   `yaml:"caseInsensitive"`
	Prompt          string `yaml:"prompt"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		Store:   StoreConfig{RecentPostsDefault: 5, SuggestionsDefault: 5},
		Journal: JournalConfig{Enabled: true, DBPath: "./friendgraph.db"},
		API:     APIConfig{Addr: ":8080", RatePerSecond: 20, Burst: 40},
		Metrics: MetricsConfig{Addr: ""},
		Shell:   ShellConfig{CaseInsensitive: true, Prompt: "Write your command here: "},
		Logging: LoggingConfig{Level: "info"},
	}
}

// ResolveEnv overrides config fields with any environment variables that
// are set. The journal is switched off through journal.enabled, not by
// clearing its path.
func (c *Config) ResolveEnv() {
	if v := os.Getenv("FRIENDGRAPH_API_ADDR"); v != "" {
		c.API.Addr = v
	}
	if v := os.Getenv("FRIENDGRAPH_DB_PATH"); v != "" {
		c.Journal.DBPath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
	if v := os.Getenv("FRIENDGRAPH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Load reads YAML config from path on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields Default.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		cfg.ResolveEnv()
		return cfg, nil
	}
	return cfg, err
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
