// Package config loads DoLater settings. Values are layered: built-in
// defaults, then the JSON config file, then DOLATER_* environment variables.
// Secrets live in a separate 0600 file and may also come from the environment.
package config

import (
	"os"
	"path/filepath"
	"time"
)

const appName = "dolater"

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	User    UserConfig
	Log     LogConfig
	LLM     LLMConfig
	Fetch   FetchConfig
}

type ServerConfig struct {
	Port int
}

type StorageConfig struct {
	DataDir string
}

type UserConfig struct {
	ID string
}

type LogConfig struct {
	Level string
}

// LLMConfig controls the optional completion backend. It is only used when
// Enabled is set and an API key is available.
type LLMConfig struct {
	Enabled bool
	BaseURL string
	Model   string
	APIKey  string
}

type FetchConfig struct {
	// Timeout is a Go duration string such as "10s".
	Timeout string
}

// FetchTimeout parses Fetch.Timeout, falling back to ten seconds.
func (c Config) FetchTimeout() time.Duration {
	d, err := time.ParseDuration(c.Fetch.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// LLMReady reports whether the completion backend should be used.
func (c Config) LLMReady() bool {
	return c.LLM.Enabled && c.LLM.APIKey != ""
}

func defaults() Config {
	return Config{
		Server:  ServerConfig{Port: 4100},
		Storage: StorageConfig{DataDir: defaultDataDir()},
		User:    UserConfig{ID: "local"},
		Log:     LogConfig{Level: "info"},
		LLM: LLMConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
		},
		Fetch: FetchConfig{Timeout: "10s"},
	}
}

// Load reads configuration from $XDG_CONFIG_HOME/dolater/config.json,
// environment variables and the secrets file.
func Load() (Config, error) {
	return loadWith(newFileBackend(configFilePath()), newSecretsFile(secretsFilePath()))
}

// secretStore abstracts the secrets file for testing.
type secretStore interface {
	Get(name string) (string, error)
	Set(name, value string) error
}

func loadWith(b ConfigBackend, secrets secretStore) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.LLM.APIKey == "" {
		if key, err := secrets.Get(secretLLMKey); err == nil && key != "" {
			cfg.LLM.APIKey = key
		}
	}
	return cfg, nil
}

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "share")
		} else {
			return appName + "-data"
		}
	}
	return filepath.Join(dir, appName)
}

func configFilePath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".config")
		} else {
			dir = "."
		}
	}
	return filepath.Join(dir, appName, "config.json")
}

func secretsFilePath() string {
	return filepath.Join(defaultDataDir(), "secrets.json")
}
