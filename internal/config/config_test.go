package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type memSecrets map[string]string

func (m memSecrets) Get(name string) (string, error) {
	v, ok := m[name]
	if !ok {
		return "", errNoSecret
	}
	return v, nil
}

func (m memSecrets) Set(name, value string) error {
	m[name] = value
	return nil
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, s := range specs {
		t.Setenv(s.env, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := loadWith(newFileBackend(filepath.Join(t.TempDir(), "missing.json")), memSecrets{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 4100 {
		t.Errorf("Server.Port = %d, want 4100", cfg.Server.Port)
	}
	if cfg.User.ID != "local" {
		t.Errorf("User.ID = %q, want local", cfg.User.ID)
	}
	if cfg.LLM.Model != "gpt-4o-mini" || cfg.LLM.Enabled {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.FetchTimeout() != 10*time.Second {
		t.Errorf("FetchTimeout = %v", cfg.FetchTimeout())
	}
	if cfg.LLMReady() {
		t.Error("LLM should not be ready without a key")
	}
}

func TestFileParsing(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, `{
  "server.port": 5000,
  "storage.data_dir": "/tmp/dolater-test",
  "user.id": "alice",
  "llm.enabled": "true",
  "llm.model": "gpt-4o",
  "fetch.timeout": "3s"
}`)
	cfg, err := loadWith(newFileBackend(path), memSecrets{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Storage.DataDir != "/tmp/dolater-test" {
		t.Errorf("Storage.DataDir = %q", cfg.Storage.DataDir)
	}
	if cfg.User.ID != "alice" {
		t.Errorf("User.ID = %q", cfg.User.ID)
	}
	if !cfg.LLM.Enabled || cfg.LLM.Model != "gpt-4o" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.FetchTimeout() != 3*time.Second {
		t.Errorf("FetchTimeout = %v", cfg.FetchTimeout())
	}
}

func TestEnvOverride(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, `{"server.port": 5000, "log.level": "info"}`)
	t.Setenv("DOLATER_SERVER_PORT", "6000")
	t.Setenv("DOLATER_LOG_LEVEL", "debug")
	t.Setenv("DOLATER_LLM_API_KEY", "env-key")

	cfg, err := loadWith(newFileBackend(path), memSecrets{secretLLMKey: "file-key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 6000 || cfg.Log.Level != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.LLM.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env-key", cfg.LLM.APIKey)
	}
}

func TestBadEnvKeepsDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOLATER_SERVER_PORT", "not-a-number")
	cfg, err := loadWith(newFileBackend(filepath.Join(t.TempDir(), "x.json")), memSecrets{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 4100 {
		t.Errorf("Server.Port = %d, want default", cfg.Server.Port)
	}
}

func TestBadFileValue(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, `{"server.port": 1.5}`)
	if _, err := loadWith(newFileBackend(path), memSecrets{}); err == nil {
		t.Fatal("expected error for non-integer port")
	}
}

func TestSecretsFallback(t *testing.T) {
	clearEnv(t)
	cfg, err := loadWith(newFileBackend(filepath.Join(t.TempDir(), "x.json")), memSecrets{secretLLMKey: "stored"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LLM.APIKey != "stored" {
		t.Errorf("APIKey = %q, want stored", cfg.LLM.APIKey)
	}
}

func TestSetKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.json")
	b := newFileBackend(path)

	if err := setKey(b, "server.port", "7000"); err != nil {
		t.Fatalf("setKey: %v", err)
	}
	if err := setKey(b, "llm.enabled", "yes"); err == nil {
		t.Error("expected error for bad bool")
	}
	if err := setKey(b, "llm.enabled", "1"); err != nil {
		t.Fatalf("setKey bool: %v", err)
	}
	if err := setKey(b, "server.port", "abc"); err == nil {
		t.Error("expected error for bad int")
	}
	if err := setKey(b, "llm.api_key", "sk"); err == nil {
		t.Error("secrets must not be written to the config file")
	}
	if err := setKey(b, "nope", "x"); err == nil || !strings.Contains(err.Error(), "unknown config key") {
		t.Errorf("err = %v", err)
	}

	clearEnv(t)
	cfg, err := loadWith(newFileBackend(path), memSecrets{})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cfg.Server.Port != 7000 || !cfg.LLM.Enabled {
		t.Errorf("persisted cfg = %+v", cfg)
	}
}

func TestShowAllHidesSecrets(t *testing.T) {
	cfg := defaults()
	cfg.LLM.APIKey = "sk-secret"
	for _, k := range ShowAll(cfg) {
		if k.Key == "llm.api_key" || k.Value == "sk-secret" {
			t.Errorf("secret leaked: %+v", k)
		}
	}
	if len(ShowAll(cfg)) != len(specs)-1 {
		t.Errorf("ShowAll returned %d keys", len(ShowAll(cfg)))
	}
}

func TestAPIToken(t *testing.T) {
	t.Setenv("DOLATER_API_TOKEN", "")
	s := newSecretsFile(filepath.Join(t.TempDir(), "secrets.json"))

	first, err := apiToken(s)
	if err != nil {
		t.Fatalf("apiToken: %v", err)
	}
	if len(first) != 64 {
		t.Errorf("token length = %d, want 64", len(first))
	}
	second, err := apiToken(s)
	if err != nil || second != first {
		t.Errorf("token should be stable, got %q then %q (%v)", first, second, err)
	}

	info, err := os.Stat(s.path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("secrets mode = %v", info.Mode().Perm())
	}

	t.Setenv("DOLATER_API_TOKEN", "from-env")
	if tok, _ := apiToken(s); tok != "from-env" {
		t.Errorf("env token ignored, got %q", tok)
	}
}

func TestSecretsFileMissing(t *testing.T) {
	s := newSecretsFile(filepath.Join(t.TempDir(), "none.json"))
	if _, err := s.Get("x"); !errors.Is(err, errNoSecret) {
		t.Errorf("err = %v, want errNoSecret", err)
	}
}
