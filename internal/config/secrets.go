package config

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	secretLLMKey   = "llm_api_key"
	secretAPIToken = "api_token"
)

var errNoSecret = errors.New("secret not set")

// secretsFile is a flat name/value JSON file readable only by the owner.
type secretsFile struct {
	path string
	mu   sync.Mutex
}

func newSecretsFile(path string) *secretsFile {
	return &secretsFile{path: path}
}

func (f *secretsFile) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading secrets file: %w", err)
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing secrets file: %w", err)
	}
	if m == nil {
		m = map[string]string{}
	}
	return m, nil
}

func (f *secretsFile) Get(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.read()
	if err != nil {
		return "", err
	}
	v, ok := m[name]
	if !ok || v == "" {
		return "", fmt.Errorf("%s: %w", name, errNoSecret)
	}
	return v, nil
}

func (f *secretsFile) Set(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.read()
	if err != nil {
		return err
	}
	m[name] = value
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating secrets dir: %w", err)
	}
	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, out, 0o600)
}

// GetAPIToken returns the bearer token guarding the HTTP API. DOLATER_API_TOKEN
// wins; otherwise a token is generated on first use and persisted.
func GetAPIToken() (string, error) {
	return apiToken(newSecretsFile(secretsFilePath()))
}

func apiToken(s secretStore) (string, error) {
	if tok := os.Getenv("DOLATER_API_TOKEN"); tok != "" {
		return tok, nil
	}
	tok, err := s.Get(secretAPIToken)
	if err == nil {
		return tok, nil
	}
	if !errors.Is(err, errNoSecret) {
		return "", err
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	tok = hex.EncodeToString(buf)
	if err := s.Set(secretAPIToken, tok); err != nil {
		return "", fmt.Errorf("storing token: %w", err)
	}
	return tok, nil
}

// SetLLMKey stores the completion API key in the secrets file.
func SetLLMKey(key string) error {
	return newSecretsFile(secretsFilePath()).Set(secretLLMKey, key)
}
