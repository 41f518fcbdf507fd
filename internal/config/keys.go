package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

type valueKind int

const (
	textValue valueKind = iota
	intValue
	boolValue
)

// keySpec binds a dotted config key to its env var and Config field.
type keySpec struct {
	key    string
	env    string
	kind   valueKind
	secret bool
	set    func(cfg *Config, v any)
	get    func(cfg Config) any
}

// parse converts raw text to the key's value type.
func (s keySpec) parse(raw string) (any, error) {
	switch s.kind {
	case intValue:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid integer value for %s: %w", s.key, err)
		}
		return n, nil
	case boolValue:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid bool value for %s: %w", s.key, err)
		}
		return b, nil
	}
	return raw, nil
}

func text(key string, set func(*Config, string), get func(Config) string) keySpec {
	return keySpec{
		key: key, env: envName(key), kind: textValue,
		set: func(cfg *Config, v any) { set(cfg, v.(string)) },
		get: func(cfg Config) any { return get(cfg) },
	}
}

func envName(key string) string {
	out := []byte("DOLATER_")
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c == '.':
			c = '_'
		case c >= 'a' && c <= 'z':
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

var specs = []keySpec{
	{
		key: "server.port", env: envName("server.port"), kind: intValue,
		set: func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		get: func(cfg Config) any { return cfg.Server.Port },
	},
	text("storage.data_dir",
		func(cfg *Config, v string) { cfg.Storage.DataDir = v },
		func(cfg Config) string { return cfg.Storage.DataDir }),
	text("user.id",
		func(cfg *Config, v string) { cfg.User.ID = v },
		func(cfg Config) string { return cfg.User.ID }),
	text("log.level",
		func(cfg *Config, v string) { cfg.Log.Level = v },
		func(cfg Config) string { return cfg.Log.Level }),
	{
		key: "llm.enabled", env: envName("llm.enabled"), kind: boolValue,
		set: func(cfg *Config, v any) { cfg.LLM.Enabled = v.(bool) },
		get: func(cfg Config) any { return cfg.LLM.Enabled },
	},
	text("llm.base_url",
		func(cfg *Config, v string) { cfg.LLM.BaseURL = v },
		func(cfg Config) string { return cfg.LLM.BaseURL }),
	text("llm.model",
		func(cfg *Config, v string) { cfg.LLM.Model = v },
		func(cfg Config) string { return cfg.LLM.Model }),
	{
		key: "llm.api_key", env: envName("llm.api_key"), kind: textValue, secret: true,
		set: func(cfg *Config, v any) { cfg.LLM.APIKey = v.(string) },
		get: func(cfg Config) any { return cfg.LLM.APIKey },
	},
	text("fetch.timeout",
		func(cfg *Config, v string) { cfg.Fetch.Timeout = v },
		func(cfg Config) string { return cfg.Fetch.Timeout }),
}

func lookupSpec(key string) (keySpec, bool) {
	for _, s := range specs {
		if s.key == key {
			return s, true
		}
	}
	return keySpec{}, false
}

// applyBackend copies stored values onto cfg. Malformed integers are an
// error; a malformed bool keeps its default.
func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		if s.secret {
			continue
		}
		if s.kind == intValue {
			n, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.set(cfg, n)
			}
			continue
		}

		raw, ok, err := b.GetString(s.key)
		if err != nil {
			return fmt.Errorf("reading %s: %w", s.key, err)
		}
		if !ok || raw == "" {
			continue
		}
		v, err := s.parse(raw)
		if err != nil {
			slog.Warn("ignoring config file value", "key", s.key, "value", raw, "error", err)
			continue
		}
		s.set(cfg, v)
	}
	return nil
}

// applyEnvOverrides lets DOLATER_* variables win over the file. Values that
// do not parse are logged and skipped.
func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		v, err := s.parse(raw)
		if err != nil {
			slog.Warn("ignoring environment override", "env", s.env, "value", raw, "error", err)
			continue
		}
		s.set(cfg, v)
	}
}
