package config

import (
	"fmt"
	"strconv"
)

// KeyInfo is one row of `dolater config show`.
type KeyInfo struct {
	Key    string
	EnvVar string
	Value  string
}

// ShowAll lists every non-secret setting of cfg in table order.
func ShowAll(cfg Config) []KeyInfo {
	rows := make([]KeyInfo, 0, len(specs))
	for _, s := range specs {
		if s.secret {
			continue
		}
		rows = append(rows, KeyInfo{Key: s.key, EnvVar: s.env, Value: fmt.Sprint(s.get(cfg))})
	}
	return rows
}

// SetKey persists one setting. llm.api_key goes to the secrets file.
func SetKey(key, value string) error {
	if key == "llm.api_key" {
		return SetLLMKey(value)
	}
	return setKey(newFileBackend(configFilePath()), key, value)
}

func setKey(b ConfigBackend, key, value string) error {
	s, ok := lookupSpec(key)
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}
	if s.secret {
		return fmt.Errorf("cannot store secret %q in the config file; use %s", key, s.env)
	}

	v, err := s.parse(value)
	if err != nil {
		return err
	}
	switch v := v.(type) {
	case int:
		return b.SetInt(key, v)
	case bool:
		return b.SetString(key, strconv.FormatBool(v))
	default:
		return b.SetString(key, value)
	}
}

// ValidKeys returns the names accepted by SetKey.
func ValidKeys() []string {
	keys := make([]string, len(specs))
	for i, s := range specs {
		keys[i] = s.key
	}
	return keys
}
