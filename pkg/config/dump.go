package config

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Dump renders the effective configuration as "toml" or "yaml", using the
// same keys the loader reads
func Dump(cfg *Config, format string) ([]byte, error) {
	m := configToMap(cfg)
	switch strings.ToLower(format) {
	case "", "toml":
		return toml.Marshal(m)
	case "yaml", "yml":
		return yaml.Marshal(m)
	default:
		return nil, fmt.Errorf("unknown config format: %s", format)
	}
}

// configToMap converts a Config struct to a map keyed like the config files
func configToMap(cfg *Config) map[string]interface{} {
	targets := make([]map[string]interface{}, 0, len(cfg.Targets))
	for _, t := range cfg.Targets {
		entry := map[string]interface{}{
			"file": t.File,
			"dns":  t.DNS,
		}
		if len(t.Include) > 0 {
			entry["include"] = t.Include
		}
		if len(t.Exclude) > 0 {
			entry["exclude"] = t.Exclude
		}
		targets = append(targets, entry)
	}

	return map[string]interface{}{
		"placeholder": cfg.Placeholder,
		"source": map[string]interface{}{
			"url":                  cfg.Source.URL,
			"timeout":              cfg.Source.Timeout.String(),
			"max_redirects":        cfg.Source.MaxRedirects,
			"insecure_skip_verify": cfg.Source.InsecureSkipVerify,
		},
		"targets": targets,
	}
}
