package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/rulesplit/pkg/errors"
	"github.com/arthur-debert/rulesplit/pkg/logging"
	"github.com/arthur-debert/rulesplit/pkg/paths"
)

const (
	// EnvPrefix prefixes every environment override
	EnvPrefix = "RULESPLIT_"
	// EnvConfigPath points at a user config file
	EnvConfigPath = "RULESPLIT_CONFIG"
)

// reservedEnv are RULESPLIT_ variables that locate files rather than set keys
var reservedEnv = map[string]bool{
	EnvConfigPath:      true,
	paths.EnvConfigDir: true,
	paths.EnvStateDir:  true,
}

// LoadOptions controls where configuration is read from
type LoadOptions struct {
	// Path is an explicit user config file. It must exist when set.
	Path string
	// Overrides are applied last, keyed by koanf path ("source.url")
	Overrides map[string]interface{}
}

// Load builds the effective configuration and validates it
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User file
	path, explicit := resolveUserConfigPath(opts.Path)
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if explicit {
				return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s is not readable", path).
					WithDetail("path", path)
			}
			path = ""
		}
	}
	if path != "" {
		// A user target list replaces the default one; drop it before merging
		// so that a shorter user list does not leave default entries behind.
		userK := koanf.New(".")
		if err := userK.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse config file %s", path).
				WithDetail("path", path)
		}
		if userK.Exists("targets") {
			k.Delete("targets")
		}
		if err := k.Merge(userK); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to merge config file %s", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded user config")
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	// 4. Command-line overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("url", cfg.Source.URL).
		Dur("timeout", cfg.Source.Timeout).
		Int("targets", len(cfg.Targets)).
		Msg("Configuration loaded")

	return &cfg, nil
}

// resolveUserConfigPath picks the user file; explicit reports whether the
// caller asked for it and therefore requires it to exist
func resolveUserConfigPath(path string) (string, bool) {
	if path != "" {
		return path, true
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, true
	}
	return DefaultUserConfigPath(), false
}

// DefaultUserConfigPath returns the first existing config file in the
// config directory, or the TOML path when none exists
func DefaultUserConfigPath() string {
	path, _ := paths.UserConfigPath()
	return path
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

// envKey maps RULESPLIT_SOURCE__MAX_REDIRECTS to source.max_redirects.
// Reserved variables map to "" and are skipped.
func envKey(s string) string {
	if reservedEnv[s] {
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}
