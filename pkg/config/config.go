package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/rulesplit/pkg/errors"
)

// Source describes where the rule list is fetched from
type Source struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
	// MaxRedirects caps the redirect hops followed for one fetch
	MaxRedirects int `koanf:"max_redirects"`
	// InsecureSkipVerify disables TLS certificate verification for the
	// fetcher's own transport only
	InsecureSkipVerify bool `koanf:"insecure_skip_verify"`
}

// Target is one output file and the groups that go into it.
// Exactly one of Include and Exclude must be set.
type Target struct {
	File    string   `koanf:"file"`
	Include []string `koanf:"include"`
	Exclude []string `koanf:"exclude"`
	// DNS replaces the placeholder token in every emitted line
	DNS string `koanf:"dns"`
}

// Mode reports how the target selects groups
type Mode string

const (
	ModeInclude Mode = "include"
	ModeExclude Mode = "exclude"
	ModeInvalid Mode = "invalid"
)

// Mode returns ModeInvalid when the target sets neither or both lists
func (t Target) Mode() Mode {
	hasInclude := len(t.Include) > 0
	hasExclude := len(t.Exclude) > 0
	switch {
	case hasInclude && !hasExclude:
		return ModeInclude
	case hasExclude && !hasInclude:
		return ModeExclude
	default:
		return ModeInvalid
	}
}

// Config is the main configuration structure
type Config struct {
	Source      Source   `koanf:"source"`
	Placeholder string   `koanf:"placeholder"`
	Targets     []Target `koanf:"targets"`
}

// Validate checks the configuration before anything touches the network
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source.URL) == "" {
		return errors.New(errors.ErrConfigValid, "source url is required")
	}
	u, err := url.Parse(c.Source.URL)
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigValid, "source url %q is invalid", c.Source.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Newf(errors.ErrConfigValid, "source url %q must use http or https", c.Source.URL).
			WithDetail("url", c.Source.URL)
	}
	if u.Host == "" {
		return errors.Newf(errors.ErrConfigValid, "source url %q has no host", c.Source.URL)
	}
	if c.Source.Timeout <= 0 {
		return errors.Newf(errors.ErrConfigValid, "source timeout must be positive, got %s", c.Source.Timeout)
	}
	if c.Source.MaxRedirects < 0 {
		return errors.Newf(errors.ErrConfigValid, "source max_redirects must not be negative, got %d", c.Source.MaxRedirects)
	}
	if c.Placeholder == "" {
		return errors.New(errors.ErrConfigValid, "placeholder must not be empty")
	}
	if len(c.Targets) == 0 {
		return errors.New(errors.ErrConfigValid, "at least one target is required")
	}

	seen := make(map[string]int, len(c.Targets))
	for i, target := range c.Targets {
		if err := target.validate(); err != nil {
			return err.WithDetail("target", i)
		}
		key := filepath.Clean(target.File)
		if prev, ok := seen[key]; ok {
			return errors.Newf(errors.ErrConfigValid, "targets %d and %d both write %s", prev, i, target.File).
				WithDetail("target", i)
		}
		seen[key] = i
	}
	return nil
}

func (t Target) validate() *errors.RulesplitError {
	if strings.TrimSpace(t.File) == "" {
		return errors.New(errors.ErrConfigValid, "target file is required")
	}
	if t.Mode() == ModeInvalid {
		if len(t.Include) > 0 {
			return errors.Newf(errors.ErrConfigValid, "target %s sets both include and exclude", t.File).
				WithDetail("file", t.File)
		}
		return errors.Newf(errors.ErrConfigValid, "target %s needs an include or an exclude list", t.File).
			WithDetail("file", t.File)
	}
	return nil
}
