// Package pipeline runs fetch, group and emit in sequence for one invocation.
package pipeline

import (
	"context"
	"time"

	"github.com/spf13/afero"

	"github.com/arthur-debert/rulesplit/internal/version"
	"github.com/arthur-debert/rulesplit/pkg/config"
	"github.com/arthur-debert/rulesplit/pkg/emit"
	"github.com/arthur-debert/rulesplit/pkg/errors"
	"github.com/arthur-debert/rulesplit/pkg/fetch"
	"github.com/arthur-debert/rulesplit/pkg/filesystem"
	"github.com/arthur-debert/rulesplit/pkg/groups"
	"github.com/arthur-debert/rulesplit/pkg/logging"
)

// Fetcher retrieves the source document
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetch.Result, error)
}

// Options configures a run
type Options struct {
	Config *config.Config
	// FS defaults to the OS filesystem
	FS afero.Fs
	// Fetcher defaults to an HTTP fetcher built from Config.Source
	Fetcher Fetcher
	DryRun  bool
}

// Result reports a run. Targets holds one entry per target that was
// processed; a failed run stops at the failing target.
type Result struct {
	URL      string              `json:"url" yaml:"url"`
	FinalURL string              `json:"final_url" yaml:"final_url"`
	Groups   *groups.Set         `json:"-" yaml:"-"`
	Targets  []emit.TargetResult `json:"targets" yaml:"targets"`
	DryRun   bool                `json:"dry_run" yaml:"dry_run"`
	Elapsed  time.Duration       `json:"elapsed" yaml:"elapsed"`
}

// Run fetches the source, groups it and writes every target in
// configuration order. The first error aborts the run; files written for
// earlier targets are left in place.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("pipeline")
	start := time.Now()

	result, err := Groups(ctx, opts)
	if err != nil {
		return nil, err
	}

	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}
	emitter := emit.NewEmitter(fs, opts.Config.Placeholder, opts.DryRun)

	for _, target := range opts.Config.Targets {
		logger.Info().
			Str("file", target.File).
			Str("mode", string(target.Mode())).
			Strs("include", target.Include).
			Strs("exclude", target.Exclude).
			Msg("Processing target")

		tr, err := emitter.Emit(result.Groups, target)
		if err != nil {
			result.Elapsed = time.Since(start)
			return result, err
		}
		result.Targets = append(result.Targets, tr)
	}

	result.Elapsed = time.Since(start)
	logger.Info().
		Int("targets", len(result.Targets)).
		Bool("dry_run", opts.DryRun).
		Dur("elapsed", result.Elapsed).
		Msg("Run completed")
	return result, nil
}

// Groups fetches and groups the source without writing anything
func Groups(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("pipeline")

	if opts.Config == nil {
		return nil, errors.New(errors.ErrInvalidInput, "no configuration given")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = NewFetcher(opts.Config.Source)
	}

	done := logging.LogOperationStart(logger, "fetch")
	doc, err := fetcher.Fetch(ctx, opts.Config.Source.URL)
	done()
	if err != nil {
		return nil, err
	}
	logger.Trace().Str("body", doc.Body).Msg("Raw document")

	set := groups.Parse(doc.Body)
	for _, g := range set.Groups() {
		logger.Debug().Str("group", g.Name).Int("lines", len(g.Lines)).Msg("Group parsed")
	}
	logger.Info().
		Int("groups", set.Len()).
		Int("lines", set.TotalLines()).
		Str("url", doc.FinalURL).
		Msg("Source grouped")

	return &Result{
		URL:      doc.URL,
		FinalURL: doc.FinalURL,
		Groups:   set,
		Targets:  []emit.TargetResult{},
		DryRun:   opts.DryRun,
	}, nil
}

// NewFetcher builds the HTTP fetcher described by a source section
func NewFetcher(src config.Source) *fetch.Fetcher {
	return fetch.New(fetch.Options{
		Timeout:            src.Timeout,
		MaxRedirects:       src.MaxRedirects,
		InsecureSkipVerify: src.InsecureSkipVerify,
		UserAgent:          "rulesplit/" + version.Version,
	})
}
