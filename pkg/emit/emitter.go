package emit

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/arthur-debert/rulesplit/pkg/config"
	"github.com/arthur-debert/rulesplit/pkg/errors"
	"github.com/arthur-debert/rulesplit/pkg/filesystem"
	"github.com/arthur-debert/rulesplit/pkg/groups"
	"github.com/arthur-debert/rulesplit/pkg/logging"
)

// TargetResult reports what happened to one target
type TargetResult struct {
	File     string      `json:"file" yaml:"file"`
	Mode     config.Mode `json:"mode" yaml:"mode"`
	Matched  []string    `json:"matched" yaml:"matched"`
	Missing  []string    `json:"missing,omitempty" yaml:"missing,omitempty"`
	Excluded []string    `json:"excluded,omitempty" yaml:"excluded,omitempty"`
	Lines    int         `json:"lines" yaml:"lines"`
	Bytes    int         `json:"bytes" yaml:"bytes"`
	Written  bool        `json:"written" yaml:"written"`
}

// Emitter writes targets through a filesystem
type Emitter struct {
	fs          afero.Fs
	placeholder string
	dryRun      bool
	logger      zerolog.Logger
}

// NewEmitter creates an emitter that substitutes placeholder in every line
func NewEmitter(fs afero.Fs, placeholder string, dryRun bool) *Emitter {
	return &Emitter{
		fs:          fs,
		placeholder: placeholder,
		dryRun:      dryRun,
		logger:      logging.GetLogger("emit"),
	}
}

// Emit selects, renders and writes one target. In dry-run mode nothing is
// written but the result is filled in as if it had been.
func (e *Emitter) Emit(set *groups.Set, target config.Target) (TargetResult, error) {
	if target.Mode() == config.ModeInvalid {
		return TargetResult{}, errors.Newf(errors.ErrConfigValid, "target %s needs exactly one of include or exclude", target.File).
			WithDetail("file", target.File)
	}

	sel := Select(set, target)
	content := Render(sel.Lines, e.placeholder, target.DNS)

	result := TargetResult{
		File:     target.File,
		Mode:     sel.Mode,
		Matched:  sel.Matched,
		Missing:  sel.Missing,
		Excluded: sel.Excluded,
		Lines:    len(sel.Lines),
		Bytes:    len(content),
	}

	for _, name := range sel.Matched {
		e.logger.Info().Str("file", target.File).Str("group", name).Msg("Group selected")
	}
	for _, name := range sel.Excluded {
		e.logger.Info().Str("file", target.File).Str("group", name).Msg("Group excluded")
	}
	for _, name := range sel.Missing {
		e.logger.Warn().Str("file", target.File).Str("group", name).Msg("Included group not found in source")
	}

	if e.dryRun {
		e.logger.Info().Str("file", target.File).Int("lines", result.Lines).Msg("Dry run, skipping write")
		return result, nil
	}

	if err := filesystem.WriteFileAtomic(e.fs, target.File, []byte(content), filesystem.DefaultFileMode); err != nil {
		return result, errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", target.File).
			WithDetail("file", target.File)
	}
	result.Written = true

	e.logger.Info().Str("file", target.File).Int("lines", result.Lines).Int("bytes", result.Bytes).Msg("Target written")
	return result, nil
}
