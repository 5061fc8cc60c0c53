// Package display holds the report types handed to renderers. They are
// flattened views of pipeline results, shaped for output rather than for
// processing.
package display

import (
	"strings"
	"time"

	"github.com/arthur-debert/rulesplit/pkg/config"
	"github.com/arthur-debert/rulesplit/pkg/emit"
	"github.com/arthur-debert/rulesplit/pkg/pipeline"
)

// RunReport summarizes a run of the pipeline
type RunReport struct {
	URL      string              `json:"url" yaml:"url"`
	FinalURL string              `json:"final_url" yaml:"final_url"`
	DryRun   bool                `json:"dry_run" yaml:"dry_run"`
	Groups   int                 `json:"groups" yaml:"groups"`
	Targets  []emit.TargetResult `json:"targets" yaml:"targets"`
	Elapsed  string              `json:"elapsed" yaml:"elapsed"`
}

// GroupSummary is one row of a group listing
type GroupSummary struct {
	Name      string   `json:"name" yaml:"name"`
	LineCount int      `json:"line_count" yaml:"line_count"`
	Lines     []string `json:"lines,omitempty" yaml:"lines,omitempty"`
}

// GroupsReport lists the groups found in the source
type GroupsReport struct {
	URL        string         `json:"url" yaml:"url"`
	FinalURL   string         `json:"final_url" yaml:"final_url"`
	Groups     []GroupSummary `json:"groups" yaml:"groups"`
	TotalLines int            `json:"total_lines" yaml:"total_lines"`
	ShowLines  bool           `json:"-" yaml:"-"`
}

// NewRunReport builds a run report. A partial result from a failed run
// yields a report of the targets that completed.
func NewRunReport(res *pipeline.Result) *RunReport {
	if res == nil {
		return &RunReport{Targets: []emit.TargetResult{}}
	}

	report := &RunReport{
		URL:      res.URL,
		FinalURL: res.FinalURL,
		DryRun:   res.DryRun,
		Targets:  res.Targets,
		Elapsed:  FormatElapsed(res.Elapsed),
	}
	if report.Targets == nil {
		report.Targets = []emit.TargetResult{}
	}
	if res.Groups != nil {
		report.Groups = res.Groups.Len()
	}
	return report
}

// NewGroupsReport builds a group listing, including each group's lines
// when withLines is set
func NewGroupsReport(res *pipeline.Result, withLines bool) *GroupsReport {
	report := &GroupsReport{Groups: []GroupSummary{}, ShowLines: withLines}
	if res == nil {
		return report
	}

	report.URL = res.URL
	report.FinalURL = res.FinalURL
	if res.Groups == nil {
		return report
	}

	for _, g := range res.Groups.Groups() {
		summary := GroupSummary{Name: g.Name, LineCount: len(g.Lines)}
		if withLines {
			summary.Lines = g.Lines
		}
		report.Groups = append(report.Groups, summary)
	}
	report.TotalLines = res.Groups.TotalLines()
	return report
}

// Redirected reports whether the source was served from another URL
func (r *RunReport) Redirected() bool {
	return r.FinalURL != "" && r.FinalURL != r.URL
}

// Redirected reports whether the source was served from another URL
func (r *GroupsReport) Redirected() bool {
	return r.FinalURL != "" && r.FinalURL != r.URL
}

// FormatElapsed rounds a duration for display
func FormatElapsed(d time.Duration) string {
	switch {
	case d <= 0:
		return "0s"
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(10 * time.Millisecond).String()
	}
}

// SelectionLabel describes which groups a target drew from
func SelectionLabel(tr emit.TargetResult) string {
	switch tr.Mode {
	case config.ModeInclude:
		return "include " + joinOrNone(tr.Matched)
	case config.ModeExclude:
		return "exclude " + joinOrNone(tr.Excluded)
	default:
		return string(tr.Mode)
	}
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
