// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/arthur-debert/rulesplit/pkg/ui/display"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// RenderResult renders a report as plain text
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *display.RunReport:
		return r.renderRun(v)
	case *display.GroupsReport:
		return r.renderGroups(v)
	default:
		_, err := fmt.Fprintf(r.output, "%v\n", result)
		return err
	}
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, writeErr := fmt.Fprintf(r.output, "Error: %v\n", err)
	return writeErr
}

// RenderMessage renders a simple message as plain text
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

func (r *Renderer) renderRun(report *display.RunReport) error {
	var b strings.Builder

	header := "run"
	if report.DryRun {
		header += " (dry run)"
	}
	b.WriteString(header + "\n")
	writeSource(&b, report.URL, report.FinalURL, report.Redirected())
	fmt.Fprintf(&b, "groups: %d\n", report.Groups)

	if len(report.Targets) == 0 {
		b.WriteString("No targets processed\n")
	}
	for _, tr := range report.Targets {
		state := "written"
		if !tr.Written {
			state = "not written"
		}
		fmt.Fprintf(&b, "%s: %s, %d lines, %d bytes [%s]\n",
			tr.File, state, tr.Lines, tr.Bytes, display.SelectionLabel(tr))
		if len(tr.Missing) > 0 {
			fmt.Fprintf(&b, "    missing groups: %s\n", strings.Join(tr.Missing, ", "))
		}
	}
	if report.Elapsed != "" {
		fmt.Fprintf(&b, "done in %s\n", report.Elapsed)
	}

	_, err := io.WriteString(r.output, b.String())
	return err
}

func (r *Renderer) renderGroups(report *display.GroupsReport) error {
	var b strings.Builder
	writeSource(&b, report.URL, report.FinalURL, report.Redirected())

	if len(report.Groups) == 0 {
		b.WriteString("No groups found\n")
		_, err := io.WriteString(r.output, b.String())
		return err
	}

	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tLINES")
	for _, g := range report.Groups {
		fmt.Fprintf(tw, "%s\t%d\n", g.Name, g.LineCount)
	}
	fmt.Fprintf(tw, "total\t%d\n", report.TotalLines)
	if err := tw.Flush(); err != nil {
		return err
	}

	if report.ShowLines {
		for _, g := range report.Groups {
			fmt.Fprintf(&b, "\n# > %s\n", g.Name)
			for _, line := range g.Lines {
				b.WriteString(line + "\n")
			}
		}
	}

	_, err := io.WriteString(r.output, b.String())
	return err
}

func writeSource(b *strings.Builder, url, finalURL string, redirected bool) {
	if url == "" {
		return
	}
	fmt.Fprintf(b, "source: %s\n", url)
	if redirected {
		fmt.Fprintf(b, "    served from: %s\n", finalURL)
	}
}
