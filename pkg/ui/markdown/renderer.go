// Package markdown renders reports as markdown. When styled, the markdown
// is passed through glamour for display in a terminal.
package markdown

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/arthur-debert/rulesplit/pkg/ui/display"
)

const wordWrap = 100

// Renderer writes markdown reports
type Renderer struct {
	output io.Writer
	styled bool
}

// New creates a markdown renderer. With styled set, output is rendered for
// the terminal instead of written as raw markdown.
func New(output io.Writer, styled bool) (*Renderer, error) {
	return &Renderer{output: output, styled: styled}, nil
}

// RenderResult renders a report as markdown
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *display.RunReport:
		return r.write(RunMarkdown(v))
	case *display.GroupsReport:
		return r.write(GroupsMarkdown(v))
	default:
		return r.write(fmt.Sprintf("%v\n", result))
	}
}

// RenderError renders an error as a markdown blockquote
func (r *Renderer) RenderError(err error) error {
	return r.write("> **Error:** " + err.Error() + "\n")
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	return r.write(msg + "\n")
}

func (r *Renderer) write(md string) error {
	if r.styled {
		tr, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrap),
		)
		if err != nil {
			return fmt.Errorf("failed to create markdown renderer: %w", err)
		}
		out, err := tr.Render(md)
		if err != nil {
			return fmt.Errorf("failed to render markdown: %w", err)
		}
		md = out
	}
	_, err := io.WriteString(r.output, md)
	return err
}

// RunMarkdown formats a run report
func RunMarkdown(report *display.RunReport) string {
	var b strings.Builder

	title := "# rulesplit run"
	if report.DryRun {
		title += " (dry run)"
	}
	b.WriteString(title + "\n\n")
	writeSource(&b, report.URL, report.FinalURL, report.Redirected())

	if len(report.Targets) > 0 {
		b.WriteString("| File | Selection | Lines | Bytes | Written |\n")
		b.WriteString("|---|---|---:|---:|---|\n")
		for _, tr := range report.Targets {
			written := "yes"
			if !tr.Written {
				written = "no"
			}
			fmt.Fprintf(&b, "| `%s` | %s | %d | %d | %s |\n",
				tr.File, escape(display.SelectionLabel(tr)), tr.Lines, tr.Bytes, written)
		}
		b.WriteString("\n")
	}

	for _, tr := range report.Targets {
		if len(tr.Missing) > 0 {
			fmt.Fprintf(&b, "> **Warning:** `%s` names missing groups: %s\n\n",
				tr.File, escape(strings.Join(tr.Missing, ", ")))
		}
	}

	if report.Elapsed != "" {
		fmt.Fprintf(&b, "_%d groups, done in %s_\n", report.Groups, report.Elapsed)
	}
	return b.String()
}

// GroupsMarkdown formats a group listing
func GroupsMarkdown(report *display.GroupsReport) string {
	var b strings.Builder

	b.WriteString("# Groups\n\n")
	writeSource(&b, report.URL, report.FinalURL, report.Redirected())

	if len(report.Groups) == 0 {
		b.WriteString("_No groups found_\n")
		return b.String()
	}

	b.WriteString("| Group | Lines |\n")
	b.WriteString("|---|---:|\n")
	for _, g := range report.Groups {
		fmt.Fprintf(&b, "| %s | %d |\n", escape(g.Name), g.LineCount)
	}
	fmt.Fprintf(&b, "| **total** | %d |\n", report.TotalLines)

	if report.ShowLines {
		for _, g := range report.Groups {
			fmt.Fprintf(&b, "\n## %s\n\n```\n", g.Name)
			for _, line := range g.Lines {
				b.WriteString(line + "\n")
			}
			b.WriteString("```\n")
		}
	}
	return b.String()
}

func writeSource(b *strings.Builder, url, finalURL string, redirected bool) {
	if url == "" {
		return
	}
	fmt.Fprintf(b, "Source: <%s>\n", url)
	if redirected {
		fmt.Fprintf(b, "(served from <%s>)\n", finalURL)
	}
	b.WriteString("\n")
}

var escaper = strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`)

func escape(s string) string {
	return escaper.Replace(s)
}
