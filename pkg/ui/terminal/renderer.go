// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/rulesplit/pkg/ui/display"
	"github.com/arthur-debert/rulesplit/pkg/ui/styles"
)

// Renderer provides rich terminal output using lipgloss styles and pterm
// tables
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) (*Renderer, error) {
	return &Renderer{output: w}, nil
}

// RenderResult renders a report with rich terminal formatting
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

// RenderError renders an error in the error style
func (r *Renderer) RenderError(err error) error {
	_, writeErr := fmt.Fprintln(r.output, styles.GetStyle("Error").Render("Error: "+err.Error()))
	return writeErr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

func (r *Renderer) renderRun(report *display.RunReport) error {
	var b strings.Builder

	r.writeSource(&b, report.URL, report.FinalURL, report.Redirected())

	if len(report.Targets) == 0 {
		b.WriteString(styles.GetStyle("Muted").Render("No targets processed") + "\n")
	}
	for _, tr := range report.Targets {
		icon, verb := "📝", "written"
		if !tr.Written {
			icon, verb = "🔍", "would be written"
		}
		counts := fmt.Sprintf("(%d lines, %d bytes)", tr.Lines, tr.Bytes)
		fmt.Fprintf(&b, "%s %s %s %s\n",
			icon,
			styles.GetStyle("FilePath").Render(tr.File),
			styles.GetStyle("Success").Render(verb),
			styles.GetStyle("Muted").Render(counts))
		b.WriteString(styles.GetStyle("Indent").Render(styles.GetStyle("Group").Render(display.SelectionLabel(tr))) + "\n")
		if len(tr.Missing) > 0 {
			warning := "⚠️  missing groups: " + strings.Join(tr.Missing, ", ")
			b.WriteString(styles.GetStyle("Indent").Render(styles.GetStyle("Warning").Render(warning)) + "\n")
		}
	}

	if report.DryRun {
		b.WriteString(styles.GetStyle("DryRunBanner").Render("Dry run: no files were written") + "\n")
	}
	if report.Elapsed != "" {
		b.WriteString(styles.GetStyle("Muted").Render(fmt.Sprintf("%d groups, done in %s", report.Groups, report.Elapsed)) + "\n")
	}

	_, err := io.WriteString(r.output, b.String())
	return err
}

func (r *Renderer) renderGroups(report *display.GroupsReport) error {
	var b strings.Builder
	r.writeSource(&b, report.URL, report.FinalURL, report.Redirected())

	if len(report.Groups) == 0 {
		b.WriteString(styles.GetStyle("Muted").Render("No groups found") + "\n")
		_, err := io.WriteString(r.output, b.String())
		return err
	}

	data := pterm.TableData{{"Group", "Lines"}}
	for _, g := range report.Groups {
		data = append(data, []string{g.Name, strconv.Itoa(g.LineCount)})
	}
	data = append(data, []string{"total", strconv.Itoa(report.TotalLines)})

	table, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		return err
	}
	b.WriteString(table + "\n")

	if report.ShowLines {
		for _, g := range report.Groups {
			b.WriteString("\n" + styles.GetStyle("Header").Render("# > "+g.Name) + "\n")
			for _, line := range g.Lines {
				b.WriteString(styles.GetStyle("Indent").Render(line) + "\n")
			}
		}
	}

	_, err = io.WriteString(r.output, b.String())
	return err
}

func (r *Renderer) writeSource(b *strings.Builder, url, finalURL string, redirected bool) {
	if url == "" {
		return
	}
	b.WriteString(styles.GetStyle("Header").Render("Source") + " " + url + "\n")
	if redirected {
		b.WriteString(styles.GetStyle("Indent").Render(styles.GetStyle("Muted").Render("↪ "+finalURL)) + "\n")
	}
}
