package emit

import (
	"strings"

	"github.com/arthur-debert/rulesplit/pkg/config"
	"github.com/arthur-debert/rulesplit/pkg/groups"
)

// Selection is the outcome of applying a target's group policy to a set
type Selection struct {
	Mode config.Mode
	// Matched lists the groups whose lines were taken, in output order
	Matched []string
	// Missing lists include names that the set does not contain
	Missing []string
	// Excluded lists set groups that were skipped because of the exclude list
	Excluded []string
	Lines    []string
}

// Select picks the lines a target asks for. Inclusion follows the target's
// list order; exclusion follows the set's insertion order. Unknown include
// names contribute nothing.
func Select(set *groups.Set, target config.Target) Selection {
	sel := Selection{Mode: target.Mode(), Lines: []string{}}

	switch sel.Mode {
	case config.ModeInclude:
		for _, name := range target.Include {
			lines, ok := set.Lines(name)
			if !ok {
				sel.Missing = append(sel.Missing, name)
				continue
			}
			sel.Matched = append(sel.Matched, name)
			sel.Lines = append(sel.Lines, lines...)
		}
	case config.ModeExclude:
		excluded := make(map[string]bool, len(target.Exclude))
		for _, name := range target.Exclude {
			excluded[name] = true
		}
		for _, name := range set.Names() {
			if excluded[name] {
				sel.Excluded = append(sel.Excluded, name)
				continue
			}
			lines, _ := set.Lines(name)
			sel.Matched = append(sel.Matched, name)
			sel.Lines = append(sel.Lines, lines...)
		}
	}

	return sel
}

// Render replaces every placeholder occurrence with value and joins the
// lines with a single newline, without a trailing one
func Render(lines []string, placeholder, value string) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = strings.ReplaceAll(line, placeholder, value)
	}
	return strings.Join(out, "\n")
}
