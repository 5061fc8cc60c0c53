package groups

import (
	"regexp"
	"strings"
)

// CommentMarker starts every structural line
const CommentMarker = "#"

var (
	headerPattern = regexp.MustCompile(`^#\s*>\s*(.*)$`)
	lineSplit     = regexp.MustCompile(`\r?\n`)
)

// Group is a named, ordered list of rule lines
type Group struct {
	Name  string   `json:"name" yaml:"name"`
	Lines []string `json:"lines" yaml:"lines"`
}

// Set holds groups in the order their names first appeared
type Set struct {
	order []string
	lines map[string][]string
}

// NewSet returns an empty set
func NewSet() *Set {
	return &Set{lines: make(map[string][]string)}
}

// Parse buckets the lines of text under the most recent header. It never fails.
func Parse(text string) *Set {
	set := NewSet()
	current := ""

	for _, line := range lineSplit.Split(text, -1) {
		trimmed := strings.TrimSpace(line)

		if name, ok := HeaderName(trimmed); ok {
			set.open(name)
			current = name
			continue
		}

		if trimmed == "" || strings.HasPrefix(trimmed, CommentMarker) || current == "" {
			continue
		}

		set.lines[current] = append(set.lines[current], trimmed)
	}

	return set
}

// HeaderName reports whether line is a group header and returns its name.
// A header with an empty name is an ordinary comment.
func HeaderName(line string) (string, bool) {
	m := headerPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return "", false
	}
	return name, true
}

func (s *Set) open(name string) {
	if _, ok := s.lines[name]; ok {
		return
	}
	s.order = append(s.order, name)
	s.lines[name] = []string{}
}

// Names returns group names in insertion order
func (s *Set) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Lines returns a copy of the named group's lines
func (s *Set) Lines(name string) ([]string, bool) {
	lines, ok := s.lines[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(lines))
	copy(out, lines)
	return out, true
}

// Has reports whether a group with this name exists
func (s *Set) Has(name string) bool {
	_, ok := s.lines[name]
	return ok
}

// Len returns the number of groups
func (s *Set) Len() int {
	return len(s.order)
}

// TotalLines returns the number of rule lines across all groups
func (s *Set) TotalLines() int {
	total := 0
	for _, name := range s.order {
		total += len(s.lines[name])
	}
	return total
}

// Groups returns every group in insertion order
func (s *Set) Groups() []Group {
	out := make([]Group, 0, len(s.order))
	for _, name := range s.order {
		lines, _ := s.Lines(name)
		out = append(out, Group{Name: name, Lines: lines})
	}
	return out
}
