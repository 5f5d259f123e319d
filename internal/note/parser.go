package note

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/timbrel/relnote/internal/semver"
)

// ValidationError represents a release-note validation error with context.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Parse parses a release-note document for the given version identifier.
// The format is deliberately loose: a title line, optional section
// headers ("Features:", "Fix:", "Contributors:"), and indented bullet
// lines. Unknown headers are preserved as-is, and no bytes are lost —
// the returned note's Raw() is exactly the input.
func Parse(version string, content []byte) (*Note, error) {
	n := &Note{
		Version: semver.Normalize(version),
		raw:     append([]byte(nil), content...),
	}

	var current *Section
	flush := func() {
		if current != nil {
			n.Sections = append(n.Sections, *current)
			current = nil
		}
	}

	sc := bufio.NewScanner(strings.NewReader(string(content)))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()

		if n.Title == "" && strings.TrimSpace(line) != "" && current == nil && len(n.Sections) == 0 {
			if !isSectionHeader(line) {
				n.Title = strings.TrimSpace(line)
				continue
			}
		}

		// Underline rows decorating the title carry no content.
		if isUnderline(line) && len(n.Sections) == 0 && current == nil {
			continue
		}

		if isSectionHeader(line) {
			flush()
			current = &Section{Header: strings.TrimSpace(line)}
			continue
		}

		if strings.TrimSpace(line) == "" {
			if current != nil && len(current.Lines) > 0 {
				current.Lines = append(current.Lines, line)
			}
			continue
		}

		if current == nil {
			// Preamble before the first header.
			current = &Section{}
		}
		current.Lines = append(current.Lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning note content: %w", err)
	}
	flush()

	trimTrailingBlanks(n)

	if err := Validate(n); err != nil {
		return nil, err
	}
	return n, nil
}

// ParseReader reads the full content of r and parses it.
func ParseReader(version string, r io.Reader) (*Note, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading note content: %w", err)
	}
	return Parse(version, content)
}

// Validate checks that a parsed note satisfies the store's constraints:
// a well-formed version identifier and a non-empty body.
func Validate(n *Note) error {
	if n.Version == "" {
		return &ValidationError{Field: "version", Message: "required field is empty"}
	}
	if !semver.IsValid(n.Version) {
		return &ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("invalid version format %q (expected: X.Y.Z)", n.Version),
		}
	}
	if n.Title == "" && len(n.Sections) == 0 {
		return &ValidationError{
			Field:   "content",
			Message: "note document is empty",
		}
	}
	return nil
}

// isSectionHeader reports whether the line opens a new section: a
// non-indented line ending in a colon, e.g. "Features:" or "Fix:".
func isSectionHeader(line string) bool {
	if line == "" || line[0] == ' ' || line[0] == '\t' {
		return false
	}
	trimmed := strings.TrimSpace(line)
	return strings.HasSuffix(trimmed, ":") && len(trimmed) > 1
}

// isUnderline reports whether the line is a decorative run of = or -.
func isUnderline(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 2 {
		return false
	}
	for _, r := range trimmed {
		if r != '=' && r != '-' {
			return false
		}
	}
	return true
}

// trimTrailingBlanks drops blank lines kept at the end of each section.
func trimTrailingBlanks(n *Note) {
	for i := range n.Sections {
		lines := n.Sections[i].Lines
		for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
			lines = lines[:len(lines)-1]
		}
		n.Sections[i].Lines = lines
	}
}

// Items returns the section's bullet entries with markers stripped and
// continuation lines folded in. Non-bullet lines stand as their own items.
func (s *Section) Items() []string {
	var items []string
	for _, line := range s.Lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if text, ok := bulletText(trimmed); ok {
			items = append(items, text)
			continue
		}
		if len(items) > 0 && isIndented(line) {
			items[len(items)-1] += " " + trimmed
			continue
		}
		items = append(items, trimmed)
	}
	return items
}

func bulletText(trimmed string) (string, bool) {
	for _, marker := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(trimmed, marker) {
			return strings.TrimSpace(trimmed[len(marker):]), true
		}
	}
	return "", false
}

func isIndented(line string) bool {
	return len(line) > 0 && (line[0] == ' ' || line[0] == '\t')
}

// CanonicalSection maps a raw section header to a canonical lower-case
// name used for styling and querying. "Fix:", "Fixes:" and "Bug Fixes:"
// all canonicalize to "fixes"; unknown headers keep their lower-cased
// form. The empty header (preamble) canonicalizes to "notes".
func CanonicalSection(header string) string {
	h := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(header), ":"))
	switch h {
	case "":
		return "notes"
	case "feature", "features", "new features":
		return "features"
	case "improvement", "improvements", "enhancements":
		return "improvements"
	case "fix", "fixes", "bug fixes", "bugfixes", "fixed":
		return "fixes"
	case "internal", "internals", "under the hood":
		return "internal"
	case "contributors", "thanks", "credits":
		return "contributors"
	case "deprecated", "deprecations":
		return "deprecated"
	case "removed", "removals":
		return "removed"
	case "breaking", "breaking changes":
		return "breaking"
	default:
		return h
	}
}

// KnownSections returns the canonical section names in their standard
// rendering order. Sections outside this list render after them, in
// document order.
func KnownSections() []string {
	return []string{"breaking", "features", "improvements", "fixes", "deprecated", "removed", "internal", "contributors"}
}
