package note

import "github.com/timbrel/relnote/internal/semver"

// Note is a single version's release-note document. A note is created
// once when a version ships and never modified afterwards; the struct
// retains the exact bytes it was parsed from so content round-trips
// through load and store unchanged.
type Note struct {
	// Version is the normalized version identifier ("2.19.0" or "unreleased").
	Version string
	// Title is the first non-empty line of the document.
	Title string
	// Sections holds the document body in order of appearance. Lines
	// before the first section header live in a section with an empty Header.
	Sections []Section

	raw []byte
}

// Section is one titled block of a release note, e.g. "Features:" and
// its indented bullet lines. Lines are stored verbatim, without the
// leading bullet markers stripped.
type Section struct {
	Header string
	Lines  []string
}

// Entry is a flattened view of a single bullet line, carrying its
// section and version context for querying and display.
type Entry struct {
	Text    string
	Section string
	Version string
}

// Raw returns a copy of the exact bytes the note was parsed from.
func (n *Note) Raw() []byte {
	out := make([]byte, len(n.raw))
	copy(out, n.raw)
	return out
}

// IsUnreleased reports whether the note documents unshipped changes.
func (n *Note) IsUnreleased() bool {
	return n.Version == semver.Unreleased
}

// Entries returns the note's bullet lines flattened in document order.
// Continuation lines are folded into the entry they belong to.
func (n *Note) Entries() []Entry {
	var entries []Entry
	for _, s := range n.Sections {
		section := CanonicalSection(s.Header)
		for _, text := range s.Items() {
			entries = append(entries, Entry{Text: text, Section: section, Version: n.Version})
		}
	}
	return entries
}

// EntryCount returns the number of bullet entries across all sections.
func (n *Note) EntryCount() int {
	count := 0
	for _, s := range n.Sections {
		count += len(s.Items())
	}
	return count
}

// Section returns the section with the given canonical name, or nil.
func (n *Note) Section(name string) *Section {
	for i := range n.Sections {
		if CanonicalSection(n.Sections[i].Header) == name {
			return &n.Sections[i]
		}
	}
	return nil
}
