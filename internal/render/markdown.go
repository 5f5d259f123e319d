// Package render turns parsed release notes into aggregate markdown
// changelogs and styled terminal output.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/timbrel/relnote/internal/note"
)

// MarkdownOptions configures aggregate changelog rendering.
type MarkdownOptions struct {
	// Project names the project in the changelog preamble.
	Project string
	// RepoURL enables version comparison links in the footer when set
	// (e.g. "https://github.com/timbrel/GitSavvy").
	RepoURL string
}

// Markdown generates an aggregate changelog document from the given
// notes, which must be ordered newest first. The output is idempotent:
// the same notes always produce identical bytes, so a generated
// CHANGELOG.md can be verified against its messages directory.
func Markdown(notes []*note.Note, w io.Writer, opts MarkdownOptions) error {
	if err := renderHeader(w, opts); err != nil {
		return fmt.Errorf("rendering header: %w", err)
	}

	for i, n := range notes {
		if err := renderNote(n, w, i == 0); err != nil {
			return fmt.Errorf("rendering version %s: %w", n.Version, err)
		}
	}

	if err := renderFooterLinks(notes, w, opts); err != nil {
		return fmt.Errorf("rendering footer links: %w", err)
	}
	return nil
}

// MarkdownString is a convenience function that renders to a string.
func MarkdownString(notes []*note.Note, opts MarkdownOptions) (string, error) {
	var b strings.Builder
	if err := Markdown(notes, &b, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

// VersionMarkdown writes one version's sections as markdown, suitable
// for GitHub release notes.
func VersionMarkdown(n *note.Note, w io.Writer) error {
	first := true
	for _, s := range orderedSections(n) {
		items := s.Items()
		if len(items) == 0 {
			continue
		}

		if !first {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		first = false

		header := sectionDisplayName(s.Header)
		if _, err := fmt.Fprintf(w, "### %s\n", header); err != nil {
			return err
		}
		for _, item := range items {
			if _, err := fmt.Fprintf(w, "- %s\n", item); err != nil {
				return err
			}
		}
	}
	return nil
}

// VersionMarkdownString renders one version's sections to a string.
func VersionMarkdownString(n *note.Note) string {
	var b strings.Builder
	_ = VersionMarkdown(n, &b)
	return b.String()
}

func renderHeader(w io.Writer, opts MarkdownOptions) error {
	project := opts.Project
	if project == "" {
		project = "this project"
	}
	header := `# Changelog

All notable changes to ` + project + ` are documented in this file.
Entries are generated from the messages directory, newest version first.

`
	_, err := w.Write([]byte(header))
	return err
}

func renderNote(n *note.Note, w io.Writer, isFirst bool) error {
	if !isFirst {
		if _, err := w.Write([]byte("\n")); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "## %s\n", versionHeading(n)); err != nil {
		return err
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return err
	}
	return VersionMarkdown(n, w)
}

func versionHeading(n *note.Note) string {
	if n.IsUnreleased() {
		return "[Unreleased]"
	}
	return fmt.Sprintf("[%s]", n.Version)
}

// renderFooterLinks writes version comparison links. Each version links
// against the next older one; the oldest links to its release tag.
func renderFooterLinks(notes []*note.Note, w io.Writer, opts MarkdownOptions) error {
	if opts.RepoURL == "" || len(notes) == 0 {
		return nil
	}

	if _, err := w.Write([]byte("\n")); err != nil {
		return err
	}

	for i, n := range notes {
		link := formatVersionLink(n, notes, i, opts.RepoURL)
		if link == "" {
			continue
		}
		if _, err := w.Write([]byte(link + "\n")); err != nil {
			return err
		}
	}
	return nil
}

func formatVersionLink(n *note.Note, notes []*note.Note, index int, repoURL string) string {
	if n.IsUnreleased() {
		if index+1 < len(notes) {
			return fmt.Sprintf("[Unreleased]: %s/compare/%s...HEAD", repoURL, notes[index+1].Version)
		}
		return ""
	}

	if index+1 < len(notes) {
		prev := notes[index+1].Version
		return fmt.Sprintf("[%s]: %s/compare/%s...%s", n.Version, repoURL, prev, n.Version)
	}
	return fmt.Sprintf("[%s]: %s/releases/tag/%s", n.Version, repoURL, n.Version)
}

// orderedSections returns the note's sections in standard rendering
// order: known sections first in their canonical sequence, then the
// rest in document order.
func orderedSections(n *note.Note) []note.Section {
	rank := make(map[string]int, len(note.KnownSections()))
	for i, name := range note.KnownSections() {
		rank[name] = i
	}

	sections := append([]note.Section(nil), n.Sections...)
	sort.SliceStable(sections, func(i, j int) bool {
		ri, iKnown := rank[note.CanonicalSection(sections[i].Header)]
		rj, jKnown := rank[note.CanonicalSection(sections[j].Header)]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown:
			return true
		default:
			return false
		}
	})
	return sections
}

// sectionDisplayName formats a section header for markdown output:
// the trailing colon is dropped and the preamble section is titled
// "Notes".
func sectionDisplayName(header string) string {
	h := strings.TrimSuffix(strings.TrimSpace(header), ":")
	if h == "" {
		return "Notes"
	}
	return h
}
