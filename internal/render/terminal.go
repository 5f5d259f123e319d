package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/timbrel/relnote/internal/note"
)

// SectionStyle defines the color and icon for a release-note section.
type SectionStyle struct {
	Color *color.Color
	Icon  string
}

// sectionStyles maps canonical section names to their terminal styling.
// Unknown sections fall back to defaultStyle.
var sectionStyles = map[string]SectionStyle{
	"breaking":     {Color: color.New(color.FgRed, color.Bold), Icon: "⚠"},
	"features":     {Color: color.New(color.FgGreen), Icon: "✓"},
	"improvements": {Color: color.New(color.FgBlue), Icon: "~"},
	"fixes":        {Color: color.New(color.FgYellow), Icon: "⚡"},
	"deprecated":   {Color: color.New(color.FgRed), Icon: "⚠"},
	"removed":      {Color: color.New(color.FgRed), Icon: "✗"},
	"internal":     {Color: color.New(color.FgMagenta), Icon: "•"},
	"contributors": {Color: color.New(color.FgCyan), Icon: "♥"},
}

var defaultStyle = SectionStyle{Color: color.New(color.FgWhite), Icon: "•"}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// Terminal writes flattened entries to the writer with terminal
// styling, grouped by version with color-coded section headers.
// Entries must be ordered newest version first.
func Terminal(entries []note.Entry, w io.Writer, opts FormatOptions) error {
	if len(entries) == 0 {
		return nil
	}

	width := resolveWidth(opts.MaxWidth)
	for i, group := range groupByVersion(entries) {
		if err := formatVersionGroup(group, w, opts, width, i > 0); err != nil {
			return fmt.Errorf("formatting version %s: %w", group.version, err)
		}
	}
	return nil
}

// TerminalNote writes a single note's entries to the writer.
func TerminalNote(n *note.Note, w io.Writer, opts FormatOptions) error {
	width := resolveWidth(opts.MaxWidth)

	if err := writeVersionHeader(n.Version, n.Title, w, opts); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, s := range orderedSections(n) {
		items := s.Items()
		if len(items) == 0 {
			continue
		}
		sectionName := note.CanonicalSection(s.Header)
		entries := make([]note.Entry, len(items))
		for i, text := range items {
			entries[i] = note.Entry{Text: text, Section: sectionName}
		}
		if err := writeSection(sectionName, entries, w, opts, width); err != nil {
			return err
		}
	}
	return nil
}

type versionGroup struct {
	version string
	entries []note.Entry
}

// groupByVersion groups entries by their version, preserving order.
func groupByVersion(entries []note.Entry) []versionGroup {
	var groups []versionGroup
	var current *versionGroup

	for _, e := range entries {
		if current == nil || current.version != e.Version {
			if current != nil {
				groups = append(groups, *current)
			}
			current = &versionGroup{version: e.Version}
		}
		current.entries = append(current.entries, e)
	}
	if current != nil {
		groups = append(groups, *current)
	}
	return groups
}

func formatVersionGroup(group versionGroup, w io.Writer, opts FormatOptions, width int, addSeparator bool) error {
	if addSeparator {
		fmt.Fprintln(w)
	}
	if err := writeVersionHeader(group.version, "", w, opts); err != nil {
		return err
	}

	bySection := make(map[string][]note.Entry)
	var extra []string
	for _, e := range group.entries {
		if _, seen := bySection[e.Section]; !seen && !isKnownSection(e.Section) {
			extra = append(extra, e.Section)
		}
		bySection[e.Section] = append(bySection[e.Section], e)
	}

	for _, name := range append(note.KnownSections(), extra...) {
		if entries, ok := bySection[name]; ok {
			if err := writeSection(name, entries, w, opts, width); err != nil {
				return err
			}
		}
	}
	return nil
}

func isKnownSection(name string) bool {
	for _, known := range note.KnownSections() {
		if known == name {
			return true
		}
	}
	return false
}

func writeVersionHeader(version, title string, w io.Writer, opts FormatOptions) error {
	header := title
	if header == "" {
		if version == "unreleased" {
			header = "Unreleased"
		} else {
			header = "v" + version
		}
	}

	if opts.Plain {
		_, err := fmt.Fprintf(w, "## %s\n", header)
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	_, err := fmt.Fprintf(w, "## %s\n", bold(header))
	return err
}

func writeSection(name string, entries []note.Entry, w io.Writer, opts FormatOptions, width int) error {
	style, ok := sectionStyles[name]
	if !ok {
		style = defaultStyle
	}

	if err := writeSectionHeader(name, style, w, opts); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := writeEntry(entry, style, w, opts, width); err != nil {
			return err
		}
	}
	return nil
}

func writeSectionHeader(name string, style SectionStyle, w io.Writer, opts FormatOptions) error {
	displayName := capitalizeFirst(name)

	if opts.Plain {
		_, err := fmt.Fprintf(w, "\n### %s\n", displayName)
		return err
	}

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "\n%s %s\n", colored(style.Icon), colored(displayName))
	return err
}

func writeEntry(entry note.Entry, style SectionStyle, w io.Writer, opts FormatOptions, width int) error {
	prefix := "  - "

	if opts.Plain {
		_, err := fmt.Fprintf(w, "%s%s\n", prefix, entry.Text)
		return err
	}

	wrapped := wrapText(entry.Text, width-len(prefix), "    ")
	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "%s%s\n", prefix, colored(wrapped))
	return err
}

// EntrySummary returns a brief one-line summary of an entry.
func EntrySummary(entry note.Entry, opts FormatOptions) string {
	text := truncateText(entry.Text, 60)

	if opts.Plain {
		return fmt.Sprintf("[%s] %s", entry.Section, text)
	}

	style, ok := sectionStyles[entry.Section]
	if !ok {
		style = defaultStyle
	}
	colored := style.Color.SprintFunc()
	return fmt.Sprintf("%s %s", colored(style.Icon), text)
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for
// continuation lines. Breaks fall on rune boundaries so multi-byte
// text (contributor names in particular) never gets split mid-rune.
func wrapText(text string, maxWidth int, indent string) string {
	remaining := []rune(text)
	if maxWidth <= 0 || len(remaining) <= maxWidth {
		return text
	}

	var lines []string
	for len(remaining) > maxWidth {
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}
		lines = append(lines, string(remaining[:breakPoint]))
		remaining = remaining[breakPoint:]
		for len(remaining) > 0 && remaining[0] == ' ' {
			remaining = remaining[1:]
		}
	}
	if len(remaining) > 0 {
		lines = append(lines, string(remaining))
	}

	return strings.Join(lines, "\n"+indent)
}

func truncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-3]) + "..."
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
