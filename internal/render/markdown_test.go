package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timbrel/relnote/internal/note"
)

func mustParse(t *testing.T, version, content string) *note.Note {
	t.Helper()
	n, err := note.Parse(version, []byte(content))
	require.NoError(t, err)
	return n
}

func sampleNotes(t *testing.T) []*note.Note {
	t.Helper()
	return []*note.Note{
		mustParse(t, "2.20.0", "GitSavvy 2.20.0\n\nFeatures:\n  - feature B\n\nFix:\n  - fix B\n"),
		mustParse(t, "2.19.0", "GitSavvy 2.19.0\n\nFeatures:\n  - feature A\n"),
	}
}

func TestMarkdown_Structure(t *testing.T) {
	out, err := MarkdownString(sampleNotes(t), MarkdownOptions{Project: "GitSavvy"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# Changelog\n"))
	assert.Contains(t, out, "All notable changes to GitSavvy")
	assert.Contains(t, out, "## [2.20.0]")
	assert.Contains(t, out, "## [2.19.0]")
	assert.Contains(t, out, "### Features\n- feature B\n")
	assert.Contains(t, out, "### Fix\n- fix B\n")

	// Newest version renders first.
	assert.Less(t, strings.Index(out, "[2.20.0]"), strings.Index(out, "[2.19.0]"))
}

func TestMarkdown_Idempotent(t *testing.T) {
	notes := sampleNotes(t)
	first, err := MarkdownString(notes, MarkdownOptions{Project: "GitSavvy"})
	require.NoError(t, err)
	second, err := MarkdownString(notes, MarkdownOptions{Project: "GitSavvy"})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMarkdown_FooterLinks(t *testing.T) {
	repo := "https://github.com/timbrel/GitSavvy"
	out, err := MarkdownString(sampleNotes(t), MarkdownOptions{Project: "GitSavvy", RepoURL: repo})
	require.NoError(t, err)

	assert.Contains(t, out, "[2.20.0]: "+repo+"/compare/2.19.0...2.20.0")
	// Oldest version links to its tag, not a comparison.
	assert.Contains(t, out, "[2.19.0]: "+repo+"/releases/tag/2.19.0")
}

func TestMarkdown_NoFooterWithoutRepoURL(t *testing.T) {
	out, err := MarkdownString(sampleNotes(t), MarkdownOptions{Project: "GitSavvy"})
	require.NoError(t, err)
	assert.NotContains(t, out, "compare/")
}

func TestMarkdown_Unreleased(t *testing.T) {
	notes := []*note.Note{
		mustParse(t, "unreleased", "Upcoming\n\nFeatures:\n  - next thing\n"),
		mustParse(t, "2.19.0", "GitSavvy 2.19.0\n\nFeatures:\n  - feature A\n"),
	}

	repo := "https://github.com/timbrel/GitSavvy"
	out, err := MarkdownString(notes, MarkdownOptions{Project: "GitSavvy", RepoURL: repo})
	require.NoError(t, err)

	assert.Contains(t, out, "## [Unreleased]\n")
	assert.Contains(t, out, "[Unreleased]: "+repo+"/compare/2.19.0...HEAD")
}

func TestMarkdown_EmptyStore(t *testing.T) {
	out, err := MarkdownString(nil, MarkdownOptions{Project: "GitSavvy"})
	require.NoError(t, err)
	assert.Contains(t, out, "# Changelog")
}

func TestVersionMarkdown_SectionOrder(t *testing.T) {
	// Document order: Contributors first, Features second. Rendering
	// follows the canonical order instead.
	n := mustParse(t, "1.0.0", "1.0.0\n\nContributors:\n  - someone\n\nFeatures:\n  - thing\n")

	out := VersionMarkdownString(n)
	assert.Less(t, strings.Index(out, "### Features"), strings.Index(out, "### Contributors"))
}

func TestVersionMarkdown_PreambleSection(t *testing.T) {
	n := mustParse(t, "1.0.0", "1.0.0\n\nA hotfix release.\n\nFix:\n  - the bug\n")

	out := VersionMarkdownString(n)
	assert.Contains(t, out, "### Notes\n- A hotfix release.\n")
	assert.Contains(t, out, "### Fix\n- the bug\n")
}
