package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timbrel/relnote/internal/note"
)

func writeMessages(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func noteContent(title string) string {
	return title + "\n\nFeatures:\n  - something new\n"
}

func TestLoad_DirectoryListing(t *testing.T) {
	dir := writeMessages(t, map[string]string{
		"2.19.0.txt": noteContent("GitSavvy 2.19.0"),
		"2.20.0.txt": noteContent("GitSavvy 2.20.0"),
		"2.9.0.txt":  noteContent("GitSavvy 2.9.0"),
	})

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))

	// Ordering is semver, not lexical: 2.9.0 is oldest.
	assert.Equal(t, []string{"2.20.0", "2.19.0", "2.9.0"}, s.Versions())
	assert.Equal(t, 3, s.VersionCount())
}

func TestLoad_WithIndex(t *testing.T) {
	index, err := json.Marshal(map[string]string{
		"2.19.0": "a.txt",
		"2.20.0": "b.txt",
	})
	require.NoError(t, err)

	dir := writeMessages(t, map[string]string{
		"messages.json": string(index),
		"a.txt":         noteContent("GitSavvy 2.19.0"),
		"b.txt":         noteContent("GitSavvy 2.20.0"),
		"ignored.txt":   noteContent("not indexed"),
	})

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))

	// Only indexed documents are loaded.
	assert.Equal(t, []string{"2.20.0", "2.19.0"}, s.Versions())

	file, ok := s.File("2.19.0")
	require.True(t, ok)
	assert.Equal(t, "a.txt", file)
}

func TestLoad_MalformedIndex(t *testing.T) {
	dir := writeMessages(t, map[string]string{
		"messages.json": "{not json",
	})

	s, err := Open(dir)
	require.NoError(t, err)
	err = s.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "messages.json")
}

func TestLoad_DuplicateVersion(t *testing.T) {
	dir := writeMessages(t, map[string]string{
		"1.2.0.txt":  noteContent("1.2.0"),
		"v1.2.0.txt": noteContent("1.2.0 again"),
	})

	s, err := Open(dir)
	require.NoError(t, err)

	err = s.Load(context.Background())
	require.Error(t, err)
	var dup *DuplicateVersionError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "1.2.0", dup.Version)
}

func TestLoad_ParseErrorNamesFile(t *testing.T) {
	dir := writeMessages(t, map[string]string{
		"not-a-version.txt": noteContent("bad"),
	})

	s, err := Open(dir)
	require.NoError(t, err)

	err = s.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not-a-version.txt")
}

func TestGet(t *testing.T) {
	dir := writeMessages(t, map[string]string{
		"2.19.0.txt": noteContent("GitSavvy 2.19.0"),
	})
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))

	tests := map[string]struct {
		version string
		found   bool
	}{
		"exact":        {version: "2.19.0", found: true},
		"v prefix":     {version: "v2.19.0", found: true},
		"missing":      {version: "9.9.9", found: false},
		"not a semver": {version: "latest", found: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			n, err := s.Get(tt.version)
			if !tt.found {
				var notFound *VersionNotFoundError
				require.ErrorAs(t, err, &notFound)
				assert.Equal(t, tt.version, notFound.Version)
				assert.Contains(t, notFound.AvailableVersions, "2.19.0")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "2.19.0", n.Version)
		})
	}
}

func TestRawRoundTrip(t *testing.T) {
	content := "GitSavvy 2.19.0\n===============\n\nFix:\n  - exact bytes matter\n"
	dir := writeMessages(t, map[string]string{"2.19.0.txt": content})

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))

	n, err := s.Get("2.19.0")
	require.NoError(t, err)
	assert.Equal(t, []byte(content), n.Raw())
}

func TestLatestAndUnreleased(t *testing.T) {
	dir := writeMessages(t, map[string]string{
		"2.19.0.txt":     noteContent("GitSavvy 2.19.0"),
		"2.20.0.txt":     noteContent("GitSavvy 2.20.0"),
		"unreleased.txt": noteContent("Upcoming"),
	})
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))

	// Unreleased sorts first but Latest skips it.
	assert.Equal(t, []string{"unreleased", "2.20.0", "2.19.0"}, s.Versions())
	require.NotNil(t, s.Latest())
	assert.Equal(t, "2.20.0", s.Latest().Version)
	assert.True(t, s.HasUnreleased())
}

func TestLastN(t *testing.T) {
	dir := writeMessages(t, map[string]string{
		"1.0.0.txt": "1.0.0\n\nFeatures:\n  - a\n  - b\n",
		"1.1.0.txt": "1.1.0\n\nFeatures:\n  - c\n  - d\n",
	})
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))

	tests := map[string]struct {
		n        int
		expected []string
	}{
		"subset":        {n: 3, expected: []string{"c", "d", "a"}},
		"all":           {n: 10, expected: []string{"c", "d", "a", "b"}},
		"zero":          {n: 0, expected: []string{}},
		"negative":      {n: -1, expected: []string{}},
		"exact count":   {n: 4, expected: []string{"c", "d", "a", "b"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			entries := s.LastN(tt.n)
			texts := make([]string, 0, len(entries))
			for _, e := range entries {
				texts = append(texts, e.Text)
			}
			assert.Equal(t, tt.expected, texts)
		})
	}

	assert.Equal(t, 4, s.EntryCount())
}

func TestOpenFS(t *testing.T) {
	fsys := fstest.MapFS{
		"1.0.0.txt": &fstest.MapFile{Data: []byte(noteContent("1.0.0"))},
	}

	s := OpenFS(fsys)
	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, []string{"1.0.0"}, s.Versions())
	assert.Empty(t, s.Dir())
}

func TestAdd(t *testing.T) {
	dir := writeMessages(t, map[string]string{
		"1.0.0.txt": noteContent("1.0.0"),
	})
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.Add("1.1.0", []byte(noteContent("1.1.0"))))

	// The file landed on disk and the store sees the version.
	onDisk, err := os.ReadFile(filepath.Join(dir, "1.1.0.txt"))
	require.NoError(t, err)
	assert.Equal(t, noteContent("1.1.0"), string(onDisk))
	assert.Equal(t, []string{"1.1.0", "1.0.0"}, s.Versions())
}

func TestAdd_RefusesExistingVersion(t *testing.T) {
	dir := writeMessages(t, map[string]string{
		"1.0.0.txt": noteContent("1.0.0"),
	})
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))

	err = s.Add("1.0.0", []byte(noteContent("rewrite attempt")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "immutable")

	// Original bytes are untouched.
	onDisk, err := os.ReadFile(filepath.Join(dir, "1.0.0.txt"))
	require.NoError(t, err)
	assert.Equal(t, noteContent("1.0.0"), string(onDisk))
}

func TestAdd_UpdatesIndex(t *testing.T) {
	index, err := json.Marshal(map[string]string{"1.0.0": "1.0.0.txt"})
	require.NoError(t, err)
	dir := writeMessages(t, map[string]string{
		"messages.json": string(index),
		"1.0.0.txt":     noteContent("1.0.0"),
	})

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.Add("1.1.0", []byte(noteContent("1.1.0"))))

	content, err := os.ReadFile(filepath.Join(dir, "messages.json"))
	require.NoError(t, err)
	var updated map[string]string
	require.NoError(t, json.Unmarshal(content, &updated))
	assert.Equal(t, "1.1.0.txt", updated["1.1.0"])
}

func TestAdd_NullIndex(t *testing.T) {
	dir := writeMessages(t, map[string]string{
		"messages.json": "null\n",
		"1.0.0.txt":     noteContent("1.0.0"),
	})

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.Add("1.1.0", []byte(noteContent("1.1.0"))))

	content, err := os.ReadFile(filepath.Join(dir, "messages.json"))
	require.NoError(t, err)
	var updated map[string]string
	require.NoError(t, json.Unmarshal(content, &updated))
	assert.Equal(t, map[string]string{"1.1.0": "1.1.0.txt"}, updated)
}

func TestAdd_ReadOnlyStore(t *testing.T) {
	s := OpenFS(fstest.MapFS{})
	err := s.Add("1.0.0", []byte(noteContent("1.0.0")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only")
}

func TestAdd_InvalidContent(t *testing.T) {
	dir := writeMessages(t, nil)
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))

	err = s.Add("1.0.0", []byte(""))
	require.Error(t, err)
	assert.True(t, note.IsValidationError(err))
}

func TestNewFromNotes(t *testing.T) {
	a, err := note.Parse("1.0.0", []byte(noteContent("1.0.0")))
	require.NoError(t, err)
	b, err := note.Parse("1.1.0", []byte(noteContent("1.1.0")))
	require.NoError(t, err)

	s, err := NewFromNotes(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.1.0", "1.0.0"}, s.Versions())

	// Load is a no-op for in-memory stores.
	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, []string{"1.1.0", "1.0.0"}, s.Versions())
}

func TestNewFromNotes_Duplicate(t *testing.T) {
	a, err := note.Parse("1.0.0", []byte(noteContent("1.0.0")))
	require.NoError(t, err)
	b, err := note.Parse("v1.0.0", []byte(noteContent("dup")))
	require.NoError(t, err)

	_, err = NewFromNotes(a, b)
	var dup *DuplicateVersionError
	require.True(t, errors.As(err, &dup))
}

func TestOpen_MissingDirectory(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestLoad_ContextCancelled(t *testing.T) {
	dir := writeMessages(t, map[string]string{
		"1.0.0.txt": noteContent("1.0.0"),
	})
	s, err := Open(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.Load(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
