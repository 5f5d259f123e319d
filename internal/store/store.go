// Package store implements the filesystem-backed release-note store.
// A store is a messages directory holding one plain-text document per
// shipped version (messages/2.19.0.txt), optionally indexed by a
// messages.json file mapping version identifiers to filenames. Notes
// are immutable once shipped: the store never rewrites an existing
// document, and loaded content round-trips byte-for-byte.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/timbrel/relnote/internal/note"
	"github.com/timbrel/relnote/internal/semver"
)

// IndexFile is the conventional name of the version index inside a
// messages directory.
const IndexFile = "messages.json"

// maxConcurrentReads bounds the number of note files read in parallel.
const maxConcurrentReads = 8

// VersionNotFoundError is returned when a requested version doesn't exist.
type VersionNotFoundError struct {
	Version           string
	AvailableVersions []string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("version %q not found (available: %s)",
		e.Version, strings.Join(e.AvailableVersions, ", "))
}

// DuplicateVersionError is returned when two documents resolve to the
// same version identifier (e.g. "1.2.0.txt" and "v1.2.0.txt").
type DuplicateVersionError struct {
	Version string
	Files   []string
}

func (e *DuplicateVersionError) Error() string {
	return fmt.Sprintf("version %q mapped by more than one document: %s",
		e.Version, strings.Join(e.Files, ", "))
}

// Store serves parsed release notes keyed by version identifier.
// All query methods are safe for concurrent use once Load has returned.
type Store struct {
	dir  string
	fsys fs.FS

	mu    sync.RWMutex
	notes map[string]*note.Note
	files map[string]string // version -> filename within the directory
	order []string          // versions, newest first
}

// Open creates a store over a messages directory on disk. The
// directory must exist; its content is not read until Load.
func Open(dir string) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening messages directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("opening messages directory: %s is not a directory", dir)
	}
	return &Store{dir: dir, fsys: os.DirFS(dir)}, nil
}

// OpenFS creates a read-only store over an fs.FS rooted at the
// messages directory. Used for the embedded snapshot and in tests.
func OpenFS(fsys fs.FS) *Store {
	return &Store{fsys: fsys}
}

// NewFromNotes builds a read-only in-memory store from already-parsed
// notes, e.g. documents fetched from a remote repository. Load is a
// no-op on the returned store.
func NewFromNotes(notes ...*note.Note) (*Store, error) {
	byVersion := make(map[string]*note.Note, len(notes))
	files := make(map[string]string, len(notes))
	order := make([]string, 0, len(notes))
	for _, n := range notes {
		if _, ok := byVersion[n.Version]; ok {
			return nil, &DuplicateVersionError{Version: n.Version, Files: []string{n.Version, n.Version}}
		}
		byVersion[n.Version] = n
		files[n.Version] = n.Version + ".txt"
		order = append(order, n.Version)
	}
	semver.SortDescending(order)
	return &Store{notes: byVersion, files: files, order: order}, nil
}

// Dir returns the on-disk directory backing the store, or "" for a
// read-only fs.FS store.
func (s *Store) Dir() string {
	return s.dir
}

// Load reads every release-note document in the directory. When a
// messages.json index is present it names the documents to load;
// otherwise every *.txt file in the directory is taken, keyed by its
// basename. Files are read concurrently; parsing or duplicate-version
// errors abort the load and leave the previous content in place.
func (s *Store) Load(ctx context.Context) error {
	if s.fsys == nil {
		// In-memory store built via NewFromNotes.
		return nil
	}

	entries, err := s.resolveEntries()
	if err != nil {
		return err
	}

	notes := make([]*note.Note, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)
	for i, e := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := fs.ReadFile(s.fsys, e.file)
			if err != nil {
				return fmt.Errorf("reading note %s: %w", e.file, err)
			}
			n, err := note.Parse(e.version, content)
			if err != nil {
				return fmt.Errorf("parsing note %s: %w", e.file, err)
			}
			notes[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	byVersion := make(map[string]*note.Note, len(notes))
	files := make(map[string]string, len(notes))
	order := make([]string, 0, len(notes))
	for i, n := range notes {
		if prev, ok := files[n.Version]; ok {
			return &DuplicateVersionError{Version: n.Version, Files: []string{prev, entries[i].file}}
		}
		byVersion[n.Version] = n
		files[n.Version] = entries[i].file
		order = append(order, n.Version)
	}
	semver.SortDescending(order)

	s.mu.Lock()
	s.notes = byVersion
	s.files = files
	s.order = order
	s.mu.Unlock()
	return nil
}

type indexEntry struct {
	version string
	file    string
}

// resolveEntries determines which files to load and the version each
// one documents.
func (s *Store) resolveEntries() ([]indexEntry, error) {
	if index, err := s.readIndex(); err != nil {
		return nil, err
	} else if index != nil {
		entries := make([]indexEntry, 0, len(index))
		for version, file := range index {
			entries = append(entries, indexEntry{version: semver.Normalize(version), file: file})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].file < entries[j].file })
		return entries, nil
	}

	names, err := fs.Glob(s.fsys, "*.txt")
	if err != nil {
		return nil, fmt.Errorf("listing messages directory: %w", err)
	}
	sort.Strings(names)
	entries := make([]indexEntry, 0, len(names))
	for _, name := range names {
		version := semver.Normalize(strings.TrimSuffix(name, ".txt"))
		entries = append(entries, indexEntry{version: version, file: name})
	}
	return entries, nil
}

// readIndex parses messages.json if present. A missing index is not an
// error; a malformed one is.
func (s *Store) readIndex() (map[string]string, error) {
	content, err := fs.ReadFile(s.fsys, IndexFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", IndexFile, err)
	}

	var index map[string]string
	if err := json.Unmarshal(content, &index); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", IndexFile, err)
	}
	return index, nil
}

// Get retrieves the note for a specific version. Accepts both "v2.19.0"
// and "2.19.0" (the input is normalized). Callers must not modify the
// returned note. Returns VersionNotFoundError if the version doesn't exist.
func (s *Store) Get(version string) (*note.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	normalized := semver.Normalize(version)
	if n, ok := s.notes[normalized]; ok {
		return n, nil
	}
	return nil, &VersionNotFoundError{
		Version:           version,
		AvailableVersions: append([]string(nil), s.order...),
	}
}

// Versions returns every version identifier, newest first.
func (s *Store) Versions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Notes returns every note, newest first.
func (s *Store) Notes() []*note.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := make([]*note.Note, 0, len(s.order))
	for _, v := range s.order {
		notes = append(notes, s.notes[v])
	}
	return notes
}

// Latest returns the most recent released version's note, skipping
// unreleased. Returns nil if the store holds no released version.
func (s *Store) Latest() *note.Note {
	for _, n := range s.Notes() {
		if !n.IsUnreleased() {
			return n
		}
	}
	return nil
}

// Unreleased returns the unreleased note, or nil if there is none.
func (s *Store) Unreleased() *note.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notes[semver.Unreleased]
}

// HasUnreleased reports whether the store holds unshipped changes.
func (s *Store) HasUnreleased() bool {
	return s.Unreleased() != nil
}

// AllEntries returns all bullet entries from all versions, newest first.
func (s *Store) AllEntries() []note.Entry {
	var entries []note.Entry
	for _, n := range s.Notes() {
		entries = append(entries, n.Entries()...)
	}
	return entries
}

// LastN returns the N most recent entries across all versions.
// If N exceeds the total entry count, all entries are returned.
func (s *Store) LastN(n int) []note.Entry {
	if n <= 0 {
		return []note.Entry{}
	}
	entries := s.AllEntries()
	if len(entries) <= n {
		return entries
	}
	return entries[:n]
}

// VersionCount returns the number of versions in the store.
func (s *Store) VersionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// EntryCount returns the total number of entries across all versions.
func (s *Store) EntryCount() int {
	count := 0
	for _, n := range s.Notes() {
		count += n.EntryCount()
	}
	return count
}

// File returns the filename serving the given version, relative to the
// messages directory.
func (s *Store) File(version string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[semver.Normalize(version)]
	return f, ok
}

// Add ships a new release note: validates the content, writes
// <version>.txt into the messages directory, and records it in
// messages.json when an index is in use. Shipped notes are immutable,
// so Add refuses to overwrite an existing version.
func (s *Store) Add(version string, content []byte) error {
	if s.dir == "" {
		return fmt.Errorf("store is read-only")
	}

	normalized := semver.Normalize(version)
	if _, err := note.Parse(normalized, content); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.notes[normalized]; exists {
		return fmt.Errorf("version %q already shipped; release notes are immutable", normalized)
	}

	filename := normalized + ".txt"
	path := filepath.Join(s.dir, filename)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("note file %s already exists", path)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("writing note file: %w", err)
	}

	if err := s.appendToIndex(normalized, filename); err != nil {
		return err
	}

	n, err := note.Parse(normalized, content)
	if err != nil {
		return err
	}
	if s.notes == nil {
		s.notes = make(map[string]*note.Note)
		s.files = make(map[string]string)
	}
	s.notes[normalized] = n
	s.files[normalized] = filename
	s.order = append(s.order, normalized)
	semver.SortDescending(s.order)
	return nil
}

// appendToIndex records the new version in messages.json if the store
// uses one. Stores without an index rely on directory listing instead.
func (s *Store) appendToIndex(version, filename string) error {
	indexPath := filepath.Join(s.dir, IndexFile)
	content, err := os.ReadFile(indexPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", IndexFile, err)
	}

	var index map[string]string
	if err := json.Unmarshal(content, &index); err != nil {
		return fmt.Errorf("parsing %s: %w", IndexFile, err)
	}
	// A JSON "null" document unmarshals to a nil map. Load treats that
	// index as absent, so the write path keeps working too.
	if index == nil {
		index = make(map[string]string)
	}
	index[version] = filename

	updated, err := json.MarshalIndent(index, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", IndexFile, err)
	}
	if err := os.WriteFile(indexPath, append(updated, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", IndexFile, err)
	}
	return nil
}
