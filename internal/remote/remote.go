// Package remote fetches release-note messages from a repository's raw
// content URL, with the embedded snapshot as offline fallback.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/timbrel/relnote/internal/note"
	"github.com/timbrel/relnote/internal/semver"
	"github.com/timbrel/relnote/internal/store"
)

// DefaultTimeout is the default timeout for remote fetches.
const DefaultTimeout = 10 * time.Second

// DefaultBaseURL is the raw content URL of relnote's own messages
// directory. Can be overridden via config or for testing.
var DefaultBaseURL = "https://raw.githubusercontent.com/timbrel/relnote/main/internal/note/messages"

// maxConcurrentFetches bounds parallel note downloads.
const maxConcurrentFetches = 4

// Fetch downloads the messages.json index and every note it names from
// the given base URL, returning an in-memory store. The context
// controls timeout and cancellation.
func Fetch(ctx context.Context, baseURL string) (*store.Store, error) {
	index, err := fetchIndex(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("fetching remote index: %w", err)
	}

	var mu sync.Mutex
	notes := make([]*note.Note, 0, len(index))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for version, file := range index {
		g.Go(func() error {
			content, err := fetchBytes(ctx, baseURL+"/"+file)
			if err != nil {
				return fmt.Errorf("fetching note %s: %w", file, err)
			}
			n, err := note.Parse(version, content)
			if err != nil {
				return fmt.Errorf("parsing note %s: %w", file, err)
			}
			mu.Lock()
			notes = append(notes, n)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return store.NewFromNotes(notes...)
}

// FetchWithFallback downloads the remote messages, falling back to the
// embedded snapshot if the fetch fails. The boolean reports whether the
// returned store came from the remote.
func FetchWithFallback(ctx context.Context, baseURL string) (*store.Store, bool, error) {
	s, err := Fetch(ctx, baseURL)
	if err == nil {
		return s, true, nil
	}

	embedded, embErr := Embedded(ctx)
	if embErr != nil {
		return nil, false, fmt.Errorf("remote failed (%v) and embedded failed: %w", err, embErr)
	}
	return embedded, false, nil
}

// FetchVersion fetches a single version's note, with embedded fallback.
func FetchVersion(ctx context.Context, baseURL, version string) (*note.Note, bool, error) {
	s, isRemote, err := FetchWithFallback(ctx, baseURL)
	if err != nil {
		return nil, false, err
	}

	n, err := s.Get(version)
	if err != nil {
		return nil, isRemote, err
	}
	return n, isRemote, nil
}

// Embedded opens the build-time snapshot of the messages directory.
func Embedded(ctx context.Context) (*store.Store, error) {
	fsys, err := fs.Sub(note.EmbeddedFS(), note.EmbeddedDir)
	if err != nil {
		return nil, fmt.Errorf("opening embedded messages: %w", err)
	}

	s := store.OpenFS(fsys)
	if err := s.Load(ctx); err != nil {
		return nil, fmt.Errorf("loading embedded messages: %w", err)
	}
	return s, nil
}

// fetchIndex downloads and parses the remote messages.json, returning
// normalized version identifiers mapped to filenames.
func fetchIndex(ctx context.Context, baseURL string) (map[string]string, error) {
	content, err := fetchBytes(ctx, baseURL+"/"+store.IndexFile)
	if err != nil {
		return nil, err
	}

	var raw map[string]string
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", store.IndexFile, err)
	}

	index := make(map[string]string, len(raw))
	for version, file := range raw {
		index[semver.Normalize(version)] = file
	}
	return index, nil
}

func fetchBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}
