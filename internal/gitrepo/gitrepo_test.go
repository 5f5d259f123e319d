package gitrepo

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initRepo creates a repository with one commit per tag name, tagging
// each commit in order. Returns the repo path.
func initRepo(t *testing.T, tags ...string) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	sig := &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()}
	for i, tag := range tags {
		file := filepath.Join(dir, "file.txt")
		require.NoError(t, os.WriteFile(file, []byte(fmt.Sprintf("%s-%d", tag, i)), 0o644))
		_, err = wt.Add("file.txt")
		require.NoError(t, err)
		hash, err := wt.Commit(fmt.Sprintf("commit %d", i), &git.CommitOptions{Author: sig})
		require.NoError(t, err)

		if tag != "" {
			_, err = repo.CreateTag(tag, hash, nil)
			require.NoError(t, err)
		}
	}
	return dir
}

func TestReleaseTags(t *testing.T) {
	dir := initRepo(t, "v2.19.0", "nightly", "2.20.0")

	tags, err := ReleaseTags(dir)
	require.NoError(t, err)

	// Non-version tags are skipped; results are normalized, newest first.
	assert.Equal(t, []string{"2.20.0", "2.19.0"}, tags)
}

func TestReleaseTags_NoRepo(t *testing.T) {
	_, err := ReleaseTags(t.TempDir())
	require.Error(t, err)
}

func TestLatestTag(t *testing.T) {
	dir := initRepo(t, "v1.0.0", "v1.1.0")

	latest, err := LatestTag(dir)
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", latest)
}

func TestLatestTag_NoTags(t *testing.T) {
	dir := initRepo(t, "")

	latest, err := LatestTag(dir)
	require.NoError(t, err)
	assert.Empty(t, latest)
}

func TestCheckCoverage(t *testing.T) {
	dir := initRepo(t, "v1.0.0", "v1.1.0")

	tests := map[string]struct {
		noted        []string
		missingNotes []string
		missingTags  []string
	}{
		"in sync": {
			noted: []string{"1.0.0", "1.1.0"},
		},
		"tag without note": {
			noted:        []string{"1.0.0"},
			missingNotes: []string{"1.1.0"},
		},
		"note without tag": {
			noted:       []string{"1.0.0", "1.1.0", "1.2.0"},
			missingTags: []string{"1.2.0"},
		},
		"unreleased is ignored": {
			noted: []string{"1.0.0", "1.1.0", "unreleased"},
		},
		"v prefix normalized": {
			noted: []string{"v1.0.0", "v1.1.0"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cov, err := CheckCoverage(dir, tt.noted)
			require.NoError(t, err)
			assert.Equal(t, tt.missingNotes, cov.MissingNotes)
			assert.Equal(t, tt.missingTags, cov.MissingTags)
			assert.Equal(t, len(tt.missingNotes) == 0 && len(tt.missingTags) == 0, cov.InSync())
		})
	}
}

func TestCommitsSinceTag(t *testing.T) {
	dir := initRepo(t, "v1.0.0", "", "")

	count, err := CommitsSinceTag(dir, "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCommitsSinceTag_UnknownTag(t *testing.T) {
	dir := initRepo(t, "v1.0.0")

	_, err := CommitsSinceTag(dir, "9.9.9")
	require.Error(t, err)
}
