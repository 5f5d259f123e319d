// Package gitrepo inspects the release tags of a git repository so the
// CLI can cross-check them against the messages directory. It uses the
// go-git library; no git CLI is required.
package gitrepo

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/timbrel/relnote/internal/semver"
)

// debugLogger logs debug messages when debug mode is enabled.
// By default it's a no-op. Set it via SetDebugLogger.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens the git repository at path, or the current working
// directory when path is empty. DetectDotGit walks up the directory
// tree to find the repository root.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// ReleaseTags returns the repository's version-shaped tags ("v2.19.0"
// or "2.19.0") as normalized version identifiers, newest first. Tags
// that are not versions (e.g. "nightly") are skipped.
func ReleaseTags(path string) ([]string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}

	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	var versions []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		version := semver.Normalize(name)
		if version == semver.Unreleased || !semver.IsValid(version) {
			logDebug("[git] skipping non-release tag %s", name)
			return nil
		}
		versions = append(versions, version)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	semver.SortDescending(versions)
	logDebug("[git] found %d release tags", len(versions))
	return versions, nil
}

// LatestTag returns the newest release tag, or "" when the repository
// has none.
func LatestTag(path string) (string, error) {
	tags, err := ReleaseTags(path)
	if err != nil {
		return "", err
	}
	if len(tags) == 0 {
		return "", nil
	}
	return tags[0], nil
}

// Coverage reports the mismatch between release tags and noted
// versions: tags lacking a release note and notes lacking a tag.
type Coverage struct {
	// MissingNotes are release tags with no document in the store.
	MissingNotes []string
	// MissingTags are noted versions the repository never tagged.
	MissingTags []string
}

// InSync reports whether every tag has a note and every note a tag.
func (c Coverage) InSync() bool {
	return len(c.MissingNotes) == 0 && len(c.MissingTags) == 0
}

// CheckCoverage compares the repository's release tags with the noted
// versions. The "unreleased" identifier is ignored: it never has a tag.
func CheckCoverage(path string, notedVersions []string) (Coverage, error) {
	tags, err := ReleaseTags(path)
	if err != nil {
		return Coverage{}, err
	}

	tagged := make(map[string]bool, len(tags))
	for _, t := range tags {
		tagged[t] = true
	}
	noted := make(map[string]bool, len(notedVersions))
	for _, v := range notedVersions {
		noted[semver.Normalize(v)] = true
	}

	var cov Coverage
	for _, t := range tags {
		if !noted[t] {
			cov.MissingNotes = append(cov.MissingNotes, t)
		}
	}
	for _, v := range notedVersions {
		normalized := semver.Normalize(v)
		if normalized == semver.Unreleased {
			continue
		}
		if !tagged[normalized] {
			cov.MissingTags = append(cov.MissingTags, normalized)
		}
	}
	semver.SortDescending(cov.MissingNotes)
	semver.SortDescending(cov.MissingTags)
	return cov, nil
}

// CommitsSinceTag counts commits on HEAD that are newer than the given
// tag. Used to surface how much unreleased work has accumulated.
func CommitsSinceTag(path, tag string) (int, error) {
	repo, err := openRepo(path)
	if err != nil {
		return 0, err
	}

	tagRef, err := resolveTag(repo, tag)
	if err != nil {
		return 0, err
	}

	head, err := repo.Head()
	if err != nil {
		return 0, fmt.Errorf("resolving HEAD: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return 0, fmt.Errorf("walking history: %w", err)
	}
	defer iter.Close()

	count := 0
	for {
		commit, err := iter.Next()
		if err != nil {
			break
		}
		if commit.Hash == tagRef {
			return count, nil
		}
		count++
	}
	return count, nil
}

// resolveTag finds the commit hash a tag points at, trying both the
// bare and "v"-prefixed spelling.
func resolveTag(repo *git.Repository, tag string) (plumbing.Hash, error) {
	for _, name := range []string{tag, "v" + strings.TrimPrefix(tag, "v")} {
		if hash, err := repo.ResolveRevision(plumbing.Revision("refs/tags/" + name)); err == nil {
			return *hash, nil
		}
	}
	return plumbing.ZeroHash, fmt.Errorf("tag %q not found", tag)
}
