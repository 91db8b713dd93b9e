// Package git provides the repository-side inputs for changelog
// maintenance: repository detection, remote URL normalization for
// comparison links, semver tag listing, and commit subjects for release
// drafting. It uses the go-git library exclusively; no git CLI is
// required.
package git

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/ariel-frischer/chlog/internal/semver"
)

// debugLogger is a function that logs debug messages when debug mode is
// enabled. By default, it's a no-op. Set it via SetDebugLogger to enable
// debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens a git repository at the specified path or current
// working directory. It uses go-git's PlainOpenWithOptions with
// DetectDotGit enabled to traverse up the directory tree to find the
// repository root. If path is empty, the current working directory is
// used.
func openRepo(path string) (*gogit.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	return repo, nil
}

// IsRepository checks if the given directory (or the current directory
// when empty) is within a git repository.
func IsRepository(path string) bool {
	_, err := openRepo(path)
	return err == nil
}

// Root returns the absolute path to the repository root.
func Root(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	logDebug("[git] Root: %s", root)
	return root, nil
}

// CurrentBranch returns the name of the current git branch.
// Returns empty string if in detached HEAD state.
func CurrentBranch(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	if !head.Name().IsBranch() {
		logDebug("[git] CurrentBranch: detached HEAD state")
		return "", nil
	}

	return head.Name().Short(), nil
}

// scpURLPattern matches SCP-style remotes like "git@github.com:org/repo.git".
var scpURLPattern = regexp.MustCompile(`^(?:[\w.-]+@)?([\w.-]+):(.+)$`)

// RemoteURL returns the normalized https URL of the named remote
// (conventionally "origin"), suitable as the base for changelog
// comparison links. SSH and SCP-style remotes are rewritten to https
// and any trailing ".git" suffix is stripped.
func RemoteURL(path, remoteName string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	remote, err := repo.Remote(remoteName)
	if err != nil {
		return "", fmt.Errorf("getting remote %q: %w", remoteName, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %q has no URL", remoteName)
	}

	normalized := NormalizeRemoteURL(urls[0])
	logDebug("[git] RemoteURL: %s -> %s", urls[0], normalized)
	return normalized, nil
}

// NormalizeRemoteURL converts any common git remote URL form into a
// plain https repository URL without the ".git" suffix.
func NormalizeRemoteURL(url string) string {
	url = strings.TrimSuffix(strings.TrimSpace(url), ".git")

	switch {
	case strings.HasPrefix(url, "https://"), strings.HasPrefix(url, "http://"):
		return url
	case strings.HasPrefix(url, "ssh://"):
		rest := strings.TrimPrefix(url, "ssh://")
		if at := strings.Index(rest, "@"); at >= 0 {
			rest = rest[at+1:]
		}
		return "https://" + strings.Replace(rest, ":", "/", 1)
	case strings.HasPrefix(url, "git://"):
		return "https://" + strings.TrimPrefix(url, "git://")
	default:
		if m := scpURLPattern.FindStringSubmatch(url); m != nil {
			return "https://" + m[1] + "/" + m[2]
		}
		return url
	}
}

// Tag is a semver-parseable repository tag.
type Tag struct {
	Name    string // as written, e.g. "v0.1.1"
	Version string // normalized, e.g. "0.1.1"
	Hash    string
}

// SemverTags returns all tags that parse as semantic versions, sorted
// newest first. Tags that do not parse (e.g. "nightly") are skipped.
func SemverTags(path string) ([]Tag, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}

	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	var tags []Tag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if !semver.IsValid(name) {
			logDebug("[git] SemverTags: skipping non-semver tag %q", name)
			return nil
		}
		tags = append(tags, Tag{
			Name:    name,
			Version: semver.Normalize(name),
			Hash:    ref.Hash().String(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	sort.Slice(tags, func(i, j int) bool {
		vi, erri := semver.Parse(tags[i].Version)
		vj, errj := semver.Parse(tags[j].Version)
		if erri != nil || errj != nil {
			return tags[i].Version > tags[j].Version
		}
		return semver.Compare(vi, vj) > 0
	})

	logDebug("[git] SemverTags: found %d semver tags", len(tags))
	return tags, nil
}

// LatestTag returns the highest semver tag, or nil when the repository
// has no semver tags.
func LatestTag(path string) (*Tag, error) {
	tags, err := SemverTags(path)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return &tags[0], nil
}

// Commit is a single commit subject used for draft suggestions.
type Commit struct {
	Hash    string
	Subject string
	When    time.Time
}

// CommitsSince returns the subjects of commits reachable from HEAD but
// not from the given tag, newest first. With an empty tag name the full
// HEAD history is returned.
func CommitsSince(path, tagName string) ([]Commit, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD reference: %w", err)
	}

	var stopAt plumbing.Hash
	if tagName != "" {
		ref, err := repo.Tag(tagName)
		if err != nil {
			return nil, fmt.Errorf("resolving tag %q: %w", tagName, err)
		}
		stopAt = tagHash(repo, ref)
	}

	iter, err := repo.Log(&gogit.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("reading commit log: %w", err)
	}

	var commits []Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if tagName != "" && c.Hash == stopAt {
			return storer.ErrStop
		}
		commits = append(commits, Commit{
			Hash:    c.Hash.String(),
			Subject: firstLine(c.Message),
			When:    c.Author.When,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating commits: %w", err)
	}

	logDebug("[git] CommitsSince(%q): %d commits", tagName, len(commits))
	return commits, nil
}

// tagHash resolves the commit hash a tag points at, following annotated
// tag objects when needed.
func tagHash(repo *gogit.Repository, ref *plumbing.Reference) plumbing.Hash {
	if obj, err := repo.TagObject(ref.Hash()); err == nil {
		return obj.Target
	}
	return ref.Hash()
}

func firstLine(message string) string {
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		return strings.TrimSpace(message[:idx])
	}
	return strings.TrimSpace(message)
}
