// Package gitops provides read-only git introspection using go-git,
// eliminating the need for the git binary to be installed on the system.
//
// dist uses it for two things: the Tag Resolver's optional tag-inference
// hint (finding the tag that already points at HEAD when a workspace's own
// version data is ambiguous, spec.md §4.C/§9) and the Planner's repository
// URL fallback (filling in a package's download-URL host when no manifest
// declares one, spec.md §4.A). Both call sites are read-only and explicit:
// dist never clones, fetches, or checks anything out.
package gitops

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// IsRepo returns true if path is (inside) a git repository.
func IsRepo(path string) bool {
	_, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	return err == nil
}

// RemoteURL returns the fetch URL of the named remote (typically "origin").
func RemoteURL(path, remoteName string) (string, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("failed to open repo: %w", err)
	}

	remote, err := repo.Remote(remoteName)
	if err != nil {
		return "", fmt.Errorf("failed to get remote %s: %w", remoteName, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no URLs", remoteName)
	}
	return urls[0], nil
}

// GetTags returns the names of every tag in the repository, in no
// particular order.
func GetTags(path string) ([]string, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repo: %w", err)
	}

	tagsIter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}

	var tags []string
	err = tagsIter.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}

	return tags, nil
}

// TagAtHEAD returns the name of the tag (lightweight or annotated) that
// points exactly at HEAD, used as the Tag Resolver's inference hint when a
// workspace's own version data doesn't resolve to a single announcement
// (spec.md §4.C: "the resolver may also infer a tag when the caller passes
// none"). Returns an error when HEAD is unreachable or no tag points at it;
// callers treat that as "no hint available", not a fatal condition.
func TagAtHEAD(path string) (string, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("failed to open repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}

	tagsIter, err := repo.Tags()
	if err != nil {
		return "", fmt.Errorf("failed to get tags: %w", err)
	}

	var found string
	err = tagsIter.ForEach(func(ref *plumbing.Reference) error {
		hash := ref.Hash()
		if obj, tagErr := repo.TagObject(hash); tagErr == nil {
			hash = obj.Target
		}
		if hash == head.Hash() {
			found = ref.Name().Short()
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to iterate tags: %w", err)
	}
	if found == "" {
		return "", fmt.Errorf("no tag points at HEAD")
	}

	return found, nil
}
