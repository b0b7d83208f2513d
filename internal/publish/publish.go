// Package publish provides the default Publisher adapter (spec.md §1, §6):
// a GitHub Releases client that creates or reuses a draft release and
// uploads assembled artifacts, honoring the create-release config option
// (spec.md §4.D) through CreateRelease; the publish-jobs option is not
// read here. Wraps google/go-github/v81,
// already a teacher dependency used the same way in internal/updater and
// cmd/xplat/cmd/sync_gh.go for reading releases; this adds the write path.
//
// This is a convenience implementation the engine does not require:
// callers may substitute their own Publisher.
package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/go-github/v81/github"

	"github.com/distkit/dist/internal/distmodel"
)

// Publisher uploads assembled artifacts to a release host.
type Publisher interface {
	Publish(ctx context.Context, tag string, prerelease bool, artifactPaths []string) error
}

// GitHubPublisher publishes to a GitHub repository's Releases.
type GitHubPublisher struct {
	Client *github.Client
	Repo   distmodel.Repository

	// CreateRelease controls whether a draft is created when none exists
	// for the tag (spec.md §4.D's `create-release` option); when false
	// and no matching release exists, Publish fails.
	CreateRelease bool
}

// NewGitHubPublisher returns a GitHubPublisher authenticated with token
// (an empty token makes unauthenticated, rate-limited requests, fine for
// public read paths but release creation requires a real token).
func NewGitHubPublisher(repo distmodel.Repository, token string, createRelease bool) *GitHubPublisher {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &GitHubPublisher{Client: client, Repo: repo, CreateRelease: createRelease}
}

// Publish implements Publisher: find-or-create the release for tag, then
// upload every artifact as a release asset.
func (p *GitHubPublisher) Publish(ctx context.Context, tag string, prerelease bool, artifactPaths []string) error {
	if !p.Repo.IsGitHub() {
		return fmt.Errorf("publish: repository %q is not github.com", p.Repo.String())
	}

	release, _, err := p.Client.Repositories.GetReleaseByTag(ctx, p.Repo.Owner, p.Repo.Name, tag)
	if err != nil {
		if !p.CreateRelease {
			return fmt.Errorf("publish: no release for tag %s and create-release is disabled: %w", tag, err)
		}
		release, _, err = p.Client.Repositories.CreateRelease(ctx, p.Repo.Owner, p.Repo.Name, &github.RepositoryRelease{
			TagName:    github.Ptr(tag),
			Draft:      github.Ptr(true),
			Prerelease: github.Ptr(prerelease),
		})
		if err != nil {
			return fmt.Errorf("publish: create release %s: %w", tag, err)
		}
	}

	for _, path := range artifactPaths {
		if err := p.uploadAsset(ctx, release.GetID(), path); err != nil {
			return fmt.Errorf("publish: upload %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

func (p *GitHubPublisher) uploadAsset(ctx context.Context, releaseID int64, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, _, err = p.Client.Repositories.UploadReleaseAsset(ctx, p.Repo.Owner, p.Repo.Name, releaseID, &github.UploadOptions{
		Name: filepath.Base(path),
	}, f)
	return err
}
