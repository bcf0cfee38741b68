// Package github implements the GitHub ingester on top of the official
// API client: one recursive git-tree listing, then a blob fetch per
// candidate file.
package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	"github.com/mediadex-dev/mediadex-cli/internal/core/domain"
	"github.com/mediadex-dev/mediadex-cli/internal/core/ports/driven"
	"github.com/mediadex-dev/mediadex-cli/internal/logger"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Ensure Ingester implements the interface.
var _ driven.Ingester = (*Ingester)(nil)

// Ingester fetches candidate files from a GitHub repository.
type Ingester struct {
	repository string
	owner      string
	repo       string
	ref        string
	token      string

	mu     sync.Mutex
	client *gh.Client
	closed bool
}

// New creates a GitHub ingester from the repository configuration.
// The API client is built lazily on first use. ref empty means the
// repository's default branch.
func New(cfg domain.Repository) *Ingester {
	return &Ingester{
		repository: cfg.Name,
		owner:      cfg.Owner,
		repo:       cfg.Repo,
		ref:        cfg.Ref,
		token:      cfg.Token,
	}
}

// Repository returns the repository id.
func (g *Ingester) Repository() string {
	return g.repository
}

// Kind returns the acquisition strategy identifier.
func (g *Ingester) Kind() domain.RepositoryKind {
	return domain.RepoKindGitHub
}

// Validate checks that owner and repo are configured.
func (g *Ingester) Validate(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if g.owner == "" || g.repo == "" {
		return fmt.Errorf("owner/repo missing: %w", domain.ErrInvalidInput)
	}
	return nil
}

// ensureClient initializes the go-github client if not already done.
// This is called lazily so unauthenticated use needs no setup.
func (g *Ingester) ensureClient(ctx context.Context) (*gh.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil, domain.ErrIngesterClosed
	}
	if g.client != nil {
		return g.client, nil
	}

	if g.token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: g.token},
		)
		tc := oauth2.NewClient(ctx, ts)
		tc.Timeout = DefaultTimeout
		g.client = gh.NewClient(tc)
	} else {
		g.client = gh.NewClient(nil)
	}

	return g.client, nil
}

// Fetch lists the repository tree and streams candidate files.
// Unreadable blobs are emitted with nil Content so the caller can
// count them as failures without aborting the run.
func (g *Ingester) Fetch(ctx context.Context) (<-chan domain.RawFile, <-chan error) {
	filesCh := make(chan domain.RawFile)
	errsCh := make(chan error, 1)

	go func() {
		defer close(filesCh)
		defer close(errsCh)

		client, err := g.ensureClient(ctx)
		if err != nil {
			errsCh <- err
			return
		}

		ref := g.ref
		if ref == "" {
			repo, _, err := client.Repositories.Get(ctx, g.owner, g.repo)
			if err != nil {
				errsCh <- fmt.Errorf("get repo: %w", err)
				return
			}
			ref = repo.GetDefaultBranch()
		}

		tree, _, err := client.Git.GetTree(ctx, g.owner, g.repo, ref, true) // recursive
		if err != nil {
			errsCh <- fmt.Errorf("get tree: %w", err)
			return
		}
		if tree.GetTruncated() {
			logger.Warn("Tree listing for %s truncated; some files may be missed", g.repository)
		}

		for _, entry := range tree.Entries {
			if entry.GetType() != "blob" || !isCandidate(entry.GetPath()) {
				continue
			}

			content, err := g.fetchBlob(ctx, client, entry.GetSHA())
			if err != nil {
				if ctx.Err() != nil {
					errsCh <- ctx.Err()
					return
				}
				logger.Debug("Fetch %s/%s failed: %v", g.repository, entry.GetPath(), err)
				content = nil
			}

			select {
			case filesCh <- domain.RawFile{Repository: g.repository, Path: entry.GetPath(), Content: content}:
			case <-ctx.Done():
				errsCh <- ctx.Err()
				return
			}
		}
	}()

	return filesCh, errsCh
}

// fetchBlob fetches a blob by SHA and decodes its content.
func (g *Ingester) fetchBlob(ctx context.Context, client *gh.Client, sha string) ([]byte, error) {
	blob, _, err := client.Git.GetBlob(ctx, g.owner, g.repo, sha)
	if err != nil {
		return nil, fmt.Errorf("get blob: %w", err)
	}

	if blob.GetEncoding() == "base64" {
		content := strings.ReplaceAll(blob.GetContent(), "\n", "")
		return base64.StdEncoding.DecodeString(content)
	}

	return []byte(blob.GetContent()), nil
}

// Close marks the ingester unusable. Idempotent.
func (g *Ingester) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	return nil
}

// isCandidate reports whether a repository-relative path is a nested,
// non-hidden JSON file.
func isCandidate(path string) bool {
	if !strings.HasSuffix(strings.ToLower(path), ".json") {
		return false
	}
	segments := strings.Split(path, "/")
	if len(segments) < 2 {
		return false
	}
	for _, s := range segments {
		if strings.HasPrefix(s, ".") {
			return false
		}
	}
	return true
}
