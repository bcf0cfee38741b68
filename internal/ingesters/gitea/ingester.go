// Package gitea implements the Gitea ingester. It walks a repository
// through the Gitea REST API: one recursive git-tree listing to find
// candidate files, then a raw-content request per file.
package gitea

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mediadex-dev/mediadex-cli/internal/core/domain"
	"github.com/mediadex-dev/mediadex-cli/internal/core/ports/driven"
	"github.com/mediadex-dev/mediadex-cli/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRef is the branch read when none is configured.
	DefaultRef = "main"

	// requestsPerSecond bounds API traffic; Gitea instances commonly
	// throttle unauthenticated clients hard.
	requestsPerSecond = 10
)

// Ensure Ingester implements the interface.
var _ driven.Ingester = (*Ingester)(nil)

// Ingester fetches candidate files from a Gitea repository.
type Ingester struct {
	repository string
	baseURL    string
	owner      string
	repo       string
	ref        string
	token      string

	httpClient *http.Client
	limiter    *rate.Limiter

	mu     sync.Mutex
	closed bool
}

// New creates a Gitea ingester from the repository configuration.
func New(cfg domain.Repository) *Ingester {
	ref := cfg.Ref
	if ref == "" {
		ref = DefaultRef
	}
	return &Ingester{
		repository: cfg.Name,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		owner:      cfg.Owner,
		repo:       cfg.Repo,
		ref:        ref,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// Repository returns the repository id.
func (g *Ingester) Repository() string {
	return g.repository
}

// Kind returns the acquisition strategy identifier.
func (g *Ingester) Kind() domain.RepositoryKind {
	return domain.RepoKindGitea
}

// Validate checks that base URL, owner and repo are configured.
func (g *Ingester) Validate(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if g.baseURL == "" {
		return fmt.Errorf("base_url missing: %w", domain.ErrInvalidInput)
	}
	if _, err := url.Parse(g.baseURL); err != nil {
		return fmt.Errorf("parse base_url: %w", err)
	}
	if g.owner == "" || g.repo == "" {
		return fmt.Errorf("owner/repo missing: %w", domain.ErrInvalidInput)
	}
	return nil
}

// treeResponse is the Gitea git-trees payload.
type treeResponse struct {
	Tree []struct {
		Path string `json:"path"`
		Type string `json:"type"`
	} `json:"tree"`
	Page      int  `json:"page"`
	Truncated bool `json:"truncated"`
}

// Fetch lists the repository tree and streams candidate files.
// Unreadable files are emitted with nil Content so the caller can
// count them as failures without aborting the run.
func (g *Ingester) Fetch(ctx context.Context) (<-chan domain.RawFile, <-chan error) {
	filesCh := make(chan domain.RawFile)
	errsCh := make(chan error, 1)

	go func() {
		defer close(filesCh)
		defer close(errsCh)

		g.mu.Lock()
		closed := g.closed
		g.mu.Unlock()
		if closed {
			errsCh <- domain.ErrIngesterClosed
			return
		}

		paths, err := g.listCandidates(ctx)
		if err != nil {
			errsCh <- err
			return
		}

		for _, path := range paths {
			content, err := g.fetchRaw(ctx, path)
			if err != nil {
				if ctx.Err() != nil {
					errsCh <- ctx.Err()
					return
				}
				logger.Debug("Fetch %s/%s failed: %v", g.repository, path, err)
				content = nil
			}

			select {
			case filesCh <- domain.RawFile{Repository: g.repository, Path: path, Content: content}:
			case <-ctx.Done():
				errsCh <- ctx.Err()
				return
			}
		}
	}()

	return filesCh, errsCh
}

// listCandidates pages through the recursive tree listing and returns
// the nested JSON file paths.
func (g *Ingester) listCandidates(ctx context.Context) ([]string, error) {
	var paths []string

	for page := 1; ; page++ {
		endpoint := fmt.Sprintf(
			"%s/api/v1/repos/%s/%s/git/trees/%s?recursive=true&page=%d",
			g.baseURL,
			url.PathEscape(g.owner), url.PathEscape(g.repo), url.PathEscape(g.ref),
			page,
		)

		body, err := g.get(ctx, endpoint)
		if err != nil {
			return nil, fmt.Errorf("list tree: %w", err)
		}

		var tree treeResponse
		if err := json.Unmarshal(body, &tree); err != nil {
			return nil, fmt.Errorf("decode tree: %w", err)
		}

		for _, entry := range tree.Tree {
			if entry.Type != "blob" {
				continue
			}
			if isCandidate(entry.Path) {
				paths = append(paths, entry.Path)
			}
		}

		if !tree.Truncated || len(tree.Tree) == 0 {
			break
		}
	}

	return paths, nil
}

// fetchRaw downloads one file's raw content.
func (g *Ingester) fetchRaw(ctx context.Context, path string) ([]byte, error) {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	endpoint := fmt.Sprintf(
		"%s/api/v1/repos/%s/%s/raw/%s?ref=%s",
		g.baseURL,
		url.PathEscape(g.owner), url.PathEscape(g.repo),
		strings.Join(segments, "/"),
		url.QueryEscape(g.ref),
	)
	return g.get(ctx, endpoint)
}

// get performs a rate-limited GET and returns the response body.
func (g *Ingester) get(ctx context.Context, endpoint string) ([]byte, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if g.token != "" {
		req.Header.Set("Authorization", "token "+g.token)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %d", endpoint, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
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
