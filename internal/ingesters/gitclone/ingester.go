// Package gitclone implements the git-clone ingester.
// It makes a shallow clone of a remote repository into a temporary
// directory, scans the clone like a local tree, and removes the clone
// on Close.
package gitclone

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/mediadex-dev/mediadex-cli/internal/core/domain"
	"github.com/mediadex-dev/mediadex-cli/internal/core/ports/driven"
	"github.com/mediadex-dev/mediadex-cli/internal/ingesters/local"
	"github.com/mediadex-dev/mediadex-cli/internal/logger"
)

// Ensure Ingester implements the interface.
var _ driven.Ingester = (*Ingester)(nil)

// Ingester clones a git repository and scans the clone.
type Ingester struct {
	repository string
	url        string
	ref        string

	mu       sync.Mutex
	cloneDir string
	closed   bool
}

// New creates a git-clone ingester for the given clone URL.
// ref optionally selects a branch or tag; empty means the default branch.
func New(repository, url, ref string) *Ingester {
	return &Ingester{
		repository: repository,
		url:        url,
		ref:        ref,
	}
}

// Repository returns the repository id.
func (c *Ingester) Repository() string {
	return c.repository
}

// Kind returns the acquisition strategy identifier.
func (c *Ingester) Kind() domain.RepositoryKind {
	return domain.RepoKindGit
}

// Validate checks that a clone URL is configured and git is installed.
func (c *Ingester) Validate(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if c.url == "" {
		return fmt.Errorf("clone url missing: %w", domain.ErrInvalidInput)
	}
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git not found: %w", err)
	}
	return nil
}

// Fetch clones the repository (once) and streams its candidate files.
func (c *Ingester) Fetch(ctx context.Context) (<-chan domain.RawFile, <-chan error) {
	filesCh := make(chan domain.RawFile)
	errsCh := make(chan error, 1)

	go func() {
		defer close(filesCh)
		defer close(errsCh)

		dir, err := c.ensureClone(ctx)
		if err != nil {
			errsCh <- err
			return
		}

		if err := local.Scan(ctx, c.repository, dir, filesCh); err != nil {
			errsCh <- err
		}
	}()

	return filesCh, errsCh
}

// ensureClone performs the shallow clone on first use.
func (c *Ingester) ensureClone(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return "", domain.ErrIngesterClosed
	}
	if c.cloneDir != "" {
		return c.cloneDir, nil
	}

	dir, err := os.MkdirTemp("", "mediadex-clone-*")
	if err != nil {
		return "", fmt.Errorf("create clone dir: %w", err)
	}

	args := []string{"clone", "--depth", "1"}
	if c.ref != "" {
		args = append(args, "--branch", c.ref)
	}
	args = append(args, c.url, dir)

	logger.Debug("Cloning %s into %s", c.url, dir)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		os.RemoveAll(dir)
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("git clone %s: %w: %s", c.url, err, detail)
		}
		return "", fmt.Errorf("git clone %s: %w", c.url, err)
	}

	c.cloneDir = dir
	return dir, nil
}

// Close removes the temporary clone. Idempotent.
func (c *Ingester) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.cloneDir == "" {
		return nil
	}

	dir := c.cloneDir
	c.cloneDir = ""
	logger.Debug("Removing clone %s", dir)
	return os.RemoveAll(dir)
}
