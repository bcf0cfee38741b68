// Package local implements the directory-scan ingester.
// It walks an existing directory tree and emits every candidate JSON
// catalog file. The git-clone ingester reuses its Scan function after
// cloning.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mediadex-dev/mediadex-cli/internal/core/domain"
	"github.com/mediadex-dev/mediadex-cli/internal/core/ports/driven"
)

// Ensure Ingester implements the interface.
var _ driven.Ingester = (*Ingester)(nil)

// Ingester scans a local directory tree for catalog files.
type Ingester struct {
	repository string
	rootPath   string

	mu     sync.Mutex
	closed bool
}

// New creates a local ingester rooted at rootPath.
// The path is validated lazily, in Validate or Fetch.
func New(repository, rootPath string) *Ingester {
	return &Ingester{
		repository: repository,
		rootPath:   rootPath,
	}
}

// Repository returns the repository id.
func (c *Ingester) Repository() string {
	return c.repository
}

// Kind returns the acquisition strategy identifier.
func (c *Ingester) Kind() domain.RepositoryKind {
	return domain.RepoKindLocal
}

// Validate checks that the root path exists and is a directory.
func (c *Ingester) Validate(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return checkRoot(c.rootPath)
}

// Fetch walks the directory tree and streams candidate JSON files.
func (c *Ingester) Fetch(ctx context.Context) (<-chan domain.RawFile, <-chan error) {
	filesCh := make(chan domain.RawFile)
	errsCh := make(chan error, 1)

	go func() {
		defer close(filesCh)
		defer close(errsCh)

		c.mu.Lock()
		closed := c.closed
		c.mu.Unlock()
		if closed {
			errsCh <- domain.ErrIngesterClosed
			return
		}

		if err := Scan(ctx, c.repository, c.rootPath, filesCh); err != nil {
			errsCh <- err
		}
	}()

	return filesCh, errsCh
}

// Close marks the ingester closed. Idempotent.
func (c *Ingester) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Scan walks root and sends every candidate file to filesCh. A file
// that exists but cannot be read is sent with nil Content so the caller
// can count it as failed. Returns an error for a bad root or a
// cancelled context.
func Scan(ctx context.Context, repository, root string, filesCh chan<- domain.RawFile) error {
	if err := checkRoot(root); err != nil {
		return err
	}

	return filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			if path == root {
				return err
			}
			// Unreadable subtree: skip it, keep walking.
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if entry.IsDir() {
			if path != root && isHidden(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !isCandidate(rel) {
			return nil
		}

		raw := domain.RawFile{Repository: repository, Path: rel}
		if content, readErr := os.ReadFile(path); readErr == nil {
			raw.Content = content
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case filesCh <- raw:
		}
		return nil
	})
}

// checkRoot verifies the scan root exists and is a directory.
func checkRoot(root string) error {
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return fmt.Errorf("root path %s does not exist", root)
	}
	if err != nil {
		return fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path %s is not a directory", root)
	}
	return nil
}

// isCandidate reports whether a relative, slash-separated path is a
// catalog file: a .json file below at least one subdirectory, with no
// hidden segment. Root-level JSON files (repository metadata, package
// manifests) are ignored.
func isCandidate(rel string) bool {
	if !strings.EqualFold(filepath.Ext(rel), ".json") {
		return false
	}
	if !strings.Contains(rel, "/") {
		return false
	}
	return !isHidden(rel)
}

// isHidden reports whether any path segment starts with a dot.
// "." and ".." themselves are not considered hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
