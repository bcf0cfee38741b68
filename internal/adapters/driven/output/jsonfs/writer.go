// Package jsonfs writes the organised groupings and summary as
// pretty-printed JSON files under an output root.
package jsonfs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mediadex-dev/mediadex-cli/internal/core/domain"
	"github.com/mediadex-dev/mediadex-cli/internal/core/ports/driven"
	"github.com/mediadex-dev/mediadex-cli/internal/logger"
)

// CombinedDir is the directory for cross-repository category files.
const CombinedDir = "combined"

// Ensure Writer implements the interface.
var _ driven.OutputWriter = (*Writer)(nil)

// Writer persists output files under root.
type Writer struct {
	root string
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{root: dir}
}

// Root returns the output root directory.
func (w *Writer) Root() string {
	return w.root
}

// WriteGroup writes <root>/<repository>/<category>.json.
func (w *Writer) WriteGroup(ctx context.Context, repository, category string, docs []*domain.SourceDocument) error {
	if repository == "" || category == "" {
		return fmt.Errorf("empty group key: %w", domain.ErrInvalidInput)
	}
	return w.writeFile(ctx, filepath.Join(repository, category+".json"), docs)
}

// WriteCombined writes <root>/combined/<category>.json.
func (w *Writer) WriteCombined(ctx context.Context, category string, docs []*domain.SourceDocument) error {
	if category == "" {
		return fmt.Errorf("empty category: %w", domain.ErrInvalidInput)
	}
	return w.writeFile(ctx, filepath.Join(CombinedDir, category+".json"), docs)
}

// WriteSummary writes <root>/summary.json.
func (w *Writer) WriteSummary(ctx context.Context, summary *domain.Summary) error {
	if summary == nil {
		return fmt.Errorf("nil summary: %w", domain.ErrInvalidInput)
	}
	return w.writeFile(ctx, "summary.json", summary)
}

// writeFile marshals v with two-space indentation and writes it below
// the root, creating directories as needed.
func (w *Writer) writeFile(ctx context.Context, rel string, v any) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	path := filepath.Join(w.root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", rel, err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}

	logger.Debug("Wrote %s", path)
	return nil
}
