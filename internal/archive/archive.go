// Package archive persists the raw bodies of malformed result pages to the
// local filesystem for offline inspection. The crawler never reads these
// files back.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Writer records a raw page body keyed by category, year, and page number and
// returns the path it was written to.
type Writer interface {
	SavePage(ctx context.Context, categoryName string, year, pageNo int, body []byte) (string, error)
}

// Dir writes debug pages under a base directory.
type Dir struct {
	baseDir string
}

var unsafePathChars = regexp.MustCompile(`[^\w\s-]`)

// NewDir creates the base directory if needed and verifies it is writable.
func NewDir(baseDir string) (*Dir, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("base directory is required")
	}

	info, err := os.Stat(baseDir)
	switch {
	case err != nil && os.IsNotExist(err):
		if mkErr := os.MkdirAll(baseDir, 0o750); mkErr != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", mkErr)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to stat base directory: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("base directory path is not a directory")
	}

	testFile := filepath.Join(baseDir, ".writable_test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		return nil, fmt.Errorf("base directory is not writable: %w", err)
	}
	if err := os.Remove(testFile); err != nil {
		return nil, fmt.Errorf("failed to clean up test file: %w", err)
	}

	return &Dir{baseDir: baseDir}, nil
}

// SavePage writes the body to <base>/<sanitized category>/<year>/page_<n>.html.
func (d *Dir) SavePage(_ context.Context, categoryName string, year, pageNo int, body []byte) (string, error) {
	safeCategory := SanitizeCategory(categoryName)
	if safeCategory == "" {
		safeCategory = "unknown"
	}

	fullPath := filepath.Join(d.baseDir, safeCategory, fmt.Sprintf("%d", year), fmt.Sprintf("page_%d.html", pageNo))

	cleanBase := filepath.Clean(d.baseDir)
	if !strings.HasPrefix(filepath.Clean(fullPath), cleanBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected")
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return "", fmt.Errorf("failed to create archive directories: %w", err)
	}
	if err := os.WriteFile(fullPath, body, 0o600); err != nil {
		return "", fmt.Errorf("failed to write debug page: %w", err)
	}

	return fullPath, nil
}

// SanitizeCategory strips characters unsafe for paths and replaces spaces
// with underscores.
func SanitizeCategory(name string) string {
	safe := unsafePathChars.ReplaceAllString(name, "")
	return strings.ReplaceAll(strings.TrimSpace(safe), " ", "_")
}

// Nop discards debug pages; used in tests and dry runs.
type Nop struct{}

// SavePage does nothing and returns an empty path.
func (Nop) SavePage(context.Context, string, int, int, []byte) (string, error) {
	return "", nil
}
