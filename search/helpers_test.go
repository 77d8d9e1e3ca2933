package search

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var errCorrupt = errors.New("corrupt document")

// fakeExtractor reads plain text files and splits pages on form feeds.
// Files starting with "%CORRUPT" fail to extract.
type fakeExtractor struct {
	mu    sync.Mutex
	calls map[string]int
}

func newFakeExtractor() *fakeExtractor {
	return &fakeExtractor{calls: make(map[string]int)}
}

func (f *fakeExtractor) read(path string) (string, error) {
	f.mu.Lock()
	f.calls[path]++
	f.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(string(data), "%CORRUPT") {
		return "", errCorrupt
	}
	return string(data), nil
}

func (f *fakeExtractor) Calls(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeExtractor) ExtractAll(_ context.Context, path string) (string, error) {
	text, err := f.read(path)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(text, "\f", "\n"), nil
}

func (f *fakeExtractor) ExtractPages(_ context.Context, path string) ([]string, error) {
	text, err := f.read(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(text, "\f"), nil
}

func (f *fakeExtractor) PageCount(ctx context.Context, path string) (int, error) {
	pages, err := f.ExtractPages(ctx, path)
	return len(pages), err
}

func (f *fakeExtractor) PageText(ctx context.Context, path string, page int) (string, error) {
	pages, err := f.ExtractPages(ctx, path)
	if err != nil {
		return "", err
	}
	if page < 1 || page > len(pages) {
		return "", errors.New("page out of range")
	}
	return pages[page-1], nil
}

// textOnlyExtractor has no page granularity.
type textOnlyExtractor struct {
	inner *fakeExtractor
}

func (t textOnlyExtractor) ExtractAll(ctx context.Context, path string) (string, error) {
	return t.inner.ExtractAll(ctx, path)
}

// failingPages reports page errors for every document.
type failingPages struct {
	*fakeExtractor
}

func (failingPages) PageCount(context.Context, string) (int, error) {
	return 0, errCorrupt
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestEngine(t *testing.T, ex Extractor, workers int) *Engine {
	t.Helper()

	e, err := New(Options{Extractor: ex, Workers: workers})
	require.NoError(t, err)
	return e
}

func writePath(dir, name string) string {
	return filepath.Join(dir, name)
}
