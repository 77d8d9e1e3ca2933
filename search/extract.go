package search

import (
	"context"
	"strings"
	"sync"
)

// Extractor pulls the text out of a document as a single blob.
type Extractor interface {
	ExtractAll(ctx context.Context, path string) (string, error)
}

// PageExtractor is an Extractor with page granularity.
// Page numbers are 1-based.
type PageExtractor interface {
	Extractor
	ExtractPages(ctx context.Context, path string) ([]string, error)
	PageCount(ctx context.Context, path string) (int, error)
	PageText(ctx context.Context, path string, page int) (string, error)
}

// Text is the extracted content of one document, as cached.
type Text struct {
	// Pages holds per-page text when the extractor supports it, nil otherwise.
	Pages []string

	once sync.Once
	all  string
}

// PagedText wraps per-page text.
func PagedText(pages []string) *Text {
	return &Text{Pages: pages}
}

// WholeText wraps a whole-document blob.
func WholeText(all string) *Text {
	t := &Text{all: all}
	t.once.Do(func() {})
	return t
}

// All returns the whole document, pages joined by newlines.
func (t *Text) All() string {
	t.once.Do(func() {
		t.all = strings.Join(t.Pages, "\n")
	})
	return t.all
}

// PageCount returns the number of pages, or 0 when unknown.
func (t *Text) PageCount() int {
	return len(t.Pages)
}

func extract(ctx context.Context, ex Extractor, path string) (*Text, error) {
	if pe, ok := ex.(PageExtractor); ok {
		pages, err := pe.ExtractPages(ctx, path)
		if err != nil {
			return nil, &ExtractionError{Path: path, Err: err}
		}
		return PagedText(pages), nil
	}

	all, err := ex.ExtractAll(ctx, path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}
	return WholeText(all), nil
}
