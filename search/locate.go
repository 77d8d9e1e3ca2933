package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultLinesPerPage is the text density assumed by HeuristicLocator.
const DefaultLinesPerPage = 40

// Target describes the text to place on a page.
type Target struct {
	Path      string
	Needle    string
	Text      string   // Whole-document text, if already extracted.
	Pages     []string // Per-page text, if already extracted.
	PageCount int      // Known number of pages, 0 if unknown.
}

// PageLocator resolves the 1-based page that contains a piece of text.
type PageLocator interface {
	Locate(ctx context.Context, t Target) (int, error)
}

// ExactLocator tests pages one at a time in ascending order and returns the
// first one containing the needle. It uses already extracted pages when the
// target carries them and otherwise reads pages through the extractor.
type ExactLocator struct {
	Extractor PageExtractor
}

func (l ExactLocator) Locate(ctx context.Context, t Target) (int, error) {
	needle := strings.ToLower(strings.TrimSpace(t.Needle))
	if needle == "" {
		return 0, ErrPageNotFound
	}

	if t.Pages != nil {
		for i, page := range t.Pages {
			if strings.Contains(strings.ToLower(page), needle) {
				return i + 1, nil
			}
		}
		return 0, ErrPageNotFound
	}

	if l.Extractor == nil {
		return 0, ErrPagesUnsupported
	}

	count, err := l.Extractor.PageCount(ctx, t.Path)
	if err != nil {
		return 0, &ExtractionError{Path: t.Path, Err: err}
	}

	for page := 1; page <= count; page++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		text, err := l.Extractor.PageText(ctx, t.Path, page)
		if err != nil {
			return 0, &ExtractionError{Path: t.Path, Err: err}
		}
		if strings.Contains(strings.ToLower(text), needle) {
			return page, nil
		}
	}
	return 0, ErrPageNotFound
}

// HeuristicLocator estimates the page from the index of the first line that
// contains the needle, assuming a fixed number of lines per page. The result
// is approximate and wrong for layouts far from that density.
type HeuristicLocator struct {
	LinesPerPage int
}

func (l HeuristicLocator) Locate(_ context.Context, t Target) (int, error) {
	needle := strings.ToLower(strings.TrimSpace(t.Needle))
	if needle == "" || t.Text == "" {
		return 0, ErrPageNotFound
	}

	perPage := l.LinesPerPage
	if perPage <= 0 {
		perPage = DefaultLinesPerPage
	}

	for i, line := range strings.Split(strings.ToLower(t.Text), "\n") {
		if !strings.Contains(line, needle) {
			continue
		}

		page := i/perPage + 1
		if t.PageCount > 0 {
			page = min(page, t.PageCount)
		}
		return page, nil
	}
	return 0, ErrPageNotFound
}

// Locators tries each locator in order; the first success wins.
type Locators []PageLocator

func (ls Locators) Locate(ctx context.Context, t Target) (int, error) {
	var errs []error
	for _, l := range ls {
		page, err := l.Locate(ctx, t)
		if err == nil {
			return page, nil
		}
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return 0, ErrPageNotFound
	}
	return 0, fmt.Errorf("locate %q in %s: %w", t.Needle, t.Path, errors.Join(errs...))
}

// NewLocators builds the chain for an extractor: exact resolution when the
// extractor has page granularity, then the line-density estimate.
func NewLocators(ex Extractor, linesPerPage int) Locators {
	heuristic := HeuristicLocator{LinesPerPage: linesPerPage}
	if pe, ok := ex.(PageExtractor); ok {
		return Locators{ExactLocator{Extractor: pe}, heuristic}
	}
	return Locators{heuristic}
}
