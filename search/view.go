package search

import (
	"context"
	"fmt"
	"strings"
)

// previewLines is the number of leading page lines kept by MatchingPages.
const previewLines = 10

// PageView is one page of a document as shown by a viewer.
type PageView struct {
	Path       string `json:"file_path"`
	TotalPages int    `json:"total_pages"`
	Page       int    `json:"current_page"`
	Text       string `json:"page_content"`
}

// PagePreview is a page containing some text, with its first lines.
type PagePreview struct {
	Page int    `json:"page_number"`
	Text string `json:"content"`
}

// pageSource reads single pages, from cached text when available.
type pageSource struct {
	path  string
	pages []string
	ex    PageExtractor
}

func (e *Engine) pageSource(path string) (*pageSource, error) {
	if cached, ok := e.cache.Get(path); ok && cached.Pages != nil {
		return &pageSource{path: path, pages: cached.Pages}, nil
	}

	pe, ok := e.extractor.(PageExtractor)
	if !ok {
		return nil, ErrPagesUnsupported
	}
	return &pageSource{path: path, ex: pe}, nil
}

func (s *pageSource) count(ctx context.Context) (int, error) {
	if s.ex == nil {
		return len(s.pages), nil
	}

	n, err := s.ex.PageCount(ctx, s.path)
	if err != nil {
		return 0, &ExtractionError{Path: s.path, Err: err}
	}
	return n, nil
}

func (s *pageSource) text(ctx context.Context, page int) (string, error) {
	if s.ex == nil {
		return s.pages[page-1], nil
	}

	text, err := s.ex.PageText(ctx, s.path, page)
	if err != nil {
		return "", &ExtractionError{Path: s.path, Err: err}
	}
	return text, nil
}

// ViewPage returns the text of one page of the document at path. page is
// clamped to the document, so 0 means the first page.
func (e *Engine) ViewPage(ctx context.Context, path string, page int) (*PageView, error) {
	src, err := e.pageSource(path)
	if err != nil {
		return nil, err
	}

	total, err := src.count(ctx)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, fmt.Errorf("%s has no pages: %w", path, ErrPageNotFound)
	}

	page = min(max(page, 1), total)
	text, err := src.text(ctx, page)
	if err != nil {
		return nil, err
	}
	return &PageView{Path: path, TotalPages: total, Page: page, Text: text}, nil
}

// MatchingPages returns every page of the document at path that contains
// text, case-insensitively, in page order. Pages that cannot be read are
// skipped.
func (e *Engine) MatchingPages(ctx context.Context, path, text string) ([]PagePreview, error) {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return nil, ErrEmptyQuery
	}

	src, err := e.pageSource(path)
	if err != nil {
		return nil, err
	}

	total, err := src.count(ctx)
	if err != nil {
		return nil, err
	}

	previews := []PagePreview{}
	for page := 1; page <= total; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := src.text(ctx, page)
		if err != nil {
			e.log.Debug("skipping unreadable page", "path", path, "page", page, "error", err)
			continue
		}
		if strings.Contains(strings.ToLower(content), needle) {
			previews = append(previews, PagePreview{Page: page, Text: firstLines(content, previewLines)})
		}
	}
	return previews, nil
}

func firstLines(s string, n int) string {
	lines := strings.SplitN(s, "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
