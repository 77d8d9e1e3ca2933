package search

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery is returned when no usable keyword is left after splitting
	// and trimming the raw query.
	ErrEmptyQuery = errors.New("query has no usable keyword")

	// ErrPagesUnsupported is returned when page granularity is requested from an
	// extractor that only produces whole-document text.
	ErrPagesUnsupported = errors.New("extractor does not support per-page text")

	// ErrPageNotFound is returned by a PageLocator that could not place the text.
	ErrPageNotFound = errors.New("page not found")
)

// ExtractionError reports a document that could not be parsed.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
