package pdf

import (
	"context"
	"fmt"

	"code.sajari.com/docconv/v2"
)

// Docconv extracts whole-document text with docconv, which shells out to
// pdftotext. It has no page granularity.
type Docconv struct{}

func (Docconv) ExtractAll(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	res, err := docconv.ConvertPath(path)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf document: %w", err)
	}
	return CleanText(res.Body), nil
}
