package search

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threePages builds a document where only page 2 mentions the keyword.
func threePages(linesPerPage int) string {
	pages := make([]string, 3)
	for p := range pages {
		lines := make([]string, linesPerPage)
		for i := range lines {
			lines[i] = fmt.Sprintf("page %d line %d", p+1, i)
		}
		if p == 1 {
			lines[linesPerPage/2] = "the Needle is here"
		}
		pages[p] = strings.Join(lines, "\n")
	}
	return strings.Join(pages, "\f")
}

func TestExactLocatorReadsPages(t *testing.T) {
	path := writeFile(t, t.TempDir(), "doc.pdf", threePages(5))
	ex := newFakeExtractor()

	page, err := ExactLocator{Extractor: ex}.Locate(context.Background(), Target{Path: path, Needle: "NEEDLE"})
	require.NoError(t, err)
	assert.Equal(t, 2, page)

	_, err = ExactLocator{Extractor: ex}.Locate(context.Background(), Target{Path: path, Needle: "absent"})
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestExactLocatorUsesExtractedPages(t *testing.T) {
	l := ExactLocator{}
	page, err := l.Locate(context.Background(), Target{
		Needle: "needle",
		Pages:  []string{"a", "b", "c needle"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, page)

	_, err = l.Locate(context.Background(), Target{Path: "x.pdf", Needle: "needle"})
	assert.ErrorIs(t, err, ErrPagesUnsupported)
}

func TestHeuristicLocator(t *testing.T) {
	text := strings.Repeat("filler\n", 85) + "needle"

	page, err := HeuristicLocator{LinesPerPage: 40}.Locate(context.Background(), Target{Text: text, Needle: " needle "})
	require.NoError(t, err)
	assert.Equal(t, 3, page)

	page, err = HeuristicLocator{}.Locate(context.Background(), Target{Text: text, Needle: "needle", PageCount: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, page, "estimate is clamped to the page count")

	_, err = HeuristicLocator{}.Locate(context.Background(), Target{Text: text, Needle: "absent"})
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestLocatorsFallBack(t *testing.T) {
	content := threePages(60)
	path := writeFile(t, t.TempDir(), "doc.pdf", content)
	broken := failingPages{newFakeExtractor()}

	chain := NewLocators(broken, 0)
	require.Len(t, chain, 2)

	target := Target{
		Path:      path,
		Needle:    "the needle is here",
		Text:      strings.ReplaceAll(content, "\f", "\n"),
		PageCount: 3,
	}
	page, err := chain.Locate(context.Background(), target)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, page, 1)
	assert.LessOrEqual(t, page, 3)

	_, err = Locators{HeuristicLocator{}}.Locate(context.Background(), Target{Needle: "x"})
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestNewLocatorsTextOnly(t *testing.T) {
	chain := NewLocators(textOnlyExtractor{newFakeExtractor()}, 0)
	require.Len(t, chain, 1)
	assert.IsType(t, HeuristicLocator{}, chain[0])
}
