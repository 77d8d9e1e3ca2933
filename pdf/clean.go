package pdf

import (
	"errors"
	"strings"
)

// ErrPageRange is returned for a page number outside the document.
var ErrPageRange = errors.New("page out of range")

// Glyphs poppler emits for bullets and arrows; they only add noise to matches.
var glyphCleaner = func() *strings.Replacer {
	skip := []rune{0x0080, 0x0089}
	for r := rune(0x25B6); r <= 0x25FF; r++ {
		skip = append(skip, r)
	}

	pairs := make([]string, 0, 2*len(skip))
	for _, r := range skip {
		pairs = append(pairs, string(r), "")
	}
	return strings.NewReplacer(pairs...)
}()

// CleanText removes bullet and arrow glyphs from extracted text.
func CleanText(text string) string {
	return glyphCleaner.Replace(text)
}
