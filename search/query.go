package search

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/bbalet/stopwords"
)

// Mode selects how a document's text is matched.
type Mode string

const (
	// ModePages matches every page independently and records a character
	// window per matching page.
	ModePages Mode = "pages"

	// ModeText matches the whole document and keeps a narrow window around the
	// first matching line.
	ModeText Mode = "text"

	// ModeMulti matches the whole document against every keyword and gathers
	// wider windows around all matching lines.
	ModeMulti Mode = "multi"
)

// ParseMode converts a user supplied mode name. An empty name means ModePages.
func ParseMode(name string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(name))) {
	case "", ModePages:
		return ModePages, nil
	case ModeText:
		return ModeText, nil
	case ModeMulti:
		return ModeMulti, nil
	}
	return "", fmt.Errorf("unknown search mode %q", name)
}

// Query is a single search request.
type Query struct {
	Root     string   `json:"root"`     // Folder to search recursively.
	Keywords []string `json:"keywords"` // Trimmed, non-empty, in input order. Case is preserved.
	Mode     Mode     `json:"mode"`
}

// QueryOption customizes NewQuery.
type QueryOption func(*queryOptions)

type queryOptions struct {
	dropStopwords bool
	lang          string
}

// WithoutStopwords removes stop words of the given language (ISO 639-1) from
// the keyword list. Keywords are kept as typed if every one of them is a stop word.
func WithoutStopwords(lang string) QueryOption {
	return func(o *queryOptions) {
		o.dropStopwords = true
		o.lang = lang
	}
}

// NewQuery splits raw on spaces, commas and semicolons and builds a query.
// It fails with ErrEmptyQuery before touching the file system.
func NewQuery(root, raw string, mode Mode, opts ...QueryOption) (Query, error) {
	var o queryOptions
	for _, opt := range opts {
		opt(&o)
	}

	keywords := SplitKeywords(raw)
	if len(keywords) == 0 {
		return Query{}, ErrEmptyQuery
	}

	if o.dropStopwords {
		if kept := removeStopwords(keywords, o.lang); len(kept) > 0 {
			keywords = kept
		}
	}

	if mode == "" {
		mode = ModePages
	}
	return Query{Root: root, Keywords: keywords, Mode: mode}, nil
}

// SplitKeywords splits raw on spaces, commas and semicolons, trims every part
// and drops empty and repeated keywords.
func SplitKeywords(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == ',' || r == ';'
	})

	keywords := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key := strings.ToLower(part)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keywords = append(keywords, part)
	}
	return keywords
}

func removeStopwords(keywords []string, lang string) []string {
	kept := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		// Keywords without letters ("2024") would be wiped by the cleaner.
		if strings.IndexFunc(kw, unicode.IsLetter) < 0 {
			kept = append(kept, kw)
			continue
		}

		if strings.TrimSpace(stopwords.CleanString(kw, lang, false)) != "" {
			kept = append(kept, kw)
		}
	}
	return kept
}
