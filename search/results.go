package search

import (
	"cmp"
	"slices"
)

// PageMatch is one matched page of a document.
type PageMatch struct {
	// Page is the 1-based page number, 0 when it could not be resolved.
	Page int    `json:"page_number,omitempty"`
	Text string `json:"matched_text"`
}

// Resolved reports whether the page number is known.
func (p PageMatch) Resolved() bool {
	return p.Page > 0
}

// Result is a matching document.
type Result struct {
	Path     string      `json:"file_path"`
	Size     int64       `json:"file_size"`
	Keywords []string    `json:"keywords"`
	Pages    []PageMatch `json:"page_info"`
}

// Aggregate returns results with at most one entry per path, sorted by path,
// and with pages in ascending order. Unresolved pages sort after resolved ones.
func Aggregate(results []Result) []Result {
	seen := make(map[string]struct{}, len(results))
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if _, ok := seen[r.Path]; ok {
			continue
		}
		seen[r.Path] = struct{}{}

		slices.SortStableFunc(r.Pages, comparePages)
		out = append(out, r)
	}

	slices.SortFunc(out, func(a, b Result) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return out
}

func comparePages(a, b PageMatch) int {
	switch {
	case a.Resolved() && !b.Resolved():
		return -1
	case !a.Resolved() && b.Resolved():
		return 1
	}
	return cmp.Compare(a.Page, b.Page)
}
