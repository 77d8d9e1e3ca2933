package search

import (
	"strings"
	"unicode/utf8"
)

// TruncationMarker ends every context that was cut to its length cap.
const TruncationMarker = "..."

const (
	textContextCap  = 200 // runes, ModeText
	multiContextCap = 300 // runes, ModeMulti
	multiLineCap    = 10  // lines gathered per document, ModeMulti
	textRadius      = 1   // lines around the match, ModeText
	multiRadius     = 2   // lines around each match, ModeMulti
	pageRadius      = 30  // runes around the match, ModePages
)

// MatchContext is the preview built around a keyword hit.
type MatchContext struct {
	Keywords []string // Keywords found in the document.
	Anchor   string   // First matching line, trimmed. Used to resolve the page.
	Text     string   // Bounded window of surrounding text.
}

// MatchText finds the first line containing a keyword, trying keywords in
// order, and returns that line with one line of context on each side.
func MatchText(text string, keywords []string) (MatchContext, bool) {
	lines := strings.Split(text, "\n")
	lowered := strings.Split(strings.ToLower(text), "\n")

	for _, kw := range keywords {
		needle := strings.ToLower(kw)
		if needle == "" {
			continue
		}

		for i, line := range lowered {
			if !strings.Contains(line, needle) {
				continue
			}

			parts := make([]string, 0, 2*textRadius+1)
			for j := max(0, i-textRadius); j <= min(len(lines)-1, i+textRadius); j++ {
				if n := len(parts); n > 0 && parts[n-1] == lines[j] {
					continue
				}
				parts = append(parts, lines[j])
			}

			return MatchContext{
				Keywords: []string{kw},
				Anchor:   strings.TrimSpace(lines[i]),
				Text:     Truncate(strings.TrimSpace(strings.Join(parts, "\n")), textContextCap),
			}, true
		}
	}
	return MatchContext{}, false
}

// MatchMulti tests every keyword against the whole text and gathers up to
// multiLineCap lines around the lines that contain any of the found keywords.
func MatchMulti(text string, keywords []string) (MatchContext, bool) {
	lowerAll := strings.ToLower(text)

	var found, needles []string
	for _, kw := range keywords {
		needle := strings.ToLower(kw)
		if needle != "" && strings.Contains(lowerAll, needle) {
			found = append(found, kw)
			needles = append(needles, needle)
		}
	}
	if len(found) == 0 {
		return MatchContext{}, false
	}

	lines := strings.Split(text, "\n")
	lowered := strings.Split(lowerAll, "\n")

	anchor := -1
	taken := make(map[int]bool)
	picked := make([]int, 0, multiLineCap+2*multiRadius)
	for i, line := range lowered {
		if len(picked) >= multiLineCap {
			break
		}
		if !containsAny(line, needles) {
			continue
		}
		if anchor < 0 {
			anchor = i
		}

		for j := max(0, i-multiRadius); j <= min(len(lines)-1, i+multiRadius); j++ {
			if !taken[j] {
				taken[j] = true
				picked = append(picked, j)
			}
		}
	}

	// A keyword spanning a line break matches the text but no single line.
	if anchor < 0 {
		return MatchContext{}, false
	}

	if len(picked) > multiLineCap {
		picked = picked[:multiLineCap]
	}

	parts := make([]string, len(picked))
	for i, j := range picked {
		parts[i] = lines[j]
	}

	return MatchContext{
		Keywords: found,
		Anchor:   strings.TrimSpace(lines[anchor]),
		Text:     Truncate(strings.TrimSpace(strings.Join(parts, "\n")), multiContextCap),
	}, true
}

// MatchPages tries the keywords in order and returns the first one found in
// any page, with a window for every page it occurs in.
func MatchPages(pages []string, keywords []string) (string, []PageMatch) {
	for _, kw := range keywords {
		var matches []PageMatch
		for i, page := range pages {
			if page == "" {
				continue
			}
			if window, ok := PageWindow(page, kw, pageRadius); ok {
				matches = append(matches, PageMatch{Page: i + 1, Text: window})
			}
		}

		if len(matches) > 0 {
			return kw, matches
		}
	}
	return "", nil
}

// PageWindow returns radius characters on each side of the first
// case-insensitive occurrence of keyword in page, clipped to the page.
// Positions are counted in runes so multi-byte text is never split.
func PageWindow(page, keyword string, radius int) (string, bool) {
	needle := strings.ToLower(keyword)
	if page == "" || needle == "" {
		return "", false
	}

	// strings.ToLower maps rune to rune, so rune offsets in lower are valid in page.
	lower := strings.ToLower(page)
	at := strings.Index(lower, needle)
	if at < 0 {
		return "", false
	}

	start := utf8.RuneCountInString(lower[:at])
	end := start + utf8.RuneCountInString(needle)

	runes := []rune(page)
	lo := max(0, start-radius)
	hi := min(len(runes), end+radius)
	return string(runes[lo:hi]), true
}

// Truncate cuts s to at most limit runes. A cut string keeps a prefix and ends
// with TruncationMarker.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	keep := limit - utf8.RuneCountInString(TruncationMarker)
	if keep <= 0 {
		return TruncationMarker
	}
	return string([]rune(s)[:keep]) + TruncationMarker
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
