package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitKeywords(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "single", raw: "invoice", want: []string{"invoice"}},
		{name: "comma and space", raw: "alpha, beta", want: []string{"alpha", "beta"}},
		{name: "semicolons", raw: ";alpha;;beta;", want: []string{"alpha", "beta"}},
		{name: "mixed case duplicates", raw: "Alpha alpha ALPHA", want: []string{"Alpha"}},
		{name: "blank", raw: " ,; ", want: []string{}},
		{name: "tabs are trimmed", raw: "\talpha\t, beta", want: []string{"alpha", "beta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitKeywords(tt.raw))
		})
	}
}

func TestNewQuery(t *testing.T) {
	q, err := NewQuery("/docs", "alpha, beta", "")
	require.NoError(t, err)
	assert.Equal(t, "/docs", q.Root)
	assert.Equal(t, []string{"alpha", "beta"}, q.Keywords)
	assert.Equal(t, ModePages, q.Mode)

	_, err = NewQuery("/docs", " ; , ", ModeMulti)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestNewQueryWithoutStopwords(t *testing.T) {
	q, err := NewQuery("/docs", "the invoice of 2024", ModeMulti, WithoutStopwords("en"))
	require.NoError(t, err)
	assert.Equal(t, []string{"invoice", "2024"}, q.Keywords)

	// Only stop words: keep them rather than failing.
	q, err = NewQuery("/docs", "the of", ModeMulti, WithoutStopwords("en"))
	require.NoError(t, err)
	assert.Equal(t, []string{"the", "of"}, q.Keywords)
}

func TestParseMode(t *testing.T) {
	for name, want := range map[string]Mode{
		"":       ModePages,
		"pages":  ModePages,
		" Text ": ModeText,
		"MULTI":  ModeMulti,
	} {
		got, err := ParseMode(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseMode("fuzzy")
	assert.Error(t, err)
}
