package vibe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenJaccardSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"the quick brown fox", "the lazy dog"},
		{"hello world", "hello world"},
		{"", "something"},
		{"one two", "THREE four"},
	}
	for _, pair := range pairs {
		require.Equal(t, TokenJaccard(pair[0], pair[1]), TokenJaccard(pair[1], pair[0]))
	}
}

func TestTokenJaccardIdentity(t *testing.T) {
	require.Equal(t, 1.0, TokenJaccard("some non empty line", "some non empty line"))
}

func TestTokenJaccardEmptyStrings(t *testing.T) {
	require.Equal(t, 0.0, TokenJaccard("", ""))
	require.Equal(t, 0.0, TokenJaccard("  ", "\t"))
}

func TestTokenJaccardCaseInsensitive(t *testing.T) {
	require.Equal(t, 1.0, TokenJaccard("Hello World", "hello world"))
}

func TestTokenJaccardPartialOverlap(t *testing.T) {
	// {a,b,c} vs {b,c,d}: intersection 2, union 4.
	require.InDelta(t, 0.5, TokenJaccard("a b c", "b c d"), 1e-9)
}

func TestBigramOverlapSymmetryAndIdentity(t *testing.T) {
	require.Equal(t, BigramOverlap("abcdef", "abcxyz"), BigramOverlap("abcxyz", "abcdef"))
	require.Equal(t, 1.0, BigramOverlap("abcdef", "abcdef"))
}

func TestBigramOverlapIgnoresWhitespace(t *testing.T) {
	require.Equal(t, 1.0, BigramOverlap("ab cd", "abcd"))
}

func TestBigramOverlapSingleCharHasNoBigrams(t *testing.T) {
	require.Equal(t, 0.0, BigramOverlap("x", "x"))
}

func TestEditDistanceRatioIdentity(t *testing.T) {
	require.Equal(t, 0.0, EditDistanceRatio("same text", "same text"))
	require.Equal(t, 0.0, EditDistanceRatio("", ""))
}

func TestEditDistanceRatioDisjoint(t *testing.T) {
	require.Equal(t, 1.0, EditDistanceRatio("aaaa", "bbbb"))
}

func TestEditDistanceRatioKnownValue(t *testing.T) {
	// kitten -> sitting: distance 3, max length 7.
	require.InDelta(t, 3.0/7.0, EditDistanceRatio("kitten", "sitting"), 1e-9)
}

func TestEditDistanceRatioAgainstEmpty(t *testing.T) {
	require.Equal(t, 1.0, EditDistanceRatio("abc", ""))
	require.Equal(t, 1.0, EditDistanceRatio("", "abc"))
}

func TestLevenshteinUnicode(t *testing.T) {
	// One rune substitution, not a byte-level diff.
	require.InDelta(t, 1.0/4.0, EditDistanceRatio("café", "cafe"), 1e-9)
}
