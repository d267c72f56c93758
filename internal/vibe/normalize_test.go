package vibe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeTypographyIdempotent(t *testing.T) {
	inputs := []string{
		"“smart quotes” and ‘single’ ones",
		"dashes – and — everywhere…",
		"already plain ascii",
	}
	for _, input := range inputs {
		once := NormalizeTypography(input)
		require.Equal(t, once, NormalizeTypography(once))
	}
}

func TestNormalizeTypographyReplacements(t *testing.T) {
	got := NormalizeTypography("“hi” – it’s fine…")
	require.Equal(t, `"hi" - it's fine...`, got)
}

func TestNormalizeLineStripsWrappingQuotes(t *testing.T) {
	require.Equal(t, "a caption", NormalizeLine(`"a caption"`))
	require.Equal(t, "a caption", NormalizeLine("'a caption'"))
	require.Equal(t, "a caption", NormalizeLine("“a caption”"))
	require.Equal(t, "a caption", NormalizeLine(`""a caption""`))
}

func TestNormalizeLineKeepsInteriorQuotes(t *testing.T) {
	require.Equal(t, `she said "go" and left`, NormalizeLine(`she said "go" and left`))
}

func TestNormalizeLineStripsEmoji(t *testing.T) {
	require.Equal(t, "party time", NormalizeLine("party time \U0001F389\U0001F973"))
}

func TestNormalizeLineStripsHashtags(t *testing.T) {
	require.Equal(t, "best day ever", NormalizeLine("best day ever #blessed #no_filter"))
}

func TestNormalizeLineCollapsesWhitespace(t *testing.T) {
	require.Equal(t, "one two three", NormalizeLine("  one \t two\n\nthree  "))
}

func TestNormalizeLineLengthInvariant(t *testing.T) {
	long := strings.Repeat("word ", 50)
	got := NormalizeLine(long)
	require.LessOrEqual(t, len([]rune(got)), MaxLineLength)
}

func TestNormalizeLineIdempotent(t *testing.T) {
	inputs := []string{
		`"  so much – style … "`,
		strings.Repeat("abc ", 40),
		"plain line",
	}
	for _, input := range inputs {
		once := NormalizeLine(input)
		require.Equal(t, once, NormalizeLine(once))
	}
}

func TestNormalizeLineEmptyInput(t *testing.T) {
	require.Equal(t, "", NormalizeLine("   "))
	require.Equal(t, "", NormalizeLine("\U0001F600"))
}
