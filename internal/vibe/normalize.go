package vibe

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	hashtagPattern    = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// typographyReplacer maps curly quotes, dashes and ellipses to plain ASCII.
var typographyReplacer = strings.NewReplacer(
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"–", "-", // en dash
	"—", "-", // em dash
	"…", "...", // ellipsis
	" ", " ", // non-breaking space
)

// NormalizeTypography converts typographic punctuation to straight ASCII.
// It is idempotent: normalizing an already-normalized string is a no-op.
func NormalizeTypography(s string) string {
	return typographyReplacer.Replace(s)
}

// NormalizeLine runs the shared post-processing every strategy applies to raw
// completion output: strip wrapping quotes, normalize typography, drop emoji
// and hashtags, collapse whitespace, and hard-truncate to MaxLineLength runes.
func NormalizeLine(raw string) string {
	line := strings.TrimSpace(raw)
	line = stripWrappingQuotes(line)
	line = NormalizeTypography(line)
	line = stripEmoji(line)
	line = hashtagPattern.ReplaceAllString(line, "")
	line = whitespacePattern.ReplaceAllString(line, " ")
	line = strings.TrimSpace(line)
	line = truncateRunes(line, MaxLineLength)
	return line
}

func stripWrappingQuotes(s string) string {
	for {
		trimmed := strings.TrimSpace(s)
		if len(trimmed) >= 2 {
			first := trimmed[0]
			last := trimmed[len(trimmed)-1]
			if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
				s = trimmed[1 : len(trimmed)-1]
				continue
			}
		}
		// Curly wrapping quotes before typography normalization.
		runes := []rune(trimmed)
		if len(runes) >= 2 {
			if (runes[0] == '“' && runes[len(runes)-1] == '”') ||
				(runes[0] == '‘' && runes[len(runes)-1] == '’') {
				s = string(runes[1 : len(runes)-1])
				continue
			}
		}
		return trimmed
	}
}

// stripEmoji drops symbol and pictograph runes while keeping letters, digits,
// punctuation and whitespace of any script.
func stripEmoji(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) ||
			unicode.IsPunct(r) || isKeepableSymbol(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isKeepableSymbol(r rune) bool {
	switch r {
	case '+', '=', '<', '>', '|', '~', '^', '$':
		return true
	default:
		return false
	}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit]))
}
