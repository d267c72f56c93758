package llm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLinesStrictJSON(t *testing.T) {
	lines, err := ParseLines(`{"lines": ["first line", "second line"]}`)
	require.NoError(t, err)
	require.Equal(t, []string{"first line", "second line"}, lines)
}

func TestParseLinesStripsCodeFence(t *testing.T) {
	content := "```json\n{\"lines\": [\"fenced line\"]}\n```"
	lines, err := ParseLines(content)
	require.NoError(t, err)
	require.Equal(t, []string{"fenced line"}, lines)
}

func TestParseLinesRepairsMalformedJSON(t *testing.T) {
	// Trailing comma and single quotes, the usual model sloppiness.
	lines, err := ParseLines(`{'lines': ['one', 'two',]}`)
	require.NoError(t, err)
	require.Equal(t, []string{"one", "two"}, lines)
}

func TestParseLinesMissingField(t *testing.T) {
	_, err := ParseLines(`{"items": ["x"]}`)
	require.ErrorIs(t, err, ErrMalformedReply)
}

func TestParseLinesEmptyReply(t *testing.T) {
	_, err := ParseLines("   ")
	require.ErrorIs(t, err, ErrMalformedReply)
}

func TestParseLinesGarbage(t *testing.T) {
	_, err := ParseLines("here are some great captions for you!")
	require.ErrorIs(t, err, ErrMalformedReply)
}

func TestParseRevised(t *testing.T) {
	revised, err := ParseRevised(`{"revised": "a shorter line"}`)
	require.NoError(t, err)
	require.Equal(t, "a shorter line", revised)
}

func TestParseRevisedEmptyValue(t *testing.T) {
	_, err := ParseRevised(`{"revised": "  "}`)
	require.ErrorIs(t, err, ErrMalformedReply)
}

func TestStripCodeFencesIsNoOpWithoutFence(t *testing.T) {
	require.Equal(t, `{"lines": []}`, stripCodeFences(`{"lines": []}`))
}

func TestStripCodeFencesBareFence(t *testing.T) {
	require.Equal(t, `{"x":1}`, stripCodeFences("```\n{\"x\":1}\n```"))
}
