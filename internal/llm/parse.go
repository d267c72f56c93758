package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ErrMalformedReply indicates the completion reply could not be decoded into
// the expected JSON shape, even after repair.
var ErrMalformedReply = errors.New("malformed completion reply")

// LinesReply is the structured shape returned by list-producing prompts.
type LinesReply struct {
	Lines []string `json:"lines"`
}

// RevisedReply is the structured shape returned by single-candidate repairs.
type RevisedReply struct {
	Revised string `json:"revised"`
}

// ParseLines decodes a completion reply expected to carry {"lines": [...]}.
// Malformed JSON is run through jsonrepair before giving up.
func ParseLines(content string) ([]string, error) {
	var reply LinesReply
	if err := decodeReply(content, &reply); err != nil {
		return nil, err
	}
	if reply.Lines == nil {
		return nil, fmt.Errorf("%w: missing \"lines\" field", ErrMalformedReply)
	}
	return reply.Lines, nil
}

// ParseRevised decodes a completion reply expected to carry {"revised": "..."}.
func ParseRevised(content string) (string, error) {
	var reply RevisedReply
	if err := decodeReply(content, &reply); err != nil {
		return "", err
	}
	if strings.TrimSpace(reply.Revised) == "" {
		return "", fmt.Errorf("%w: missing \"revised\" field", ErrMalformedReply)
	}
	return reply.Revised, nil
}

func decodeReply(content string, out any) error {
	raw := stripCodeFences(content)
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%w: empty reply", ErrMalformedReply)
	}

	if err := json.Unmarshal([]byte(raw), out); err == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	return nil
}

// stripCodeFences removes a wrapping markdown code fence, with or without a
// language tag, that models often add around JSON output.
func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		first := strings.TrimSpace(trimmed[:idx])
		if first == "" || isFenceLanguage(first) {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func isFenceLanguage(tag string) bool {
	switch strings.ToLower(tag) {
	case "json", "javascript", "js", "text":
		return true
	default:
		return false
	}
}
