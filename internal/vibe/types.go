// Package vibe implements the caption generation pipeline: input validation,
// candidate generation strategies, deterministic scoring, and the bounded
// revise-and-backfill loop that converges on four passing lines.
package vibe

import "fmt"

const (
	// MaxLineLength is the hard cap on every returned caption.
	MaxLineLength = 100
	// TargetCount is the number of suggestions every successful response carries.
	TargetCount = 4
	// MaxTags bounds the number of text tags accepted per request.
	MaxTags = 8

	maxRevisionRounds  = 3
	maxRepairsPerRound = 3
	freeformLineCount  = 8
	strategyLineCount  = 4
)

// Strategy identifies the origin of a generated candidate.
type Strategy string

const (
	StrategyTemplate         Strategy = "template"
	StrategyFreeform         Strategy = "freeform"
	StrategyTargeted         Strategy = "targeted"
	StrategyTagFocused       Strategy = "tag-focused"
	StrategyAdditional       Strategy = "additional-generation"
	StrategyFallbackTemplate Strategy = "fallback-template"
)

// Revised returns the strategy tag for a revision of a candidate that
// originated from s.
func (s Strategy) Revised() Strategy {
	return Strategy("revised-" + string(s))
}

// Request is the untyped inbound payload, validated by Validate.
type Request struct {
	Category      string   `json:"category"`
	Subcategory   string   `json:"subcategory"`
	Tone          string   `json:"tone"`
	TextTags      []string `json:"text_tags"`
	RecipientName string   `json:"recipient_name,omitempty"`
	Relationship  string   `json:"relationship,omitempty"`
	Language      string   `json:"language,omitempty"`
}

// ValidatedInputs is the normalized, validated request. It is immutable once
// constructed; only Validate creates it.
type ValidatedInputs struct {
	Category      string
	Subcategory   string
	Tone          Tone
	TextTags      []string
	RecipientName string
	Relationship  string
	Language      string
}

// GenerationCandidate is one raw line under consideration. Candidates are
// never mutated after creation; revisions produce new candidates.
type GenerationCandidate struct {
	Text     string
	Strategy Strategy
	Metadata map[string]string
}

// ScoringResult holds the per-dimension scores for one candidate, computed
// against the candidate set of the same round.
type ScoringResult struct {
	LengthScore       float64
	UniquenessScore   float64
	ToneFitScore      float64
	TagAlignmentScore float64
	SafetyScore       float64
	OverallScore      float64
	Passes            bool
	Reasons           []string
}

// ScoredCandidate pairs a candidate with its scoring result and the round at
// which it was scored.
type ScoredCandidate struct {
	Candidate GenerationCandidate
	Result    ScoringResult
	Iteration int
}

// RevisionResult is the outcome of the revise-and-backfill loop.
type RevisionResult struct {
	Candidates          []ScoredCandidate
	TotalIterations     int
	SuccessfulRevisions int
	StrategiesUsed      []Strategy
}

// ResponseMetadata echoes the normalized request.
type ResponseMetadata struct {
	Category      string   `json:"category"`
	Subcategory   string   `json:"subcategory"`
	Tone          string   `json:"tone"`
	TextTags      []string `json:"text_tags"`
	RecipientName string   `json:"recipient_name,omitempty"`
	Relationship  string   `json:"relationship,omitempty"`
	Language      string   `json:"language"`
}

// Audit carries observability counters for one generation run.
type Audit struct {
	TotalGenerated      int      `json:"total_generated"`
	StrategiesUsed      []string `json:"strategies_used"`
	Iterations          int      `json:"iterations"`
	SuccessfulRevisions int      `json:"successful_revisions"`
	Model               string   `json:"model"`
}

// Response is the success payload: exactly four suggestions plus audit data.
type Response struct {
	Metadata        ResponseMetadata `json:"metadata"`
	TextSuggestions []string         `json:"text_suggestions"`
	Audit           Audit            `json:"audit"`
}

// ErrorCode classifies pipeline failures surfaced to callers.
type ErrorCode string

const (
	CodeValidationError  ErrorCode = "VALIDATION_ERROR"
	CodeGenerationFailed ErrorCode = "GENERATION_FAILED"
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"
)

// FieldError is a single field-scoped validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Field, e.Message, e.Code)
}

// Error is the structured failure returned past the orchestrator boundary.
type Error struct {
	Code    ErrorCode    `json:"code"`
	Message string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
