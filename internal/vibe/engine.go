package vibe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vibemaker/internal/llm"
	"vibemaker/internal/logging"
	"vibemaker/internal/prompts"
)

// Engine is the orchestrator: it sequences validation, candidate generation,
// revision, final selection and padding, and shapes the response. Faults
// never propagate past GenerateVibes.
type Engine struct {
	client   llm.Client
	pool     *Pool
	revision *RevisionEngine
	logger   logging.Logger
	metrics  *Metrics
}

// NewEngine assembles the full pipeline over a completion client.
func NewEngine(client llm.Client, loader *prompts.Loader, logger logging.Logger, metrics *Metrics) *Engine {
	logger = logging.OrNop(logger)
	generator := NewGenerator(client, loader, logger)
	return &Engine{
		client:   client,
		pool:     NewPool(generator, logger, metrics),
		revision: NewRevisionEngine(generator, logger, metrics),
		logger:   logger,
		metrics:  metrics,
	}
}

// GenerateVibes runs the whole pipeline for one request. On success the
// response carries exactly TargetCount suggestions, each within the length
// cap; otherwise a structured *Error is returned. Internal panics are
// recovered here and reported as INTERNAL_ERROR.
func (e *Engine) GenerateVibes(ctx context.Context, req Request) (resp *Response, genErr *Error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Panic during generation: %v", r)
			resp = nil
			genErr = &Error{
				Code:    CodeInternalError,
				Message: fmt.Sprintf("internal error: %v", r),
			}
			e.metrics.observeRequest("internal_error", time.Since(start))
		}
	}()

	requestID := uuid.NewString()

	inputs, fieldErrs := Validate(req)
	if len(fieldErrs) > 0 {
		e.metrics.observeRequest("validation_error", time.Since(start))
		return nil, &Error{
			Code:    CodeValidationError,
			Message: "request validation failed",
			Details: fieldErrs,
		}
	}

	e.logger.Info("[req:%s] Generating vibes: category=%s/%s tone=%s tags=%d",
		requestID, inputs.Category, inputs.Subcategory, inputs.Tone, len(inputs.TextTags))

	pool, err := e.pool.Generate(ctx, inputs, requestID)
	if err != nil {
		e.metrics.observeRequest("generation_failed", time.Since(start))
		if errors.Is(err, ErrNoCandidates) {
			return nil, &Error{Code: CodeGenerationFailed, Message: "No candidates could be generated"}
		}
		return nil, &Error{Code: CodeGenerationFailed, Message: err.Error()}
	}

	result := e.revision.Run(ctx, inputs, pool, requestID)
	e.metrics.observeIterations(result.TotalIterations)

	suggestions, fallbacksUsed := e.finalizeSuggestions(result, inputs.Tone)
	e.metrics.observeFallback(fallbacksUsed)

	strategies := make([]string, 0, len(result.StrategiesUsed))
	for _, s := range result.StrategiesUsed {
		strategies = append(strategies, string(s))
	}

	e.metrics.observeRequest("success", time.Since(start))
	e.logger.Info("[req:%s] Done in %v: %d iterations, %d revisions, %d fallback lines",
		requestID, time.Since(start).Round(time.Millisecond),
		result.TotalIterations, result.SuccessfulRevisions, fallbacksUsed)

	return &Response{
		Metadata: ResponseMetadata{
			Category:      inputs.Category,
			Subcategory:   inputs.Subcategory,
			Tone:          string(inputs.Tone),
			TextTags:      inputs.TextTags,
			RecipientName: inputs.RecipientName,
			Relationship:  inputs.Relationship,
			Language:      inputs.Language,
		},
		TextSuggestions: suggestions,
		Audit: Audit{
			TotalGenerated:      len(pool),
			StrategiesUsed:      strategies,
			Iterations:          result.TotalIterations,
			SuccessfulRevisions: result.SuccessfulRevisions,
			Model:               e.client.Model(),
		},
	}, nil
}

// finalizeSuggestions shapes exactly TargetCount lines: revision output
// first, deterministic tone-keyed fallbacks for any missing slot, and a final
// safety pass replacing empty lines and truncating anything over the cap.
func (e *Engine) finalizeSuggestions(result RevisionResult, tone Tone) ([]string, int) {
	suggestions := make([]string, 0, TargetCount)
	seen := make(map[string]struct{})
	for _, sc := range result.Candidates {
		if len(suggestions) == TargetCount {
			break
		}
		if _, dup := seen[sc.Candidate.Text]; dup {
			continue
		}
		seen[sc.Candidate.Text] = struct{}{}
		suggestions = append(suggestions, sc.Candidate.Text)
	}

	fallbacksUsed := 0
	for _, line := range fallbackLines(tone) {
		if len(suggestions) == TargetCount {
			break
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		suggestions = append(suggestions, line)
		fallbacksUsed++
	}
	// The tone tables carry at least TargetCount distinct fallback lines, so
	// this loop only runs when a fallback collided with a generated line.
	for i := 0; len(suggestions) < TargetCount; i++ {
		suggestions = append(suggestions, fmt.Sprintf("Making moment %d count", i+1))
		fallbacksUsed++
	}

	for i, line := range suggestions {
		if line == "" {
			fallback := fallbackLines(tone)
			suggestions[i] = fallback[i%len(fallback)]
			fallbacksUsed++
			continue
		}
		if len([]rune(line)) > MaxLineLength {
			suggestions[i] = truncateRunes(line, MaxLineLength)
		}
	}
	return suggestions, fallbacksUsed
}
