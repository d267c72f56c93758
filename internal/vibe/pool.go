package vibe

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"vibemaker/internal/logging"
)

// ErrNoCandidates signals that every strategy, including the template
// fallback, produced nothing.
var ErrNoCandidates = errors.New("no candidates could be generated")

// Pool runs all applicable strategies and aggregates their output into one
// deduplicated candidate list.
type Pool struct {
	generator *Generator
	logger    logging.Logger
	metrics   *Metrics
}

// NewPool builds the candidate pool over a strategy generator.
func NewPool(generator *Generator, logger logging.Logger, metrics *Metrics) *Pool {
	return &Pool{
		generator: generator,
		logger:    logging.OrNop(logger),
		metrics:   metrics,
	}
}

type strategyResult struct {
	strategy   Strategy
	candidates []GenerationCandidate
	err        error
}

// Generate dispatches every applicable strategy concurrently, joins their
// results, and deduplicates by exact text (first occurrence wins). A single
// strategy failing contributes zero candidates; only a total failure of all
// remote strategies falls back to template output alone, and an empty
// fallback yields ErrNoCandidates.
func (p *Pool) Generate(ctx context.Context, inputs *ValidatedInputs, requestID string) ([]GenerationCandidate, error) {
	templateCandidates := p.generator.TemplateFill(inputs)
	p.metrics.observeCandidates(StrategyTemplate, len(templateCandidates))

	type task struct {
		strategy Strategy
		run      func(context.Context) ([]GenerationCandidate, error)
	}

	tasks := []task{
		{StrategyFreeform, func(ctx context.Context) ([]GenerationCandidate, error) {
			return p.generator.Freeform(ctx, inputs, requestID)
		}},
	}
	if inputs.RecipientName != "" {
		tasks = append(tasks, task{StrategyTargeted, func(ctx context.Context) ([]GenerationCandidate, error) {
			return p.generator.Targeted(ctx, inputs, requestID)
		}})
	}
	if len(inputs.TextTags) > 0 {
		tasks = append(tasks, task{StrategyTagFocused, func(ctx context.Context) ([]GenerationCandidate, error) {
			return p.generator.TagFocused(ctx, inputs, requestID)
		}})
	}

	// Each task writes only its own slot; results merge after the join.
	results := make([]strategyResult, len(tasks))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, t := range tasks {
		group.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					results[i] = strategyResult{strategy: t.strategy, err: fmt.Errorf("strategy panicked: %v", r)}
				}
			}()
			candidates, err := t.run(groupCtx)
			results[i] = strategyResult{strategy: t.strategy, candidates: candidates, err: err}
			return nil
		})
	}
	_ = group.Wait()

	var remote []GenerationCandidate
	remoteFailures := 0
	for _, result := range results {
		if result.err != nil || len(result.candidates) == 0 {
			remoteFailures++
			p.metrics.observeStrategyFailure(result.strategy)
			if result.err != nil {
				p.logger.Warn("Strategy %s contributed nothing: %v", result.strategy, result.err)
			} else {
				p.logger.Debug("Strategy %s returned no usable lines", result.strategy)
			}
			continue
		}
		p.metrics.observeCandidates(result.strategy, len(result.candidates))
		remote = append(remote, result.candidates...)
	}

	var pool []GenerationCandidate
	if remoteFailures == len(tasks) {
		p.logger.Warn("All remote strategies failed, falling back to template output")
		pool = retag(templateCandidates, StrategyFallbackTemplate)
	} else {
		pool = append(append([]GenerationCandidate{}, templateCandidates...), remote...)
	}

	pool = dedupe(pool)
	if len(pool) == 0 {
		return nil, ErrNoCandidates
	}

	p.logger.Info("Candidate pool assembled: %d candidates from %d strategies",
		len(pool), len(tasks)+1)
	return pool, nil
}

func retag(candidates []GenerationCandidate, strategy Strategy) []GenerationCandidate {
	out := make([]GenerationCandidate, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, GenerationCandidate{Text: c.Text, Strategy: strategy, Metadata: c.Metadata})
	}
	return out
}

// dedupe removes empty strings and exact-text duplicates, keeping the first
// occurrence.
func dedupe(candidates []GenerationCandidate) []GenerationCandidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]GenerationCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Text == "" {
			continue
		}
		if _, dup := seen[c.Text]; dup {
			continue
		}
		seen[c.Text] = struct{}{}
		out = append(out, c)
	}
	return out
}
