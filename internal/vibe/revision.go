package vibe

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"vibemaker/internal/logging"
)

// RevisionEngine iteratively scores the candidate pool, repairs failing
// candidates through the completion service, and backfills with fresh
// candidates until four pass or the round ceiling is hit.
type RevisionEngine struct {
	generator *Generator
	logger    logging.Logger
	metrics   *Metrics
}

// NewRevisionEngine builds the revise-and-backfill loop over a generator.
func NewRevisionEngine(generator *Generator, logger logging.Logger, metrics *Metrics) *RevisionEngine {
	return &RevisionEngine{
		generator: generator,
		logger:    logging.OrNop(logger),
		metrics:   metrics,
	}
}

// Run executes the bounded score/revise/backfill loop. It always returns a
// best-effort result; shortfalls degrade to the top candidates by overall
// score, never to an error.
func (e *RevisionEngine) Run(ctx context.Context, inputs *ValidatedInputs, pool []GenerationCandidate, requestID string) RevisionResult {
	candidates := pool
	strategies := newStrategySet(pool)
	successfulRevisions := 0

	for round := 1; ; round++ {
		scored := scoreRound(candidates, inputs, round)

		var passing []ScoredCandidate
		var failing []ScoredCandidate
		for _, sc := range scored {
			if sc.Result.Passes {
				passing = append(passing, sc)
			} else {
				failing = append(failing, sc)
			}
		}

		e.logger.Debug("Round %d: %d/%d candidates passing", round, len(passing), len(scored))

		if len(passing) >= TargetCount {
			return RevisionResult{
				Candidates:          passing[:TargetCount],
				TotalIterations:     round,
				SuccessfulRevisions: successfulRevisions,
				StrategiesUsed:      strategies.list(),
			}
		}

		if round == maxRevisionRounds {
			// Best-effort terminal state: top four by overall score.
			sort.SliceStable(scored, func(i, j int) bool {
				return scored[i].Result.OverallScore > scored[j].Result.OverallScore
			})
			limit := TargetCount
			if len(scored) < limit {
				limit = len(scored)
			}
			e.logger.Info("Round ceiling reached, returning best %d of %d candidates", limit, len(scored))
			return RevisionResult{
				Candidates:          scored[:limit],
				TotalIterations:     round,
				SuccessfulRevisions: successfulRevisions,
				StrategiesUsed:      strategies.list(),
			}
		}

		// REVISING: repair a bounded number of failing candidates.
		toRevise := failing
		if len(toRevise) > maxRepairsPerRound {
			toRevise = toRevise[:maxRepairsPerRound]
		}
		revised := e.reviseConcurrently(ctx, inputs, toRevise, requestID)
		successfulRevisions += len(revised)
		for _, c := range revised {
			strategies.add(c.Strategy)
		}

		next := make([]GenerationCandidate, 0, len(passing)+len(revised)+TargetCount)
		for _, sc := range passing {
			next = append(next, sc.Candidate)
		}
		next = append(next, revised...)

		// BACKFILLING: top up with brand-new candidates when short.
		if len(next) < TargetCount {
			need := TargetCount - len(next)
			existing := candidateTexts(candidates)
			fresh, err := e.generator.Backfill(ctx, inputs, existing, need, requestID)
			if err != nil {
				e.logger.Warn("Backfill contributed nothing: %v", err)
				e.metrics.observeStrategyFailure(StrategyAdditional)
			} else {
				e.metrics.observeCandidates(StrategyAdditional, len(fresh))
				strategies.add(StrategyAdditional)
				next = append(next, fresh...)
			}
		}

		candidates = dedupe(next)
	}
}

// reviseConcurrently fans out one repair call per failing candidate and
// collects the successes. A repair that fails, comes back empty, or repeats
// the original text is dropped silently.
func (e *RevisionEngine) reviseConcurrently(ctx context.Context, inputs *ValidatedInputs, failing []ScoredCandidate, requestID string) []GenerationCandidate {
	results := make([]GenerationCandidate, len(failing))
	ok := make([]bool, len(failing))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, sc := range failing {
		group.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					e.logger.Warn("Repair of %q panicked: %v", sc.Candidate.Text, r)
				}
			}()
			revised, err := e.generator.Revise(groupCtx, inputs, sc.Candidate, sc.Result.Reasons, requestID)
			if err != nil {
				e.logger.Debug("Repair of %q failed: %v", sc.Candidate.Text, err)
				return nil
			}
			if revised == "" || revised == sc.Candidate.Text {
				return nil
			}
			results[i] = GenerationCandidate{
				Text:     revised,
				Strategy: sc.Candidate.Strategy.Revised(),
				Metadata: map[string]string{"revisedFrom": sc.Candidate.Text},
			}
			ok[i] = true
			return nil
		})
	}
	_ = group.Wait()

	var out []GenerationCandidate
	for i := range results {
		if ok[i] {
			e.metrics.observeRevisionSuccess()
			out = append(out, results[i])
		}
	}
	return out
}

// scoreRound scores every candidate against its peers in the same round.
func scoreRound(candidates []GenerationCandidate, inputs *ValidatedInputs, round int) []ScoredCandidate {
	texts := candidateTexts(candidates)
	scored := make([]ScoredCandidate, 0, len(candidates))
	for i, candidate := range candidates {
		others := make([]string, 0, len(texts)-1)
		others = append(others, texts[:i]...)
		others = append(others, texts[i+1:]...)
		scored = append(scored, ScoredCandidate{
			Candidate: candidate,
			Result:    ScoreCandidate(candidate, others, inputs.Tone, inputs.TextTags),
			Iteration: round,
		})
	}
	return scored
}

func candidateTexts(candidates []GenerationCandidate) []string {
	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Text
	}
	return texts
}

// strategySet tracks the union of strategy tags seen across a run.
type strategySet struct {
	seen  map[Strategy]struct{}
	order []Strategy
}

func newStrategySet(candidates []GenerationCandidate) *strategySet {
	set := &strategySet{seen: make(map[Strategy]struct{})}
	for _, c := range candidates {
		set.add(c.Strategy)
	}
	return set
}

func (s *strategySet) add(strategy Strategy) {
	if _, ok := s.seen[strategy]; ok {
		return
	}
	s.seen[strategy] = struct{}{}
	s.order = append(s.order, strategy)
}

func (s *strategySet) list() []Strategy {
	out := make([]Strategy, len(s.order))
	copy(out, s.order)
	return out
}
