package vibe

import (
	"fmt"
	"strings"
)

// Scoring weights and gates.
const (
	weightLength     = 0.30
	weightUniqueness = 0.20
	weightToneFit    = 0.30
	weightTags       = 0.10
	weightSafety     = 0.10

	jaccardThreshold        = 0.6
	bigramThreshold         = 0.7
	editSimilarityThreshold = 0.8

	uniquenessGate = 0.8
	toneFitGate    = 0.75

	toneKeywordCap = 0.6
)

// tagSynonyms backs the soft synonym lookup in tag alignment scoring.
var tagSynonyms = map[string][]string{
	"dog":      {"puppy", "pup", "doggo"},
	"cat":      {"kitten", "kitty"},
	"food":     {"meal", "feast", "eats", "snack"},
	"coffee":   {"espresso", "latte", "brew"},
	"travel":   {"journey", "trip", "wander", "adventure"},
	"beach":    {"ocean", "shore", "sand", "waves"},
	"fitness":  {"gym", "workout", "training"},
	"birthday": {"bday", "another year", "cake"},
	"friends":  {"crew", "squad", "besties"},
	"love":     {"heart", "romance", "adore"},
	"sunset":   {"golden hour", "dusk"},
	"family":   {"fam", "loved ones"},
}

// uniquenessReport carries the worst-case similarity of a candidate to any
// peer, one maximum per metric.
type uniquenessReport struct {
	maxJaccard        float64
	maxBigram         float64
	maxEditSimilarity float64
}

// checkUniqueness compares candidate text against every other candidate and
// keeps the maximum of each metric across all comparisons.
func checkUniqueness(text string, others []string) uniquenessReport {
	var report uniquenessReport
	for _, other := range others {
		if j := TokenJaccard(text, other); j > report.maxJaccard {
			report.maxJaccard = j
		}
		if b := BigramOverlap(text, other); b > report.maxBigram {
			report.maxBigram = b
		}
		if sim := 1 - EditDistanceRatio(text, other); sim > report.maxEditSimilarity {
			report.maxEditSimilarity = sim
		}
	}
	return report
}

// ScoreCandidate scores one candidate against its peers in the same round.
// Uniqueness is set-relative: the same text can pass in one pool and fail in
// another.
func ScoreCandidate(candidate GenerationCandidate, others []string, tone Tone, tags []string) ScoringResult {
	var result ScoringResult
	text := candidate.Text

	// Length: binary gate.
	length := len([]rune(text))
	if length <= MaxLineLength {
		result.LengthScore = 1.0
	} else {
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("too long: %d characters (limit %d)", length, MaxLineLength))
	}

	// Uniqueness: fraction of the three similarity sub-checks passed.
	report := checkUniqueness(text, others)
	passed := 0
	if report.maxJaccard < jaccardThreshold {
		passed++
	}
	if report.maxBigram < bigramThreshold {
		passed++
	}
	if report.maxEditSimilarity < editSimilarityThreshold {
		passed++
	}
	result.UniquenessScore = float64(passed) / 3.0
	if result.UniquenessScore < uniquenessGate {
		result.Reasons = append(result.Reasons, "too similar to other candidates")
	}

	// Tone fit: keyword density capped, plus structural bonuses.
	result.ToneFitScore = scoreToneFit(text, tone)
	if result.ToneFitScore < toneFitGate {
		result.Reasons = append(result.Reasons, fmt.Sprintf("poor tone fit for %q", tone))
	}

	// Tag alignment: advisory only, never gates a pass.
	result.TagAlignmentScore = scoreTagAlignment(text, tags)
	if result.TagAlignmentScore < 0.5 && len(tags) > 0 {
		result.Reasons = append(result.Reasons, "weak tag alignment")
	}

	// Safety: any unsafe pattern is a hard fail.
	if matchesAny(unsafePatterns, text) || matchesAny(slurPatterns, text) {
		result.Reasons = append(result.Reasons, "unsafe content")
	} else {
		result.SafetyScore = 1.0
	}

	result.OverallScore = weightLength*result.LengthScore +
		weightUniqueness*result.UniquenessScore +
		weightToneFit*result.ToneFitScore +
		weightTags*result.TagAlignmentScore +
		weightSafety*result.SafetyScore

	result.Passes = result.LengthScore == 1.0 &&
		result.UniquenessScore >= uniquenessGate &&
		result.ToneFitScore >= toneFitGate &&
		result.SafetyScore == 1.0

	return result
}

func scoreToneFit(text string, tone Tone) float64 {
	lower := strings.ToLower(text)
	profile := profileFor(tone)

	hits := 0
	for _, keyword := range profile.keywords {
		if strings.Contains(lower, keyword) {
			hits++
		}
	}
	density := float64(hits) / 3.0
	if density > toneKeywordCap {
		density = toneKeywordCap
	}

	score := density + toneBonus(tone, text)
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// scoreTagAlignment awards, per tag, the best of a literal substring match
// (1.0), a stem match with the last two characters dropped (0.5), or a
// synonym-table match (0.7). Returns 1.0 when no tags were supplied.
func scoreTagAlignment(text string, tags []string) float64 {
	if len(tags) == 0 {
		return 1.0
	}

	lower := strings.ToLower(text)
	total := 0.0
	for _, tag := range tags {
		tag = strings.ToLower(tag)
		best := 0.0

		if strings.Contains(lower, tag) {
			best = 1.0
		} else {
			if synonyms, ok := tagSynonyms[tag]; ok {
				for _, synonym := range synonyms {
					if strings.Contains(lower, synonym) {
						best = 0.7
						break
					}
				}
			}
			if best < 0.5 && len(tag) > 4 {
				stem := tag[:len(tag)-2]
				if strings.Contains(lower, stem) {
					best = 0.5
				}
			}
		}
		total += best
	}

	score := total / float64(len(tags))
	if score > 1.0 {
		score = 1.0
	}
	return score
}
