package vibe

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"vibemaker/internal/llm"
	"vibemaker/internal/logging"
	"vibemaker/internal/prompts"
)

// Generator produces raw candidates via the prompt-driven strategies. The
// template-fill strategy is entirely local; the rest consume the completion
// service.
type Generator struct {
	client  llm.Client
	prompts *prompts.Loader
	logger  logging.Logger
}

// NewGenerator wires a strategy generator to a completion client.
func NewGenerator(client llm.Client, loader *prompts.Loader, logger logging.Logger) *Generator {
	return &Generator{
		client:  client,
		prompts: loader,
		logger:  logging.OrNop(logger),
	}
}

// TemplateFill fills the fixed per-tone templates from the recipient name and
// tags. Templates left with an unfilled placeholder, or exceeding the length
// cap after filling, are discarded. Makes no external call.
func (g *Generator) TemplateFill(inputs *ValidatedInputs) []GenerationCandidate {
	thing := "the little things"
	activity := "moments"
	if len(inputs.TextTags) > 0 {
		thing = inputs.TextTags[0]
		activity = inputs.TextTags[0]
	}
	if len(inputs.TextTags) > 1 {
		activity = inputs.TextTags[1]
	}

	var out []GenerationCandidate
	for _, template := range toneTemplates(inputs.Tone) {
		line := template
		if strings.Contains(line, "[Name]") {
			if inputs.RecipientName == "" {
				continue
			}
			line = strings.ReplaceAll(line, "[Name]", inputs.RecipientName)
		}
		line = strings.ReplaceAll(line, "[thing]", thing)
		line = strings.ReplaceAll(line, "[activity]", activity)
		if strings.Contains(line, "[") {
			continue
		}
		line = NormalizeLine(line)
		if line == "" || len([]rune(line)) > MaxLineLength {
			continue
		}
		out = append(out, GenerationCandidate{Text: line, Strategy: StrategyTemplate})
	}
	return out
}

// Freeform requests stylistically distinct lines conditioned on the tone
// profile.
func (g *Generator) Freeform(ctx context.Context, inputs *ValidatedInputs, requestID string) ([]GenerationCandidate, error) {
	vars := g.promptVars(inputs)
	vars["count"] = strconv.Itoa(freeformLineCount)
	vars["context"] = contextBlock(inputs)

	return g.generateLines(ctx, "freeform", vars, StrategyFreeform, requestID, 0.9, false)
}

// Targeted requests lines addressed to the recipient. Callers only invoke it
// when a recipient name is present.
func (g *Generator) Targeted(ctx context.Context, inputs *ValidatedInputs, requestID string) ([]GenerationCandidate, error) {
	vars := g.promptVars(inputs)
	vars["count"] = strconv.Itoa(strategyLineCount)
	vars["recipient"] = inputs.RecipientName

	relationship := ""
	if inputs.Relationship != "" {
		relationship = fmt.Sprintf(" (their %s)", inputs.Relationship)
	}
	vars["relationship"] = relationship

	emphasis := ""
	switch inputs.Tone {
	case ToneSavage:
		emphasis = fmt.Sprintf("Work %s's name into every single line; the roast must be unmistakably aimed at them.", inputs.RecipientName)
	case ToneRomantic, ToneSentimental:
		emphasis = fmt.Sprintf("Speak directly to %s in the second person.", inputs.RecipientName)
	default:
		emphasis = fmt.Sprintf("Mention %s by name in at least half of the lines.", inputs.RecipientName)
	}
	vars["emphasis"] = emphasis

	return g.generateLines(ctx, "targeted", vars, StrategyTargeted, requestID, 0.85, false)
}

// TagFocused requests lines emphasizing the first three tags. Callers only
// invoke it when tags are present.
func (g *Generator) TagFocused(ctx context.Context, inputs *ValidatedInputs, requestID string) ([]GenerationCandidate, error) {
	focus := inputs.TextTags
	if len(focus) > 3 {
		focus = focus[:3]
	}

	vars := g.promptVars(inputs)
	vars["count"] = strconv.Itoa(strategyLineCount)
	vars["tags"] = strings.Join(focus, ", ")

	return g.generateLines(ctx, "tag_focused", vars, StrategyTagFocused, requestID, 0.85, false)
}

// Backfill requests count brand-new lines that differ from every existing
// text. Used by the revision engine when a round comes up short.
func (g *Generator) Backfill(ctx context.Context, inputs *ValidatedInputs, existing []string, count int, requestID string) ([]GenerationCandidate, error) {
	var listing strings.Builder
	for _, text := range existing {
		fmt.Fprintf(&listing, "- %s\n", text)
	}

	vars := g.promptVars(inputs)
	vars["count"] = strconv.Itoa(count)
	vars["context"] = contextBlock(inputs)
	vars["existing"] = strings.TrimRight(listing.String(), "\n")

	// The prompt demands lines that differ from every existing text, so a
	// cached reply from an earlier round would be exactly the wrong answer.
	return g.generateLines(ctx, "backfill", vars, StrategyAdditional, requestID, 0.95, true)
}

// Revise asks the completion service to repair one failing candidate using
// its accumulated failure reasons. Returns the normalized revised text.
func (g *Generator) Revise(ctx context.Context, inputs *ValidatedInputs, candidate GenerationCandidate, reasons []string, requestID string) (string, error) {
	var problems strings.Builder
	for _, reason := range reasons {
		fmt.Fprintf(&problems, "- %s\n", reason)
	}

	vars := map[string]string{
		"text":         candidate.Text,
		"tone":         string(inputs.Tone),
		"problems":     strings.TrimRight(problems.String(), "\n"),
		"instructions": repairInstructions(reasons, inputs),
	}

	prompt, err := g.prompts.Render("revise", vars)
	if err != nil {
		return "", err
	}

	resp, err := g.client.Complete(ctx, llm.CompletionRequest{
		Messages:    []llm.Message{{Role: "user", Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   200,
		RequestID:   requestID,
		NoCache:     true,
	})
	if err != nil {
		return "", err
	}

	revised, err := llm.ParseRevised(resp.Content)
	if err != nil {
		return "", err
	}
	return NormalizeLine(revised), nil
}

func (g *Generator) generateLines(ctx context.Context, template string, vars map[string]string, strategy Strategy, requestID string, temperature float64, fresh bool) ([]GenerationCandidate, error) {
	prompt, err := g.prompts.Render(template, vars)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Complete(ctx, llm.CompletionRequest{
		Messages:    []llm.Message{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   400,
		RequestID:   requestID,
		NoCache:     fresh,
	})
	if err != nil {
		return nil, err
	}

	lines, err := llm.ParseLines(resp.Content)
	if err != nil {
		return nil, err
	}

	out := make([]GenerationCandidate, 0, len(lines))
	for _, raw := range lines {
		line := NormalizeLine(raw)
		if line == "" {
			continue
		}
		out = append(out, GenerationCandidate{Text: line, Strategy: strategy})
	}
	return out, nil
}

func (g *Generator) promptVars(inputs *ValidatedInputs) map[string]string {
	profile := profileFor(inputs.Tone)
	return map[string]string{
		"category":    inputs.Category,
		"subcategory": inputs.Subcategory,
		"tone":        string(inputs.Tone),
		"traits":      profile.traits,
		"cues":        profile.cues,
		"avoid":       profile.avoid,
		"language":    inputs.Language,
	}
}

// contextBlock renders optional request context (tags, recipient) for the
// freeform and backfill prompts.
func contextBlock(inputs *ValidatedInputs) string {
	var parts []string
	if len(inputs.TextTags) > 0 {
		parts = append(parts, fmt.Sprintf("Themes to draw from: %s.", strings.Join(inputs.TextTags, ", ")))
	}
	if inputs.RecipientName != "" {
		who := inputs.RecipientName
		if inputs.Relationship != "" {
			who = fmt.Sprintf("%s (their %s)", who, inputs.Relationship)
		}
		parts = append(parts, fmt.Sprintf("The post is about %s.", who))
	}
	return strings.Join(parts, "\n")
}

// repairInstructions translates scoring failure reasons into concrete fix
// directions for the revision prompt.
func repairInstructions(reasons []string, inputs *ValidatedInputs) string {
	var out []string
	for _, reason := range reasons {
		switch {
		case strings.HasPrefix(reason, "too long"):
			out = append(out, "Shorten the caption to well under 100 characters.")
		case strings.HasPrefix(reason, "too similar"):
			out = append(out, "Rework the wording and structure so it reads nothing like the other captions.")
		case strings.HasPrefix(reason, "poor tone fit"):
			out = append(out, fmt.Sprintf("Lean much harder into the %s tone.", inputs.Tone))
		case strings.HasPrefix(reason, "weak tag alignment"):
			out = append(out, fmt.Sprintf("Work in these themes: %s.", strings.Join(inputs.TextTags, ", ")))
		case strings.HasPrefix(reason, "unsafe content"):
			out = append(out, "Remove anything offensive or unsafe.")
		}
	}
	if len(out) == 0 {
		out = append(out, "Polish the caption while keeping it under 100 characters.")
	}
	return strings.Join(out, " ")
}
