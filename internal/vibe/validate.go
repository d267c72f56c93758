package vibe

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Validation error codes, field-scoped.
const (
	CodeRequiredField      = "REQUIRED_FIELD"
	CodeInvalidCategory    = "INVALID_CATEGORY"
	CodeInvalidSubcategory = "INVALID_SUBCATEGORY"
	CodeInvalidTone        = "INVALID_TONE"
	CodeTooManyTags        = "TOO_MANY_TAGS"
	CodeUnsafeTag          = "UNSAFE_TAG"
	CodeSlurTag            = "SLUR_TAG"
)

// DefaultLanguage is applied when the request omits a language.
const DefaultLanguage = "English"

// categories maps each supported category to its fixed subcategory set.
var categories = map[string][]string{
	"birthday":    {"friend", "family", "partner", "coworker", "pet"},
	"caption":     {"travel", "food", "fitness", "selfie", "pets", "nature"},
	"celebration": {"graduation", "new-job", "anniversary", "wedding"},
	"holiday":     {"christmas", "new-year", "halloween", "valentines"},
}

// unsafePatterns screen tags for content the pipeline refuses to build on.
var unsafePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(kill|murder|stab|shoot)\b`),
	regexp.MustCompile(`(?i)\b(suicide|self[- ]?harm)\b`),
	regexp.MustCompile(`(?i)\b(nude|nsfw|porn|xxx)\b`),
	regexp.MustCompile(`(?i)\b(terror(ist|ism)?|bomb)\b`),
	regexp.MustCompile(`(?i)\b(cocaine|heroin|meth)\b`),
}

// slurPatterns catch slurs including common letter substitutions.
var slurPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)n[i1!]gg`),
	regexp.MustCompile(`(?i)f[a@]gg?[o0]t`),
	regexp.MustCompile(`(?i)\bretard`),
	regexp.MustCompile(`(?i)\b(nazi|hitler)\b`),
}

// Categories returns the category enumeration with sorted keys, for clients.
func Categories() map[string][]string {
	out := make(map[string][]string, len(categories))
	for name, subs := range categories {
		copied := make([]string, len(subs))
		copy(copied, subs)
		out[name] = copied
	}
	return out
}

// CategoryNames returns supported category names in sorted order.
func CategoryNames() []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate normalizes and validates a request. Presence failures
// short-circuit; all other failures are collected and returned together.
// It has no side effects.
func Validate(req Request) (*ValidatedInputs, []FieldError) {
	var presence []FieldError
	for _, check := range []struct {
		field, value string
	}{
		{"category", req.Category},
		{"subcategory", req.Subcategory},
		{"tone", req.Tone},
	} {
		if strings.TrimSpace(check.value) == "" {
			presence = append(presence, FieldError{
				Field:   check.field,
				Code:    CodeRequiredField,
				Message: fmt.Sprintf("%s is required", check.field),
			})
		}
	}
	if len(presence) > 0 {
		return nil, presence
	}

	category := strings.ToLower(strings.TrimSpace(req.Category))
	subcategory := strings.ToLower(strings.TrimSpace(req.Subcategory))
	tone := strings.ToLower(strings.TrimSpace(req.Tone))

	var errs []FieldError

	subs, categoryOK := categories[category]
	if !categoryOK {
		errs = append(errs, FieldError{
			Field:   "category",
			Code:    CodeInvalidCategory,
			Message: fmt.Sprintf("unknown category %q", category),
		})
	} else if !containsString(subs, subcategory) {
		errs = append(errs, FieldError{
			Field:   "subcategory",
			Code:    CodeInvalidSubcategory,
			Message: fmt.Sprintf("subcategory %q does not belong to category %q", subcategory, category),
		})
	}

	if !IsValidTone(tone) {
		errs = append(errs, FieldError{
			Field:   "tone",
			Code:    CodeInvalidTone,
			Message: fmt.Sprintf("unknown tone %q", tone),
		})
	}

	tags := make([]string, 0, len(req.TextTags))
	if len(req.TextTags) > MaxTags {
		errs = append(errs, FieldError{
			Field:   "text_tags",
			Code:    CodeTooManyTags,
			Message: fmt.Sprintf("at most %d tags are allowed, got %d", MaxTags, len(req.TextTags)),
		})
	} else {
		for i, raw := range req.TextTags {
			tag := strings.ToLower(strings.TrimSpace(raw))
			if tag == "" {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("text_tags[%d]", i),
					Code:    CodeRequiredField,
					Message: "tag must not be empty",
				})
				continue
			}
			if matchesAny(slurPatterns, tag) {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("text_tags[%d]", i),
					Code:    CodeSlurTag,
					Message: "tag contains a slur",
				})
				continue
			}
			if matchesAny(unsafePatterns, tag) {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("text_tags[%d]", i),
					Code:    CodeUnsafeTag,
					Message: "tag contains unsafe content",
				})
				continue
			}
			tags = append(tags, tag)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = DefaultLanguage
	}

	return &ValidatedInputs{
		Category:      category,
		Subcategory:   subcategory,
		Tone:          Tone(tone),
		TextTags:      tags,
		RecipientName: strings.TrimSpace(req.RecipientName),
		Relationship:  strings.TrimSpace(req.Relationship),
		Language:      language,
	}, nil
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
