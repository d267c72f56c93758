package vibe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validRequest() Request {
	return Request{
		Category:    "birthday",
		Subcategory: "friend",
		Tone:        "humorous",
		TextTags:    []string{"cake", "balloons"},
	}
}

func TestValidateHappyPath(t *testing.T) {
	inputs, errs := Validate(validRequest())
	require.Empty(t, errs)
	require.Equal(t, "birthday", inputs.Category)
	require.Equal(t, "friend", inputs.Subcategory)
	require.Equal(t, ToneHumorous, inputs.Tone)
	require.Equal(t, []string{"cake", "balloons"}, inputs.TextTags)
	require.Equal(t, DefaultLanguage, inputs.Language)
}

func TestValidateNormalizesCaseAndWhitespace(t *testing.T) {
	req := validRequest()
	req.Category = "  Birthday "
	req.Subcategory = "FRIEND"
	req.Tone = " Humorous"
	req.TextTags = []string{" Cake "}
	req.RecipientName = "  Sam  "

	inputs, errs := Validate(req)
	require.Empty(t, errs)
	require.Equal(t, "birthday", inputs.Category)
	require.Equal(t, "friend", inputs.Subcategory)
	require.Equal(t, ToneHumorous, inputs.Tone)
	require.Equal(t, []string{"cake"}, inputs.TextTags)
	require.Equal(t, "Sam", inputs.RecipientName)
}

func TestValidatePresenceShortCircuits(t *testing.T) {
	_, errs := Validate(Request{Tone: "nonsense"})
	require.Len(t, errs, 2)
	for _, fe := range errs {
		require.Equal(t, CodeRequiredField, fe.Code)
	}
}

func TestValidateCollectsMembershipErrors(t *testing.T) {
	req := Request{Category: "nope", Subcategory: "x", Tone: "angry"}
	_, errs := Validate(req)

	codes := make([]string, 0, len(errs))
	for _, fe := range errs {
		codes = append(codes, fe.Code)
	}
	require.Contains(t, codes, CodeInvalidCategory)
	require.Contains(t, codes, CodeInvalidTone)
}

func TestValidateSubcategoryMembership(t *testing.T) {
	req := validRequest()
	req.Subcategory = "travel" // belongs to caption, not birthday
	_, errs := Validate(req)
	require.Len(t, errs, 1)
	require.Equal(t, CodeInvalidSubcategory, errs[0].Code)
}

func TestValidateTooManyTags(t *testing.T) {
	req := validRequest()
	req.TextTags = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	_, errs := Validate(req)
	require.Len(t, errs, 1)
	require.Equal(t, CodeTooManyTags, errs[0].Code)
}

func TestValidateEmptyTag(t *testing.T) {
	req := validRequest()
	req.TextTags = []string{"cake", "  "}
	_, errs := Validate(req)
	require.Len(t, errs, 1)
	require.Equal(t, CodeRequiredField, errs[0].Code)
	require.Equal(t, "text_tags[1]", errs[0].Field)
}

func TestValidateUnsafeTag(t *testing.T) {
	req := validRequest()
	req.TextTags = []string{"kill count"}
	_, errs := Validate(req)
	require.Len(t, errs, 1)
	require.Equal(t, CodeUnsafeTag, errs[0].Code)
}

func TestValidateSlurTag(t *testing.T) {
	req := validRequest()
	req.TextTags = []string{"nazi stuff"}
	_, errs := Validate(req)
	require.Len(t, errs, 1)
	require.Equal(t, CodeSlurTag, errs[0].Code)
}

func TestValidateLanguagePassthrough(t *testing.T) {
	req := validRequest()
	req.Language = "Spanish"
	inputs, errs := Validate(req)
	require.Empty(t, errs)
	require.Equal(t, "Spanish", inputs.Language)
}

func TestCategoriesReturnsCopy(t *testing.T) {
	cats := Categories()
	cats["birthday"][0] = "mutated"
	require.Equal(t, "friend", Categories()["birthday"][0])
}

func TestCategoryNamesSorted(t *testing.T) {
	names := CategoryNames()
	require.Equal(t, []string{"birthday", "caption", "celebration", "holiday"}, names)
}
