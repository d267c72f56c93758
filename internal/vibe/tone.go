package vibe

import (
	"strings"
)

// Tone is the closed enumeration of supported caption tones. Validation
// rejects anything outside the set; the scorer still falls back to a default
// profile for unknown values.
type Tone string

const (
	ToneHumorous      Tone = "humorous"
	ToneSavage        Tone = "savage"
	ToneRomantic      Tone = "romantic"
	ToneSentimental   Tone = "sentimental"
	ToneInspirational Tone = "inspirational"
	ToneChill         Tone = "chill"
)

// Tones lists every supported tone in a stable order.
func Tones() []Tone {
	return []Tone{ToneHumorous, ToneSavage, ToneRomantic, ToneSentimental, ToneInspirational, ToneChill}
}

// IsValidTone reports whether raw names a supported tone.
func IsValidTone(raw string) bool {
	switch Tone(raw) {
	case ToneHumorous, ToneSavage, ToneRomantic, ToneSentimental, ToneInspirational, ToneChill:
		return true
	default:
		return false
	}
}

// toneProfile drives both prompt construction and tone-fit scoring.
type toneProfile struct {
	keywords []string
	traits   string
	cues     string
	avoid    string
}

func profileFor(tone Tone) toneProfile {
	switch tone {
	case ToneHumorous:
		return toneProfile{
			keywords: []string{"funny", "laugh", "joke", "lol", "hilarious", "silly", "comedy", "goof", "snort", "ridiculous"},
			traits:   "playful, self-aware, quick",
			cues:     "punchlines, absurd comparisons, mock seriousness",
			avoid:    "mean-spirited jokes, puns that need explaining",
		}
	case ToneSavage:
		return toneProfile{
			keywords: []string{"savage", "bold", "fierce", "ruthless", "shade", "burn", "roast", "petty", "audacity", "fear"},
			traits:   "confident, sharp, unapologetic",
			cues:     "direct second-person jabs, dry superiority, zero hedging",
			avoid:    "actual cruelty, slurs, anything about appearance or health",
		}
	case ToneRomantic:
		return toneProfile{
			keywords: []string{"love", "heart", "forever", "darling", "kiss", "soul", "sweet", "always", "mine", "adore"},
			traits:   "warm, tender, sincere",
			cues:     "soft imagery, quiet devotion, timelessness",
			avoid:    "clichés about roses, possessive phrasing",
		}
	case ToneSentimental:
		return toneProfile{
			keywords: []string{"memory", "grateful", "cherish", "heart", "moment", "treasure", "warm", "thankful", "dear", "always"},
			traits:   "nostalgic, appreciative, gentle",
			cues:     "small remembered details, gratitude, first person",
			avoid:    "melodrama, grief imagery",
		}
	case ToneInspirational:
		return toneProfile{
			keywords: []string{"dream", "rise", "shine", "believe", "journey", "grow", "strength", "brave", "conquer", "spark"},
			traits:   "uplifting, forward-looking, energetic",
			cues:     "momentum, second-person encouragement, horizons",
			avoid:    "hustle-culture grind talk, empty buzzwords",
		}
	case ToneChill:
		return toneProfile{
			keywords: []string{"easy", "calm", "vibe", "slow", "breeze", "mellow", "drift", "unwind", "simple", "still"},
			traits:   "relaxed, understated, unbothered",
			cues:     "short lines, low stakes, soft scenery",
			avoid:    "exclamation marks, urgency",
		}
	default:
		return toneProfile{
			keywords: []string{"good", "great", "best", "happy", "day", "time", "nice", "fun", "joy", "smile"},
			traits:   "friendly, upbeat",
			cues:     "simple positivity",
			avoid:    "negativity",
		}
	}
}

// toneBonus awards tone-specific structural bonuses on top of keyword density.
func toneBonus(tone Tone, text string) float64 {
	lower := strings.ToLower(text)
	trimmed := strings.TrimSpace(text)

	bonus := 0.0
	switch tone {
	case ToneHumorous:
		// Interrogative or exclamatory endings read as comedic delivery.
		if strings.HasSuffix(trimmed, "?") || strings.HasSuffix(trimmed, "!") {
			bonus += 0.25
		}
		if strings.Contains(lower, "?") && strings.Contains(lower, "!") {
			bonus += 0.1
		}
	case ToneSavage:
		// Savage lines land in the second person.
		if containsWord(lower, "you") || containsWord(lower, "your") {
			bonus += 0.3
		}
	case ToneRomantic:
		if containsWord(lower, "you") || containsWord(lower, "your") {
			bonus += 0.2
		}
		if strings.HasSuffix(trimmed, ".") {
			bonus += 0.1
		}
	case ToneSentimental:
		if containsWord(lower, "i") || containsWord(lower, "we") ||
			containsWord(lower, "my") || containsWord(lower, "our") {
			bonus += 0.25
		}
	case ToneInspirational:
		if containsWord(lower, "you") || containsWord(lower, "your") {
			bonus += 0.25
		}
	case ToneChill:
		if len(strings.Fields(trimmed)) <= 12 {
			bonus += 0.25
		}
		if strings.HasSuffix(trimmed, "!") {
			bonus -= 0.15
		}
	default:
		if strings.HasSuffix(trimmed, ".") || strings.HasSuffix(trimmed, "!") {
			bonus += 0.2
		}
	}
	if bonus < 0 {
		bonus = 0
	}
	return bonus
}

func containsWord(lowerText, word string) bool {
	for _, field := range strings.Fields(lowerText) {
		if strings.Trim(field, ".,!?;:'\"") == word {
			return true
		}
	}
	return false
}

// toneTemplates are the fixed per-tone template-fill skeletons. Placeholders
// [Name], [thing] and [activity] are substituted locally.
func toneTemplates(tone Tone) []string {
	switch tone {
	case ToneHumorous:
		return []string{
			"Warning: [Name] plus [thing] equals chaos!",
			"Who gave [Name] permission to be this good at [activity]?",
			"All I need is [thing] and a nap, honestly!",
			"Professional overthinker, amateur [activity] enjoyer!",
		}
	case ToneSavage:
		return []string{
			"[Name], the audacity looks good on you",
			"[Name] heard the bar was low and brought a shovel",
			"[Name], serving [thing] energy with zero apologies",
			"[Name], your [thing] could never and you know it",
		}
	case ToneRomantic:
		return []string{
			"Every [thing] feels softer with you, [Name].",
			"[Name], you turn ordinary [activity] into forever.",
			"My heart keeps choosing you over [thing].",
			"With you, even [activity] feels like a love song.",
		}
	case ToneSentimental:
		return []string{
			"Some moments with [Name] deserve their own [thing]",
			"Grateful for every bit of [activity] we get together",
			"These little [thing] moments are everything to me",
			"Holding on to this [activity] a little longer",
		}
	case ToneInspirational:
		return []string{
			"Chase the [thing] nobody believes in yet, your time is now",
			"[Name], your next [activity] starts today",
			"Small steps, loud [thing], no looking back for you",
			"Keep going, your [thing] is still ahead of you",
		}
	case ToneChill:
		return []string{
			"Just [thing], good company, and nowhere to be",
			"Low-key [activity] kind of day",
			"[Name] knows the best plans are no plans",
			"Slow mornings and [thing], that's it",
		}
	default:
		return []string{
			"Here's to [Name] and all the good [thing]",
			"Making time for [activity], always",
		}
	}
}

// fallbackLines are deterministic tone-keyed lines used when generation and
// revision both come up short. Each is under the length cap by construction.
func fallbackLines(tone Tone) []string {
	switch tone {
	case ToneHumorous:
		return []string{
			"Officially too funny for my own good!",
			"Proof that chaos can be photogenic!",
			"Living my best blooper reel!",
			"Comedy found me, I didn't even audition!",
		}
	case ToneSavage:
		return []string{
			"You wish you had this kind of nerve",
			"Built different, and you can tell",
			"Not competing, you'd lose anyway",
			"The upgrade your feed needed",
		}
	case ToneRomantic:
		return []string{
			"Every day with you is my favorite day.",
			"You make my heart feel at home.",
			"Falling for you all over again.",
			"My forever starts and ends with you.",
		}
	case ToneSentimental:
		return []string{
			"Grateful for moments like these",
			"Some days deserve to be remembered forever",
			"My heart is full and so are my memories",
			"Keeping this one close to my heart",
		}
	case ToneInspirational:
		return []string{
			"Your next chapter is waiting for you",
			"Keep rising, you were built for this",
			"Every small step is still a step forward",
			"Believe in the version of you still growing",
		}
	case ToneChill:
		return []string{
			"Good vibes, no plans, no stress",
			"Taking it slow and loving it",
			"Easy days are the best days",
			"Just here for the calm",
		}
	default:
		return []string{
			"Making every moment count",
			"Good times and better company",
			"Here's to days like this",
			"Collecting little joys, one day at a time",
		}
	}
}
