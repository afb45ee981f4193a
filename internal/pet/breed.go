package pet

import (
	"strings"

	"github.com/charmbracelet/log"
)

// breedBehaviors maps a breed to its dialogue modifier. Lookup keys are
// title-cased; unknown breeds fall back to a species-generic modifier.
var breedBehaviors = map[string]string{
	// Dog breeds
	"Golden Retriever": "Friendly, loyal, and loves attention. Respond with warmth and eagerness.",
	"Pomeranian":       "Playful and vocal. Respond with sass and energy. Seek attention often.",
	"Poodle":           "Smart and proud. Speak with confidence, wit, and a touch of flair.",
	"Bulldog":          "Laid-back and stubborn. Use short, gruff responses with a calm vibe.",
	"Shiba Inu":        "Independent and alert. Speak with confidence and subtle affection.",
	"Shih Tzu":         "Affectionate and pampered. Respond in a cuddly, slightly regal manner.",
	// Cat breeds
	"Persian":       "Calm and regal. Use slow, composed responses with gentle affection.",
	"Maine Coon":    "Gentle giants. Be playful but polite, kind, and curious.",
	"Siamese":       "Vocal and intelligent. Respond with drama, wit, and intensity.",
	"Bengal":        "Energetic and wild. Use adventurous language and show curiosity.",
	"Scottish Fold": "Quiet and sweet. Keep responses gentle, brief, and affectionate.",
}

// FallbackBreedModifier is returned for breeds without a table entry.
const FallbackBreedModifier = "Behave according to your general species characteristics."

// BreedModifier returns the behavioral modifier for a breed. Never fails;
// unmatched breeds are logged and get the species-generic fallback.
func BreedModifier(breed string) string {
	key := titleCase(breed)
	if modifier, ok := breedBehaviors[key]; ok {
		return modifier
	}
	log.Warn("unknown breed, using fallback behavior", "breed", breed)
	return FallbackBreedModifier
}

// titleCase normalizes "shiba inu" -> "Shiba Inu".
func titleCase(s string) string {
	words := strings.Fields(strings.TrimSpace(s))
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}
