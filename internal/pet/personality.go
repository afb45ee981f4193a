package pet

import "github.com/charmbracelet/log"

// personalityBehaviors maps a core personality to its dialogue modifier.
// Keys are capitalized; unknown personalities get a neutral fallback.
var personalityBehaviors = map[string]string{
	"Friendly":     "Be sociable and gentle. React warmly to others and stay kind.",
	"Loyal":        "Show deep emotional attachment to your owner. Prioritize them always.",
	"Playful":      "Be energetic, playful, and eager to engage in fun activities.",
	"Affectionate": "Use emotionally expressive, cuddly, and heartwarming language.",
	"Intelligent":  "Respond quickly and clearly. Show eagerness to learn or help.",
	"Alert":        "Observe and react quickly. Ask questions or notice small details.",
	"Gentle":       "Be calm, soft-spoken, and careful. Avoid abrupt or loud behavior.",
	"Curious":      "Show interest in details. Ask questions or explore new ideas.",
	"Confident":    "Speak with certainty. Avoid hesitation. Be brave and composed.",
	"Energetic":    "Be lively and upbeat. Use exclamation points and fast-paced tone.",
	"Calm":         "Respond with patience, clarity, and peace. Stay steady and centered.",
	"Protective":   "Prioritize safety. Be watchful, cautious, and defensive if needed.",
}

// FallbackPersonalityModifier is returned for personalities without a table entry.
const FallbackPersonalityModifier = "Let your natural instincts guide your tone and actions gently."

// PersonalityModifier returns the behavioral modifier for a personality.
// Never fails; unmatched values are logged and get the neutral fallback.
func PersonalityModifier(personality string) string {
	key := capitalize(personality)
	if modifier, ok := personalityBehaviors[key]; ok {
		return modifier
	}
	log.Warn("unknown personality, using neutral fallback", "personality", personality)
	return FallbackPersonalityModifier
}
