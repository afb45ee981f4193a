package pet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreedModifier(t *testing.T) {
	assert.Contains(t, BreedModifier("Golden Retriever"), "loyal")
	// Normalization: trim and title-case.
	assert.Equal(t, BreedModifier("Golden Retriever"), BreedModifier("  golden retriever "))
	assert.Equal(t, BreedModifier("SHIBA INU"), breedBehaviors["Shiba Inu"])
}

func TestBreedModifierFallback(t *testing.T) {
	assert.Equal(t, FallbackBreedModifier, BreedModifier("Chupacabra"))
	assert.Equal(t, FallbackBreedModifier, BreedModifier(""))
}

func TestPersonalityModifier(t *testing.T) {
	assert.Contains(t, PersonalityModifier("gentle"), "soft-spoken")
	assert.Equal(t, PersonalityModifier("LOYAL"), personalityBehaviors["Loyal"])
	assert.Equal(t, FallbackPersonalityModifier, PersonalityModifier("grumpy"))
	assert.Equal(t, FallbackPersonalityModifier, PersonalityModifier(""))
}

func TestLifestageSummary(t *testing.T) {
	baby := LifestageSummary("baby")
	assert.Equal(t, "Baby", baby.Name)
	assert.Contains(t, baby.Tone, "playful")

	// Unknown stages degrade to the neutral fallback, never an error.
	elder := LifestageSummary("Elder")
	assert.Contains(t, elder.Summary, "undefined age group")
	assert.Contains(t, elder.Tone, "neutral")
}

func TestLifestageFromID(t *testing.T) {
	assert.Equal(t, "Baby", LifestageFromID("1"))
	assert.Equal(t, "Teen", LifestageFromID("2"))
	assert.Equal(t, "Adult", LifestageFromID("3"))
	assert.Equal(t, "Adult", LifestageFromID("7"))
	assert.Equal(t, "Adult", LifestageFromID(""))
}
