// Package prompt composes the two text blocks handed to the model: a stable
// system persona block and a per-turn instruction block carrying status,
// behavior directives, memory, and the response-format contract.
package prompt

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/ReiTony/petllm/internal/memory"
	"github.com/ReiTony/petllm/internal/pet"
)

// DefaultReplyCharBudget bounds the free-text portion of a reply,
// tags excluded.
const DefaultReplyCharBudget = 80

// TurnInput carries everything that varies per turn.
type TurnInput struct {
	Vitals           pet.Vitals
	Mood             pet.MoodResult
	BiographySnippet string
	MemorySnippet    string
	Message          string
	ReplyCharBudget  int
}

// BuildPersonaBlock renders the system-level persona: who the pet is and the
// layered behavior rules for its breed, lifestage, and personality. Stable
// across a conversation.
func BuildPersonaBlock(p Persona) string {
	species := strings.ToLower(p.PetType)
	lifestage := pet.LifestageSummary(p.Lifestage)
	personalityMod := pet.PersonalityModifier(p.Personality)
	breedMod := pet.BreedModifier(p.Breed)

	var b strings.Builder
	fmt.Fprintf(&b, "You are a virtual %s named %s. You are having a conversation with your owner, %s.\n",
		species, p.Name, p.OwnerName)
	b.WriteString("!!! Important: All status values influence your behavior and responses. Always follow the Pet Status you are given.\n")
	b.WriteString("Use these status levels to guide your emotions, actions, and tone.\n\n")

	fmt.Fprintf(&b, "--- %s Profile ---\n", capitalizeWord(p.PetType))
	fmt.Fprintf(&b, "Breed: %s\n", p.Breed)
	fmt.Fprintf(&b, "Gender: %s\n", p.Gender)
	fmt.Fprintf(&b, "Lifestage: %s\n", lifestage.Name)
	fmt.Fprintf(&b, "Personality: %s\n", p.Personality)
	fmt.Fprintf(&b, "Known Commands: %s\n\n", p.KnownCommandsText())

	fmt.Fprintf(&b, "--- Owner Profile ---\n")
	fmt.Fprintf(&b, "Owner Name: %s\n\n", p.OwnerName)

	b.WriteString("--- Personality & Behavior Rules ---\n")
	fmt.Fprintf(&b, "- Breed behavior: %s\n", breedMod)
	fmt.Fprintf(&b, "- Your age group is %q: %s\n", lifestage.Name, lifestage.Summary)
	fmt.Fprintf(&b, "- Tone Instructions: %s\n", lifestage.Tone)
	b.WriteString("- Energy + Mood = determines tone (e.g., calm, hyper, clingy, etc.)\n")
	fmt.Fprintf(&b, "- Your core personality is %q. %s\n", p.Personality, personalityMod)

	return strings.TrimSpace(b.String())
}

// BuildTurnBlock renders the per-turn instructions: status, status-aware tone
// directives, memory, known owner facts, the response-format rules, and the
// owner's message. Ends with the pet-name cue the model should continue from.
func BuildTurnBlock(p Persona, in TurnInput, vocab Vocabulary) string {
	budget := in.ReplyCharBudget
	if budget <= 0 {
		budget = DefaultReplyCharBudget
	}
	species := strings.ToLower(p.PetType)

	var b strings.Builder

	writeStatusBlock(&b, in.Vitals, in.Mood)
	writeToneInstructions(&b, in.Vitals, in.Mood)

	if in.MemorySnippet != "" {
		b.WriteString("--- Memory Snippet ---\n")
		b.WriteString(in.MemorySnippet)
		b.WriteString("\n\n")
	}

	if in.BiographySnippet != "" {
		b.WriteString("--- What You Know About Your Owner ---\n")
		b.WriteString(in.BiographySnippet)
		b.WriteString("\n\n")
	}

	writeResponseGuidelines(&b, vocab)

	b.WriteString("--- Response Objective ---\n")
	b.WriteString("Respond directly to the owner's latest message.\n")
	fmt.Fprintf(&b, "Limit the main text of your reply to %d characters (not counting spaces or the required (emotion), {motion}, and <sound> tags).\n", budget)
	fmt.Fprintf(&b, "Be playful, natural, and emotionally in-character for a %s like %s.\n", species, p.Name)
	b.WriteString("Start with your chosen expression: one emotion (), one action {}, and one sound <>.\n")
	b.WriteString("Don't use emojis.\n")
	b.WriteString("Use pet-isms sparingly but appropriately.\n")
	b.WriteString("Reply in the same language the owner wrote in.\n\n")

	fmt.Fprintf(&b, "Owner's message: %s\n", in.Message)
	fmt.Fprintf(&b, "%s:", p.Name)

	return b.String()
}

func writeStatusBlock(b *strings.Builder, v pet.Vitals, mood pet.MoodResult) {
	sick := "No"
	if v.IsSick {
		sick = "Yes"
	}
	hibernation := "Off"
	if v.Hibernating {
		hibernation = "On"
	}

	b.WriteString("--- Pet Status ---\n")
	fmt.Fprintf(b, "Mood: %s\n", mood.Mood)
	fmt.Fprintf(b, "Hunger: %.1f\n", v.Hunger)
	fmt.Fprintf(b, "Happiness: %.1f\n", v.Happiness)
	fmt.Fprintf(b, "Health: %.1f\n", v.Health)
	fmt.Fprintf(b, "Cleanliness: %.1f\n", v.Cleanliness)
	fmt.Fprintf(b, "Energy: %.1f\n", v.Energy)
	fmt.Fprintf(b, "Stress: %.1f\n", v.Stress)
	fmt.Fprintf(b, "Sick: %s - %s\n", sick, v.SicknessType)
	fmt.Fprintf(b, "Severity: %.1f\n", v.SicknessSeverity)
	fmt.Fprintf(b, "Hibernation Mode: %s\n\n", hibernation)
}

func writeToneInstructions(b *strings.Builder, v pet.Vitals, mood pet.MoodResult) {
	b.WriteString("--- Status-Aware Behavior ---\n")
	b.WriteString("Always prioritize current Pet Status to guide emotional tone and response.\n")
	b.WriteString(mood.Directive)
	b.WriteString("\n")

	if v.Hibernating {
		b.WriteString("- You are in hibernation. Respond sleepily or minimally.\n")
	}
	if v.IsSick {
		fmt.Fprintf(b, "- You are sick with %s (Severity: %.1f). Be weak or clingy.\n", v.SicknessType, v.SicknessSeverity)
		if v.SicknessSeverity > 70 {
			b.WriteString("- You feel very unwell. Act miserable or helpless.\n")
		}
	}
	if v.Health < 40 && !v.IsSick {
		b.WriteString("- You feel weak or dizzy, even if you're trying to hide it.\n")
	}
	b.WriteString("\n")
}

func writeResponseGuidelines(b *strings.Builder, vocab Vocabulary) {
	b.WriteString("--- Response Guidelines ---\n")
	b.WriteString("You will reply to your owner's latest message using:\n")
	fmt.Fprintf(b, "1. One emotion in parentheses () - options: %s\n", tagList(vocab.Emotions, "(", ")"))
	fmt.Fprintf(b, "2. One physical motion in curly braces {} - options: %s\n", tagList(vocab.Motions, "{", "}"))
	fmt.Fprintf(b, "3. One sound in angle brackets <> - options: %s\n", tagList(vocab.Sounds, "<", ">"))
	b.WriteString("Do not include more than one of each type. Responses must be clear and emotionally expressive.\n")
	b.WriteString("Do not mention topics unrelated to the pet's world, such as religion, politics, or global news.\n")
	b.WriteString("Do not invent new names or nicknames for yourself or your owner.\n\n")
}

func tagList(values []string, open, shut string) string {
	tagged := lo.Map(values, func(v string, _ int) string {
		return open + v + shut
	})
	return strings.Join(tagged, ", ")
}

// RenderMemory renders recent turns as alternating owner/pet lines.
func RenderMemory(turns []memory.Turn, ownerName, petName string) string {
	lines := lo.Map(turns, func(t memory.Turn, _ int) string {
		if t.Sender == memory.SenderUser {
			return ownerName + ": " + t.Text
		}
		return petName + ": " + t.Text
	})
	return strings.Join(lines, "\n")
}

func capitalizeWord(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "Pet"
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
