package prompt

import (
	"strings"

	"github.com/ReiTony/petllm/internal/pet"
)

// Persona is the stable identity of a pet for one conversation.
type Persona struct {
	PetType       string // species, e.g. "dog"
	Name          string
	Breed         string
	Gender        string
	Personality   string
	Lifestage     string
	KnownCommands []string
	OwnerName     string
}

// PersonaFromProfile decodes the upstream pet profile document. The payload
// uses loose field names ("pet_type" or "species", "pet_name" or "name"),
// encodes gender as "1"/"0", and carries the lifestage as a numeric id.
// An owner_name learned into the pet's knowledge base overrides the supplied
// owner name.
func PersonaFromProfile(petDoc map[string]any, ownerName string) Persona {
	p := Persona{
		PetType:     firstString(petDoc, "pet_type", "species"),
		Name:        firstString(petDoc, "pet_name", "name"),
		Breed:       stringField(petDoc, "breed"),
		Personality: stringField(petDoc, "personality"),
		OwnerName:   ownerName,
	}

	if p.PetType == "" {
		p.PetType = "pet"
	}
	if p.Name == "" {
		p.Name = "Buddy"
	}
	if p.Breed == "" {
		p.Breed = "Unknown Breed"
	}
	if p.Personality == "" {
		p.Personality = "Gentle"
	}

	if stringField(petDoc, "gender") == "1" {
		p.Gender = "Female"
	} else {
		p.Gender = "Male"
	}

	p.Lifestage = pet.LifestageFromID(stringField(petDoc, "life_stage_id"))

	if cmds, ok := petDoc["known_commands"].([]any); ok {
		for _, c := range cmds {
			if s, ok := c.(string); ok {
				p.KnownCommands = append(p.KnownCommands, s)
			}
		}
	}

	if kb, ok := petDoc["knowledge_base"].(map[string]any); ok {
		if name, ok := kb["owner_name"].(string); ok && name != "" {
			p.OwnerName = name
		}
	}

	return p
}

// KnownCommandsText renders the command list for the profile section.
func (p Persona) KnownCommandsText() string {
	if len(p.KnownCommands) == 0 {
		return "None yet"
	}
	return strings.Join(p.KnownCommands, ", ")
}

func stringField(doc map[string]any, key string) string {
	if v, ok := doc[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func firstString(doc map[string]any, keys ...string) string {
	for _, key := range keys {
		if v := stringField(doc, key); v != "" {
			return v
		}
	}
	return ""
}
