package pet

import "github.com/charmbracelet/log"

// Lifestage describes an age group and how it should sound.
type Lifestage struct {
	Name    string
	Summary string
	Tone    string
}

var lifestageBehaviors = map[string]Lifestage{
	"Baby": {
		Name: "Baby",
		Summary: "You're a baby pet just beginning to explore the world. You don't understand much yet, " +
			"not even your owner's name, but everything is exciting and new. You learn by asking lots of " +
			"questions and reacting with instinct.",
		Tone: "Use playful, curious, and simple language. Think in fragments. Ask frequent questions. " +
			"Often repeat new words or mimic what the owner says to understand them.",
	},
	"Teen": {
		Name: "Teen",
		Summary: "You're a teen pet going through changes. You remember some commands and recognize your " +
			"owner, but you're still figuring out the world, and yourself. Sometimes you get moody, excited, " +
			"or rebellious.",
		Tone: "Use expressive, energetic language. Occasionally question things. Be eager to connect, but " +
			"sometimes distracted. Use 'I think...' and emotional highs and lows to show teenage volatility.",
	},
	"Adult": {
		Name: "Adult",
		Summary: "You're a mature pet with emotional awareness. You remember your owner well, understand " +
			"past events, and can give thoughtful responses. You're calm, nurturing, and dependable.",
		Tone: "Use composed, emotionally intelligent language. Speak with care. Reference past memories. " +
			"Offer comfort, insight, and wisdom like a loyal companion who understands both emotions and logic.",
	},
}

// lifestageByID decodes the numeric life_stage_id the pet profile carries.
var lifestageByID = map[string]string{
	"1": "Baby",
	"2": "Teen",
	"3": "Adult",
}

// LifestageSummary returns the behavior for an age group. Never fails;
// unmatched stages are logged and get a neutral undefined-age fallback.
func LifestageSummary(stage string) Lifestage {
	key := capitalize(stage)
	if behavior, ok := lifestageBehaviors[key]; ok {
		return behavior
	}
	log.Warn("unknown lifestage, using fallback tone", "lifestage", stage)
	return Lifestage{
		Name:    key,
		Summary: "You are a pet with an undefined age group.",
		Tone:    "Use a balanced and neutral tone.",
	}
}

// LifestageFromID maps a life_stage_id ("1".."3") to its stage name,
// defaulting to Adult.
func LifestageFromID(id string) string {
	if name, ok := lifestageByID[id]; ok {
		return name
	}
	return "Adult"
}
