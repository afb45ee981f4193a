package pet

// Mood is the single dominant emotional/physiological state for one turn.
type Mood string

const (
	MoodSick      Mood = "sick"
	MoodMiserable Mood = "miserable"
	MoodHungry    Mood = "hungry"
	MoodTired     Mood = "tired"
	MoodStressed  Mood = "stressed"
	MoodDirty     Mood = "dirty"
	MoodHappy     Mood = "happy"
	MoodNeutral   Mood = "neutral"
)

// MoodResult couples the derived mood with the prompt directive and the
// behavior tag that downstream logic may key on.
type MoodResult struct {
	Mood        Mood
	Directive   string
	BehaviorTag string
}

// moodDirectives injects behavioral tone into the prompt, one fixed string
// per mood. Exhaustive over the Mood set.
var moodDirectives = map[Mood]string{
	MoodSick:      "The pet is low on energy, in pain, and clingy toward its owner.",
	MoodMiserable: "The pet is withdrawn and deeply unhappy, seeking reassurance.",
	MoodHungry:    "The pet is whining and looking for food.",
	MoodTired:     "The pet is yawning and sluggish.",
	MoodStressed:  "The pet is visibly anxious and needs comfort.",
	MoodDirty:     "The pet feels grimy and irritated.",
	MoodHappy:     "The pet is cheerful, energetic, and affectionate!",
	MoodNeutral:   "The pet is calm and passive right now.",
}

var behaviorTags = map[Mood]string{
	MoodSick:      "needs_rest",
	MoodMiserable: "needs_comfort",
	MoodHungry:    "avoid_physical_activities",
	MoodTired:     "sleep_preferred",
	MoodStressed:  "needs_care",
	MoodDirty:     "refuses_cuddles",
	MoodHappy:     "play_ready",
	MoodNeutral:   "passive",
}

// DeriveMood determines the dominant mood from vitals. Total and
// deterministic for any numeric input.
func DeriveMood(v Vitals) MoodResult {
	mood := primaryMood(v)
	return MoodResult{
		Mood:        mood,
		Directive:   moodDirectives[mood],
		BehaviorTag: behaviorTags[mood],
	}
}

// primaryMood applies the threshold checks in priority order; the first match
// wins. Critical physiological states must dominate positive-state detection,
// so sickness and misery are checked before anything else. Regression tests
// pin this ordering.
func primaryMood(v Vitals) Mood {
	switch {
	case v.IsSick || v.Health < 40:
		return MoodSick
	case v.Happiness < 25:
		return MoodMiserable
	case v.Hunger < 30:
		return MoodHungry
	case v.Energy < 30:
		return MoodTired
	case v.Stress > 60:
		return MoodStressed
	case v.Cleanliness < 40:
		return MoodDirty
	case v.Happiness > 80 && v.Energy > 60 && v.Stress < 40 && v.Cleanliness > 60:
		return MoodHappy
	default:
		return MoodNeutral
	}
}
