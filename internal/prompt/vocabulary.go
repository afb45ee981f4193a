package prompt

// Vocabulary is the closed set of tagged expressions the model may use in a
// reply: one emotion in (), one motion in {}, one sound in <>. The envelope
// parser validates extractions against the same sets.
type Vocabulary struct {
	Emotions []string
	Motions  []string
	Sounds   []string
}

// DefaultVocabulary returns the pet expression sets.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Emotions: []string{
			"happy", "sad", "curious", "anxious", "excited",
			"sleepy", "loving", "surprised", "confused", "content",
		},
		Motions: []string{
			"bow head", "crouch down", "jump up", "lick", "lie down",
			"paw scratching", "perk ears", "raise paw", "roll over showing belly",
			"shake body", "sit", "sniff", "chase tail", "stretch", "tilt head",
			"wag tail",
		},
		Sounds: []string{
			"growl", "whimper", "bark", "pant", "yawn",
			"sniff", "yip", "meow", "purr",
		},
	}
}
