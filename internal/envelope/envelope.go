// Package envelope parses a raw model reply into its structured parts: one
// emotion tag, one motion tag, one sound tag, and the remaining free text.
// Parsing is lenient. Out-of-vocabulary or missing tags are recorded as
// anomalies, never returned as errors, so a sloppy model reply still yields
// a usable envelope.
package envelope

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/ReiTony/petllm/internal/prompt"
)

// Envelope is the structured form of one pet reply.
type Envelope struct {
	Emotion   string   `json:"emotion"`
	Motion    string   `json:"motion"`
	Sound     string   `json:"sound"`
	Text      string   `json:"text"`
	Anomalies []string `json:"anomalies,omitempty"`
}

var (
	emotionRe = regexp.MustCompile(`\(([^)]*)\)`)
	motionRe  = regexp.MustCompile(`\{([^}]*)\}`)
	soundRe   = regexp.MustCompile(`<([^>]*)>`)

	// Emoji and pictograph blocks. Dingbats and variation selectors included
	// since models sneak those in despite instructions.
	emojiRe = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2600}-\x{27BF}\x{FE00}-\x{FE0F}\x{2190}-\x{21FF}\x{2B00}-\x{2BFF}]`)

	newlineRe    = regexp.MustCompile(`\s*\n+\s*`)
	multiSpaceRe = regexp.MustCompile(`[ \t]{2,}`)
)

// Parse extracts the tag triple and free text from a raw reply. The pet name
// prefix ("Rex:") is stripped when present, emojis are removed, and newlines
// collapse to single spaces. The first tag of each kind is taken; extra tags
// of the same kind and unknown tag values are noted in Anomalies.
func Parse(petName, raw string, vocab prompt.Vocabulary) Envelope {
	var env Envelope

	s := strings.TrimSpace(raw)
	s = stripNamePrefix(s, petName)
	s = emojiRe.ReplaceAllString(s, "")
	s = newlineRe.ReplaceAllString(s, " ")

	env.Emotion, s = extractTag(&env, s, emotionRe, "emotion", vocab.Emotions)
	env.Motion, s = extractTag(&env, s, motionRe, "motion", vocab.Motions)
	env.Sound, s = extractTag(&env, s, soundRe, "sound", vocab.Sounds)

	s = multiSpaceRe.ReplaceAllString(s, " ")
	env.Text = strings.TrimSpace(s)
	if env.Text == "" {
		env.Anomalies = append(env.Anomalies, "empty text")
	}

	return env
}

// stripNamePrefix removes a leading "Name:" echo. Models often repeat the cue
// line the prompt ends with.
func stripNamePrefix(s, petName string) string {
	if petName == "" {
		return s
	}
	prefix := petName + ":"
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return strings.TrimSpace(s[len(prefix):])
	}
	return s
}

func extractTag(env *Envelope, s string, re *regexp.Regexp, kind string, allowed []string) (string, string) {
	matches := re.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		env.Anomalies = append(env.Anomalies, "missing "+kind+" tag")
		return "", s
	}
	if len(matches) > 1 {
		env.Anomalies = append(env.Anomalies, fmt.Sprintf("%d extra %s tags", len(matches)-1, kind))
	}

	// Only vocabulary values make it into the envelope. The first valid
	// match wins; an all-invalid set leaves the field empty.
	value := ""
	for _, m := range matches {
		candidate := strings.ToLower(strings.TrimSpace(m[1]))
		if lo.Contains(allowed, candidate) {
			value = candidate
			break
		}
	}
	if value == "" {
		first := strings.ToLower(strings.TrimSpace(matches[0][1]))
		env.Anomalies = append(env.Anomalies, fmt.Sprintf("unknown %s %q", kind, first))
	}

	// Remove every tag of this kind from the free text, known or not.
	return value, re.ReplaceAllString(s, "")
}

// Clean returns true when the reply carried exactly one valid tag of each
// kind and non-empty text.
func (e Envelope) Clean() bool {
	return len(e.Anomalies) == 0
}

// Render reassembles the canonical single-line form, used for storing the
// pet's turn in conversation memory.
func (e Envelope) Render() string {
	var parts []string
	if e.Emotion != "" {
		parts = append(parts, "("+e.Emotion+")")
	}
	if e.Motion != "" {
		parts = append(parts, "{"+e.Motion+"}")
	}
	if e.Sound != "" {
		parts = append(parts, "<"+e.Sound+">")
	}
	if e.Text != "" {
		parts = append(parts, e.Text)
	}
	return strings.Join(parts, " ")
}
