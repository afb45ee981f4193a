// Package facts mines owner messages for durable personal facts and merges
// them into the owner profile. Extraction runs off the chat path; a failed
// or garbled extraction never mutates the profile and never surfaces to the
// owner.
package facts

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/ReiTony/petllm/internal/ai"
	"github.com/ReiTony/petllm/internal/profile"
	"github.com/ReiTony/petllm/pkg/jobmgr"
)

// maxFactsJSON bounds how much model output the recovery step will scan.
// Anything larger is garbage, not a fact payload.
const maxFactsJSON = 64 * 1024

const extractionSystemPrompt = "You extract personal facts from messages. You output only JSON."

const extractionPromptTpl = `Analyze the user's message to identify any personal facts about the user, such as their name, gender, location, preferences, likes, or dislikes.
Extract these facts into a valid JSON object. The keys should be snake_case.
- If the user says "My name is John", extract {"name": "John"}.
- If they say "I love listening to rock music", extract {"favorite_music": "rock"}.
- If they say "I live in California", extract {"location": "California"}.
- If no personal facts are mentioned, return an empty JSON object: {}.

User's message: "%MESSAGE%"

JSON output:`

// Extractor runs fact extraction against the model and persists results.
type Extractor struct {
	provider ai.Provider
	profiles profile.Store
	jobs     *jobmgr.Manager
	log      *log.Logger
}

func NewExtractor(provider ai.Provider, profiles profile.Store, jobs *jobmgr.Manager, logger *log.Logger) *Extractor {
	return &Extractor{
		provider: provider,
		profiles: profiles,
		jobs:     jobs,
		log:      logger,
	}
}

// Extract asks the model for facts in the owner's message and parses the
// reply. A reply with no recoverable JSON object yields an empty map, not
// an error; only transport failures error.
func (e *Extractor) Extract(ctx context.Context, message string) (map[string]any, error) {
	prompt := strings.ReplaceAll(extractionPromptTpl, "%MESSAGE%", message)

	res := ai.Invoke(ctx, e.provider, extractionSystemPrompt, prompt)
	if res.Error != nil {
		return nil, errors.Wrap(errors.New(res.Error.Message), "fact extraction call")
	}
	if !res.OK() {
		e.log.Warn("empty extraction reply")
		return map[string]any{}, nil
	}

	facts, ok := RecoverJSONObject(res.Data.Response)
	if !ok {
		e.log.Warn("no JSON object in extraction reply", "reply_preview", preview(res.Data.Response))
		return map[string]any{}, nil
	}
	return facts, nil
}

// ExtractAndSave extracts facts from the message and merges any findings
// into the owner's profile. An empty extraction is a no-op.
func (e *Extractor) ExtractAndSave(ctx context.Context, ownerID, message string) error {
	facts, err := e.Extract(ctx, message)
	if err != nil {
		return err
	}
	if len(facts) == 0 {
		e.log.Debug("no new facts", "owner_id", ownerID)
		return nil
	}

	e.log.Info("merging facts", "owner_id", ownerID, "count", len(facts))
	return e.profiles.MergeFacts(ctx, ownerID, facts)
}

// DispatchAsync runs ExtractAndSave as a background job. Several dispatches
// for the same owner may run concurrently; field-level merging keeps them
// commutative. Failures are reported through the job manager and logged,
// never returned to the chat path.
func (e *Extractor) DispatchAsync(ownerID, message string) {
	_, err := e.jobs.StartUnique("facts:"+ownerID, func(ctx context.Context) error {
		return e.ExtractAndSave(ctx, ownerID, message)
	})
	if err != nil {
		e.log.Error("fact extraction dispatch failed", "owner_id", ownerID, "err", err)
	}
}

// RecoverJSONObject isolates the outermost JSON object in a model reply by
// scanning from the first '{' to the last '}' and unmarshaling that slice.
// Returns ok=false when no well-formed object can be recovered.
func RecoverJSONObject(raw string) (map[string]any, bool) {
	s := strings.TrimSpace(raw)
	if len(s) > maxFactsJSON {
		return nil, false
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return nil, false
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(s[start:end+1]), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func preview(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}
