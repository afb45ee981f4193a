// Package chat orchestrates one pet conversation turn: upstream fetches,
// mood derivation, prompt composition, the single model call, envelope
// parsing, memory writes, and the background fact-extraction dispatch.
package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/ReiTony/petllm/internal/ai"
	"github.com/ReiTony/petllm/internal/envelope"
	"github.com/ReiTony/petllm/internal/facts"
	"github.com/ReiTony/petllm/internal/logging"
	"github.com/ReiTony/petllm/internal/memory"
	"github.com/ReiTony/petllm/internal/moderation"
	"github.com/ReiTony/petllm/internal/pet"
	"github.com/ReiTony/petllm/internal/profile"
	"github.com/ReiTony/petllm/internal/prompt"
	"github.com/ReiTony/petllm/internal/translate"
	"github.com/ReiTony/petllm/pkg/util"
)

// Error taxonomy returned to callers. Everything else degrades in place:
// memory read failures yield an empty context, fact extraction failures stay
// in the background, envelope anomalies ride along in the reply.
var (
	// ErrUpstreamUnavailable covers owner/pet/status fetch transport
	// failures and model transport failures.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrProfileIncomplete covers missing owner or pet records and requests
	// without a usable message.
	ErrProfileIncomplete = errors.New("profile incomplete")

	// ErrModelContract covers replies that arrived but violate the response
	// contract beyond repair.
	ErrModelContract = errors.New("model contract violation")
)

// Request is one owner message addressed to one pet.
type Request struct {
	OwnerID   string
	PetID     string
	Message   string
	AuthToken string
}

// Features carries the extracted expression tags in the upstream's
// list-valued shape.
type Features struct {
	Emotions []string `json:"emotions"`
	Motions  []string `json:"motions"`
	Sounds   []string `json:"sounds"`
}

// Reply is the engine's answer for one turn.
type Reply struct {
	Text      string   `json:"text"`
	Features  Features `json:"features"`
	Mood      pet.Mood `json:"mood"`
	Anomalies []string `json:"anomalies,omitempty"`
}

// Options tunes an Engine. Zero values fall back to defaults.
type Options struct {
	MemoryLimit     int // recent turns composed into the prompt, default 10
	ReplyCharBudget int // free-text budget stated in the prompt, default 80
	UseDetector     bool
}

// Engine wires the collaborators for the chat flow. Construct with NewEngine.
type Engine struct {
	owners    OwnerFetcher
	pets      PetFetcher
	statuses  StatusFetcher
	profiles  profile.Store
	mem       memory.Store
	provider  ai.Provider
	extractor *facts.Extractor
	detector  *facts.Detector
	trans     translate.Translator
	mod       moderation.Moderator
	vocab     prompt.Vocabulary
	opts      Options
	log       *log.Logger
}

// Deps groups the collaborators an Engine needs.
type Deps struct {
	Owners    OwnerFetcher
	Pets      PetFetcher
	Statuses  StatusFetcher
	Profiles  profile.Store
	Memory    memory.Store
	Provider  ai.Provider
	Extractor *facts.Extractor
	Detector  *facts.Detector          // optional, gated by Options.UseDetector
	Translate translate.Translator     // nil means passthrough
	Moderate  moderation.Moderator     // nil means inactive
}

func NewEngine(d Deps, opts Options, logger *log.Logger) *Engine {
	if opts.MemoryLimit <= 0 {
		opts.MemoryLimit = 10
	}
	if opts.ReplyCharBudget <= 0 {
		opts.ReplyCharBudget = prompt.DefaultReplyCharBudget
	}
	if d.Translate == nil {
		d.Translate = translate.Passthrough{}
	}
	if d.Moderate == nil {
		d.Moderate = moderation.None{}
	}
	return &Engine{
		owners:    d.Owners,
		pets:      d.Pets,
		statuses:  d.Statuses,
		profiles:  d.Profiles,
		mem:       d.Memory,
		provider:  d.Provider,
		extractor: d.Extractor,
		detector:  d.Detector,
		trans:     d.Translate,
		mod:       d.Moderate,
		vocab:     prompt.DefaultVocabulary(),
		opts:      opts,
		log:       logger,
	}
}

// Chat runs one full conversation turn. The model is called at most once;
// there is no retry inside the engine.
func (e *Engine) Chat(ctx context.Context, req Request) (*Reply, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, errors.Wrap(ErrProfileIncomplete, "empty message")
	}

	ownerDoc, petDoc, vitals, err := e.fetchUpstream(ctx, req)
	if err != nil {
		return nil, err
	}

	prof, err := e.profiles.GetOrCreate(ctx, req.OwnerID, profile.Seed{
		Email:     docString(ownerDoc, "email"),
		FirstName: docString(ownerDoc, "first_name"),
	})
	if err != nil {
		return nil, errors.Wrap(err, "owner profile")
	}

	ownerName := prof.FirstName
	if ownerName == "" {
		ownerName = "Owner"
	}
	persona := prompt.PersonaFromProfile(petDoc, ownerName)
	mood := pet.DeriveMood(vitals)

	verdict, err := e.mod.Check(ctx, message)
	if err != nil {
		e.log.Warn("moderation check failed, continuing", "err", err)
	}
	if verdict.Flagged {
		e.log.Info("message flagged", "owner_id", req.OwnerID, "reason", verdict.Reason)
		return e.refusalReply(mood), nil
	}

	if e.extractor != nil && e.shouldExtract(ctx, message) {
		e.extractor.DispatchAsync(req.OwnerID, message)
	}

	// Memory is best-effort on both sides: a store failure costs context,
	// never the turn itself.
	key := memory.Key{OwnerID: req.OwnerID, PetID: req.PetID}
	if err := e.mem.Append(ctx, key, memory.NewTurn(memory.SenderUser, message)); err != nil {
		e.log.Warn("append user turn failed, continuing", "err", err)
	}

	recent, err := e.mem.Recent(ctx, key, e.opts.MemoryLimit)
	if err != nil {
		e.log.Warn("memory read failed, composing without context", "err", err)
		recent = nil
	}

	modelMessage := translate.ToEnglishOrOriginal(ctx, e.trans, message)

	personaBlock := prompt.BuildPersonaBlock(persona)
	turnBlock := prompt.BuildTurnBlock(persona, prompt.TurnInput{
		Vitals:           vitals,
		Mood:             mood,
		BiographySnippet: profile.RenderBiography(prof),
		MemorySnippet:    prompt.RenderMemory(recent, ownerName, persona.Name),
		Message:          modelMessage,
		ReplyCharBudget:  e.opts.ReplyCharBudget,
	}, e.vocab)

	e.log.Debug("invoking model",
		"owner_id", req.OwnerID,
		"pet_id", req.PetID,
		"mood", mood.Mood,
		"prompt_preview", logging.Preview(turnBlock, 200))
	raw, err := e.provider.Generate(ctx, personaBlock, turnBlock)
	if err != nil {
		if errors.Is(err, ai.ErrGarbage) {
			return nil, errors.Wrap(ErrModelContract, err.Error())
		}
		return nil, errors.Wrap(ErrUpstreamUnavailable, err.Error())
	}

	env := envelope.Parse(persona.Name, raw, e.vocab)
	if env.Text == "" && env.Emotion == "" && env.Motion == "" && env.Sound == "" {
		return nil, errors.Wrap(ErrModelContract, "reply parsed to nothing")
	}
	if !env.Clean() {
		e.log.Warn("reply anomalies", "owner_id", req.OwnerID, "anomalies", env.Anomalies)
	}

	if err := e.mem.Append(ctx, key, memory.NewTurn(memory.SenderPet, env.Render())); err != nil {
		// The reply is already in hand. Deliver it and let the log carry
		// the storage failure.
		e.log.Error("append pet turn failed", "err", err)
	}

	lang := prof.Preferences["default_language"]
	text := env.Text
	if lang != "" && lang != "en" {
		text = translate.FromEnglishOrOriginal(ctx, e.trans, text, lang)
	}

	return &Reply{
		Text:      text,
		Features:  featuresFrom(env),
		Mood:      mood.Mood,
		Anomalies: env.Anomalies,
	}, nil
}

// History returns the last limit stored turns, oldest first.
func (e *Engine) History(ctx context.Context, ownerID, petID string, limit int) ([]memory.Turn, error) {
	if limit <= 0 {
		limit = e.opts.MemoryLimit
	}
	return e.mem.Recent(ctx, memory.Key{OwnerID: ownerID, PetID: petID}, limit)
}

// fetchUpstream loads owner, pet, and status concurrently. Owner and pet
// absence is fatal; a missing status snapshot degrades to default vitals.
func (e *Engine) fetchUpstream(ctx context.Context, req Request) (map[string]any, map[string]any, pet.Vitals, error) {
	var (
		ownerDoc map[string]any
		petDoc   map[string]any
		vitals   = pet.DefaultVitals()
	)

	fetches := []func(context.Context) error{
		func(ctx context.Context) error {
			doc, err := e.owners.FetchOwner(ctx, req.OwnerID, req.AuthToken)
			if err != nil {
				return errors.Wrap(err, "owner")
			}
			ownerDoc = doc
			return nil
		},
		func(ctx context.Context) error {
			doc, err := e.pets.FetchPet(ctx, req.PetID, req.AuthToken)
			if err != nil {
				return errors.Wrap(err, "pet")
			}
			petDoc = doc
			return nil
		},
		func(ctx context.Context) error {
			status, err := e.statuses.FetchStatus(ctx, req.OwnerID, req.PetID, req.AuthToken)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					e.log.Warn("no status snapshot, using defaults",
						"owner_id", req.OwnerID, "pet_id", req.PetID)
					return nil
				}
				return errors.Wrap(err, "status")
			}
			vitals = pet.VitalsFromStatus(status)
			return nil
		},
	}

	err := util.Parallel(ctx, fetches, len(fetches), func(ctx context.Context, fn func(context.Context) error) error {
		return fn(ctx)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, vitals, errors.Wrap(ErrProfileIncomplete, err.Error())
		}
		return nil, nil, vitals, errors.Wrap(ErrUpstreamUnavailable, err.Error())
	}
	if ownerDoc == nil || petDoc == nil {
		return nil, nil, vitals, errors.Wrap(ErrProfileIncomplete, "empty upstream document")
	}
	return ownerDoc, petDoc, vitals, nil
}

// shouldExtract gates the background extraction. Without a detector every
// message is submitted; the extractor's own prompt handles fact-free input.
func (e *Engine) shouldExtract(ctx context.Context, message string) bool {
	if !e.opts.UseDetector || e.detector == nil {
		return true
	}
	return e.detector.IsTeachable(ctx, message)
}

// refusalReply wraps the canned in-character refusal as a normal reply.
func (e *Engine) refusalReply(mood pet.MoodResult) *Reply {
	env := envelope.Parse("", moderation.RefusalText, e.vocab)
	return &Reply{
		Text:     env.Text,
		Features: featuresFrom(env),
		Mood:     mood.Mood,
	}
}

func featuresFrom(env envelope.Envelope) Features {
	f := Features{Emotions: []string{}, Motions: []string{}, Sounds: []string{}}
	if env.Emotion != "" {
		f.Emotions = append(f.Emotions, env.Emotion)
	}
	if env.Motion != "" {
		f.Motions = append(f.Motions, env.Motion)
	}
	if env.Sound != "" {
		f.Sounds = append(f.Sounds, env.Sound)
	}
	return f
}

func docString(doc map[string]any, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}
