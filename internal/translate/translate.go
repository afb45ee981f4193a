// Package translate defines the translation collaborator used around the
// model call: owner messages may be translated to English before prompt
// composition and replies translated back afterwards. The engine ships with
// a passthrough implementation; a real backend satisfies Translator.
package translate

import "context"

// Translator converts text between languages. lang is a BCP 47-ish code
// ("en", "es"); implementations may ignore it when they detect language
// themselves.
type Translator interface {
	ToEnglish(ctx context.Context, text string) (string, error)
	FromEnglish(ctx context.Context, text, lang string) (string, error)
}

// Passthrough returns text unchanged. The default when no translation
// backend is configured; the same-language instruction in the prompt does
// the work instead.
type Passthrough struct{}

var _ Translator = Passthrough{}

func (Passthrough) ToEnglish(_ context.Context, text string) (string, error) {
	return text, nil
}

func (Passthrough) FromEnglish(_ context.Context, text, _ string) (string, error) {
	return text, nil
}

// ToEnglishOrOriginal translates and falls back to the original text when
// the translator fails. Translation is best-effort by contract.
func ToEnglishOrOriginal(ctx context.Context, tr Translator, text string) string {
	if tr == nil {
		return text
	}
	out, err := tr.ToEnglish(ctx, text)
	if err != nil || out == "" {
		return text
	}
	return out
}

// FromEnglishOrOriginal is the reply-side counterpart of
// ToEnglishOrOriginal.
func FromEnglishOrOriginal(ctx context.Context, tr Translator, text, lang string) string {
	if tr == nil {
		return text
	}
	out, err := tr.FromEnglish(ctx, text, lang)
	if err != nil || out == "" {
		return text
	}
	return out
}
