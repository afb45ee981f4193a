package translate

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type failing struct{}

func (failing) ToEnglish(_ context.Context, _ string) (string, error) {
	return "", errors.New("backend down")
}

func (failing) FromEnglish(_ context.Context, _, _ string) (string, error) {
	return "", errors.New("backend down")
}

type upper struct{}

func (upper) ToEnglish(_ context.Context, text string) (string, error) {
	return "EN:" + text, nil
}

func (upper) FromEnglish(_ context.Context, text, lang string) (string, error) {
	return lang + ":" + text, nil
}

func TestPassthrough(t *testing.T) {
	ctx := context.Background()
	out, err := Passthrough{}.ToEnglish(ctx, "hola")
	assert.NoError(t, err)
	assert.Equal(t, "hola", out)

	out, err = Passthrough{}.FromEnglish(ctx, "hello", "es")
	assert.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestFallbackToOriginalOnFailure(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "hola", ToEnglishOrOriginal(ctx, failing{}, "hola"))
	assert.Equal(t, "hello", FromEnglishOrOriginal(ctx, failing{}, "hello", "es"))
}

func TestTranslationApplied(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "EN:hola", ToEnglishOrOriginal(ctx, upper{}, "hola"))
	assert.Equal(t, "es:hello", FromEnglishOrOriginal(ctx, upper{}, "hello", "es"))
}

func TestNilTranslator(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "hola", ToEnglishOrOriginal(ctx, nil, "hola"))
	assert.Equal(t, "hello", FromEnglishOrOriginal(ctx, nil, "hello", "es"))
}
