package ratelim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type httpErr struct{ code int }

func (e *httpErr) Error() string   { return fmt.Sprintf("http %d", e.code) }
func (e *httpErr) StatusCode() int { return e.code }

func TestObserveAdjustsLimit(t *testing.T) {
	lim := NewAdaptiveLimiter(4, 1, 10, 1, 0.5)

	lim.Observe(&httpErr{code: 429})
	assert.Equal(t, 2.0, lim.CurrentLimit())

	lim.Observe(&httpErr{code: 503})
	assert.Equal(t, 1.0, lim.CurrentLimit())

	// Below min clamps.
	lim.Observe(&httpErr{code: 500})
	assert.Equal(t, 1.0, lim.CurrentLimit())

	// Non-overload errors are neutral.
	lim.Observe(fmt.Errorf("bad payload"))
	assert.Equal(t, 1.0, lim.CurrentLimit())
}

func TestSuccessIsSuppressedRightAfterError(t *testing.T) {
	lim := NewAdaptiveLimiter(4, 1, 10, 1, 0.5)
	lim.RateLimited()
	before := lim.CurrentLimit()

	// Success within the cooldown window must not bump the rate back up.
	lim.Success()
	assert.Equal(t, before, lim.CurrentLimit())
}

func TestDefaultClassifier(t *testing.T) {
	assert.True(t, DefaultClassifier(&httpErr{code: 429}))
	assert.True(t, DefaultClassifier(&httpErr{code: 502}))
	assert.False(t, DefaultClassifier(&httpErr{code: 404}))
	assert.False(t, DefaultClassifier(fmt.Errorf("plain")))
	assert.False(t, DefaultClassifier(nil))
}
