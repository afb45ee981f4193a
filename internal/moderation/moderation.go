// Package moderation is the hook point for screening owner messages before
// they reach the model. The shipped default never flags anything; when a
// backend does flag a message the engine answers with a short in-character
// refusal instead of calling the model.
package moderation

import "context"

// Verdict is the outcome of screening one message.
type Verdict struct {
	Flagged bool
	Reason  string
}

// Moderator screens owner messages. Errors are treated as not-flagged by the
// engine; moderation must never take the chat path down.
type Moderator interface {
	Check(ctx context.Context, message string) (Verdict, error)
}

// None is the inactive default.
type None struct{}

var _ Moderator = None{}

func (None) Check(_ context.Context, _ string) (Verdict, error) {
	return Verdict{}, nil
}

// RefusalText is the in-character reply used when a message is flagged.
// Tagged like a normal envelope so the client renders it the same way.
const RefusalText = "(confused) {tilt head} <whimper> Let's talk about something else, okay?"
