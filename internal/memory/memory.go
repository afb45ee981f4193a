// Package memory keeps the per-(owner, pet) conversation log: an ordered,
// append-only sequence of turns. Only a bounded recent slice is ever surfaced
// to the prompt composer; the full history stays stored.
package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Sender identifies who produced a turn.
const (
	SenderUser = "user"
	SenderPet  = "pet"
)

// Turn is one message in a conversation. Immutable once written.
type Turn struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"` // "user" | "pet"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTurn builds a turn with a fresh ID and the current time.
func NewTurn(sender, text string) Turn {
	return Turn{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
}

// Key addresses one conversation log.
type Key struct {
	OwnerID string
	PetID   string
}

// Store is the conversation memory contract. Append is an upsert: the log is
// created on first contact with a key. Recent returns at most limit turns,
// oldest first within the returned slice. Neither deletes nor reorders.
type Store interface {
	Append(ctx context.Context, key Key, turn Turn) error
	Recent(ctx context.Context, key Key, limit int) ([]Turn, error)
}
