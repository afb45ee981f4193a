// Package profile stores long-lived owner profiles: identity seeded from the
// upstream owner fetch, plus the biography of durable facts the pet learns
// over time. The biography accumulates monotonically; merges are field-level
// upserts so concurrent writers commute for disjoint keys.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/ReiTony/petllm/datastore"
)

// Profile is one owner's document.
type Profile struct {
	UserID      string            `json:"user_id"`
	Email       string            `json:"email,omitempty"`
	FirstName   string            `json:"first_name,omitempty"`
	PetIDs      []string          `json:"pet_ids,omitempty"`
	Biography   map[string]any    `json:"biography"`
	Preferences map[string]string `json:"preferences,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Seed carries the owner fields known at first contact.
type Seed struct {
	Email     string
	FirstName string
}

// Store is the owner profile contract. Get returns (nil, nil) when no
// profile exists for the owner; callers must check before dereferencing.
type Store interface {
	GetOrCreate(ctx context.Context, ownerID string, seed Seed) (*Profile, error)
	Get(ctx context.Context, ownerID string) (*Profile, error)
	MergeFacts(ctx context.Context, ownerID string, facts map[string]any) error
}

// DatastoreStore persists profiles in a datastore.DataStore.
type DatastoreStore struct {
	ds *datastore.DataStore
}

var _ Store = (*DatastoreStore)(nil)

// NewDatastoreStore wraps ds as a profile store.
func NewDatastoreStore(ds *datastore.DataStore) *DatastoreStore {
	return &DatastoreStore{ds: ds}
}

// GetOrCreate returns the stored profile for ownerID, creating it from seed
// on first contact. A new profile starts with an empty biography and a
// default language preference.
func (s *DatastoreStore) GetOrCreate(ctx context.Context, ownerID string, seed Seed) (*Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result *Profile
	err := s.ds.Update(storageKey(ownerID), func(current any) (any, error) {
		if current != nil {
			existing, err := decodeProfile(current)
			if err != nil {
				return nil, err
			}
			result = existing
			return existing, nil
		}
		created := &Profile{
			UserID:      ownerID,
			Email:       seed.Email,
			FirstName:   seed.FirstName,
			Biography:   map[string]any{},
			Preferences: map[string]string{"default_language": "en"},
			CreatedAt:   time.Now().UTC(),
		}
		result = created
		return created, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Get returns the stored profile or nil when absent.
func (s *DatastoreStore) Get(ctx context.Context, ownerID string) (*Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	current, exists := s.ds.Get(storageKey(ownerID))
	if !exists {
		return nil, nil
	}
	return decodeProfile(current)
}

// MergeFacts upserts facts into the owner's biography, field by field. A
// "name" fact additionally refreshes the top-level display name. Existing
// keys may be overwritten by newer extractions; nothing is ever deleted.
func (s *DatastoreStore) MergeFacts(ctx context.Context, ownerID string, facts map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(facts) == 0 {
		return nil
	}

	return s.ds.Update(storageKey(ownerID), func(current any) (any, error) {
		prof := &Profile{UserID: ownerID, Biography: map[string]any{}}
		if current != nil {
			existing, err := decodeProfile(current)
			if err != nil {
				return nil, err
			}
			prof = existing
		}
		if prof.Biography == nil {
			prof.Biography = map[string]any{}
		}
		for key, value := range facts {
			prof.Biography[key] = value
		}
		if name, ok := facts["name"].(string); ok && name != "" {
			prof.FirstName = name
		}
		return prof, nil
	})
}

// RenderBiography flattens a biography into "- key: value" lines for the
// prompt composer, keys sorted for stable output.
func RenderBiography(p *Profile) string {
	if p == nil || len(p.Biography) == 0 {
		return ""
	}
	keys := lo.Keys(p.Biography)
	sort.Strings(keys)
	lines := lo.Map(keys, func(key string, _ int) string {
		return fmt.Sprintf("- %s: %v", key, p.Biography[key])
	})
	return strings.Join(lines, "\n")
}

func storageKey(ownerID string) string {
	return "owner:" + ownerID
}

func decodeProfile(current any) (*Profile, error) {
	if prof, ok := current.(*Profile); ok {
		return prof, nil
	}
	raw, err := json.Marshal(current)
	if err != nil {
		return nil, errors.Wrap(err, "marshal owner profile")
	}
	var prof Profile
	if err := json.Unmarshal(raw, &prof); err != nil {
		return nil, errors.Wrap(err, "unmarshal owner profile")
	}
	if prof.Biography == nil {
		prof.Biography = map[string]any{}
	}
	return &prof, nil
}
