package memory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/ReiTony/petllm/datastore"
)

// record is the stored shape of one conversation log.
type record struct {
	Turns         []Turn    `json:"messages"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}

// DatastoreStore persists conversation logs in a datastore.DataStore. Appends
// go through datastore.Update, so concurrent writers to the same key are
// serialized and no append is lost.
type DatastoreStore struct {
	ds *datastore.DataStore
}

var _ Store = (*DatastoreStore)(nil)

// NewDatastoreStore wraps ds as a conversation memory store.
func NewDatastoreStore(ds *datastore.DataStore) *DatastoreStore {
	return &DatastoreStore{ds: ds}
}

// Append adds a turn to the log for key, creating the log if needed, and
// refreshes the last-updated timestamp.
func (s *DatastoreStore) Append(ctx context.Context, key Key, turn Turn) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.ds.Update(storageKey(key), func(current any) (any, error) {
		rec, err := decodeRecord(current)
		if err != nil {
			return nil, err
		}
		rec.Turns = append(rec.Turns, turn)
		rec.LastUpdatedAt = time.Now().UTC()
		return rec, nil
	})
}

// Recent returns the most recent limit turns for key, oldest first. A missing
// log yields an empty slice, not an error.
func (s *DatastoreStore) Recent(ctx context.Context, key Key, limit int) ([]Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	current, exists := s.ds.Get(storageKey(key))
	if !exists {
		return nil, nil
	}
	rec, err := decodeRecord(current)
	if err != nil {
		return nil, err
	}

	turns := rec.Turns
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out, nil
}

func storageKey(key Key) string {
	return "chat:" + key.OwnerID + ":" + key.PetID
}

// decodeRecord converts the datastore's any-typed document into a record.
// After a reload from disk documents come back as map[string]any, so decoding
// goes through JSON.
func decodeRecord(current any) (*record, error) {
	if current == nil {
		return &record{}, nil
	}
	if rec, ok := current.(*record); ok {
		return rec, nil
	}
	raw, err := json.Marshal(current)
	if err != nil {
		return nil, errors.Wrap(err, "marshal conversation record")
	}
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, errors.Wrap(err, "unmarshal conversation record")
	}
	return &rec, nil
}
