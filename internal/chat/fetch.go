package chat

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by fetchers when the upstream has no record for
// the requested id. The engine maps it onto the profile taxonomy; any other
// fetch error reads as upstream unavailability.
var ErrNotFound = errors.New("record not found")

// OwnerFetcher loads the owner document from the account service. The
// document is the loose upstream shape ("email", "first_name", ...).
type OwnerFetcher interface {
	FetchOwner(ctx context.Context, ownerID, authToken string) (map[string]any, error)
}

// PetFetcher loads the pet document ("pet_name", "breed", "life_stage_id",
// "knowledge_base", ...).
type PetFetcher interface {
	FetchPet(ctx context.Context, petID, authToken string) (map[string]any, error)
}

// StatusFetcher loads the current vitals snapshot as the upstream's
// string-keyed, string-valued payload ("hunger_level": "20.0").
type StatusFetcher interface {
	FetchStatus(ctx context.Context, ownerID, petID, authToken string) (map[string]string, error)
}

// OwnerFetcherFunc adapts a function to OwnerFetcher.
type OwnerFetcherFunc func(ctx context.Context, ownerID, authToken string) (map[string]any, error)

func (f OwnerFetcherFunc) FetchOwner(ctx context.Context, ownerID, authToken string) (map[string]any, error) {
	return f(ctx, ownerID, authToken)
}

// PetFetcherFunc adapts a function to PetFetcher.
type PetFetcherFunc func(ctx context.Context, petID, authToken string) (map[string]any, error)

func (f PetFetcherFunc) FetchPet(ctx context.Context, petID, authToken string) (map[string]any, error) {
	return f(ctx, petID, authToken)
}

// StatusFetcherFunc adapts a function to StatusFetcher.
type StatusFetcherFunc func(ctx context.Context, ownerID, petID, authToken string) (map[string]string, error)

func (f StatusFetcherFunc) FetchStatus(ctx context.Context, ownerID, petID, authToken string) (map[string]string, error) {
	return f(ctx, ownerID, petID, authToken)
}
