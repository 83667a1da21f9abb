package identity

import (
	"context"
	"errors"
)

// ErrOwnerNotFound signals a pantry without an owning member. This is a
// data-integrity fault elsewhere in the system; callers must log it and skip
// the mutation rather than guess an owner.
var ErrOwnerNotFound = errors.New("pantry owner not found")

// Resolver is the identity/access collaborator. The core never authenticates
// or authorizes; it only resolves who owns a pantry so that one shared
// shopping list exists per pantry.
type Resolver interface {
	OwnerOf(ctx context.Context, pantryID string) (string, error)
	MembersOf(ctx context.Context, pantryID string) ([]string, error)
}
