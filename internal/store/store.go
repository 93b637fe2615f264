package store

import (
	"context"
	"errors"
	"fmt"

	"userapi/internal/model"
	"userapi/internal/repository"
)

var (
	// ErrInvalidID indicates a seed record with a non-positive id.
	ErrInvalidID = errors.New("user id must be positive")

	// ErrDuplicateID indicates two seed records sharing an id.
	ErrDuplicateID = errors.New("duplicate user id")
)

// Users is the ordered, read-only user list shared by all requests.
// It is built once at startup and never mutated afterwards.
type Users struct {
	items []model.User
}

// New copies items into a read-only list after validating ids.
func New(items []model.User) (*Users, error) {
	seen := make(map[int64]struct{}, len(items))
	out := make([]model.User, len(items))

	for i, u := range items {
		if u.ID <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidID, u.ID)
		}
		if _, dup := seen[u.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, u.ID)
		}
		seen[u.ID] = struct{}{}

		if u.Role != nil {
			role := *u.Role
			u.Role = &role
		}
		out[i] = u
	}
	return &Users{items: out}, nil
}

// Load reads the seed from src and freezes it.
func Load(ctx context.Context, src repository.UserSource) (*Users, error) {
	items, err := src.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return New(items)
}

// Len returns the number of users.
func (s *Users) Len() int { return len(s.items) }

// At returns the i-th user in store order.
func (s *Users) At(i int) model.User { return s.items[i] }

// All returns a copy of the list in store order.
func (s *Users) All() []model.User {
	out := make([]model.User, len(s.items))
	copy(out, s.items)
	return out
}
