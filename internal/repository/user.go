package repository

import (
	"context"

	"userapi/internal/model"
)

// UserSource loads the user seed. It is consulted once at startup; the
// returned records are frozen into the read-only store afterwards.
type UserSource interface {
	// LoadUsers returns all users in a stable order.
	LoadUsers(ctx context.Context) ([]model.User, error)
}
