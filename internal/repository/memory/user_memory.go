package memory

import (
	"context"

	"userapi/internal/model"
	"userapi/internal/repository"
)

// UserSeed is the builtin user source: five fixed records with ids 1 to 5.
type UserSeed struct{}

// NewUserSeed creates the builtin user source.
func NewUserSeed() *UserSeed {
	return &UserSeed{}
}

var _ repository.UserSource = (*UserSeed)(nil)

// Users returns a fresh copy of the builtin records.
func Users() []model.User {
	return []model.User{
		{ID: 1, FirstName: "Darwin", LastName: "Ruiz"},
		{ID: 2, FirstName: "John", LastName: "Doe"},
		{ID: 3, FirstName: "Jane", LastName: "Smith"},
		{ID: 4, FirstName: "Alice", LastName: "Johnson"},
		{ID: 5, FirstName: "Bob", LastName: "Brown"},
	}
}

// LoadUsers returns the builtin records. It never fails.
func (s *UserSeed) LoadUsers(ctx context.Context) ([]model.User, error) {
	return Users(), nil
}
