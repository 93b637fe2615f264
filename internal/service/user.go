package service

import (
	"userapi/internal/model"
	"userapi/internal/store"
)

// UserService defines the read-only lookups over the user store.
type UserService interface {
	// FindByID returns the user with the given id. The boolean is false when
	// no user matches; any integer is accepted.
	FindByID(id int64) (model.User, bool)

	// FindAll returns every user in store order.
	FindAll() []model.User
}

// userService is a concrete implementation of UserService.
type userService struct {
	users *store.Users
}

// NewUserService constructs a UserService over an already loaded store.
func NewUserService(users *store.Users) UserService {
	return &userService{users: users}
}

// FindByID scans the store linearly; the list is small and fixed.
func (s *userService) FindByID(id int64) (model.User, bool) {
	for i := 0; i < s.users.Len(); i++ {
		if u := s.users.At(i); u.ID == id {
			return u, true
		}
	}
	return model.User{}, false
}

func (s *userService) FindAll() []model.User {
	return s.users.All()
}
