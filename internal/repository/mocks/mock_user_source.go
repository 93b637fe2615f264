package mocks

import (
	"context"

	"userapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockUserSource struct {
	mock.Mock
}

func (m *MockUserSource) LoadUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}
