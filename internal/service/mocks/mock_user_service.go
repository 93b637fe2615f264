package mocks

import (
	"userapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) FindByID(id int64) (model.User, bool) {
	args := m.Called(id)
	return args.Get(0).(model.User), args.Bool(1)
}

func (m *MockUserService) FindAll() []model.User {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]model.User)
}
