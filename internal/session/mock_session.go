package session

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of Store using testify/mock.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Put(ctx context.Context, st State) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}

func (m *MockStore) Get(ctx context.Context, id uuid.UUID) (State, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(State), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
