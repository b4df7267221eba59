package account_test

import (
	"context"

	"social-media-service/internal/account"
	"social-media-service/internal/events"

	"github.com/stretchr/testify/mock"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, username, password string) (*account.Account, error) {
	args := m.Called(ctx, username, password)
	acc, _ := args.Get(0).(*account.Account)
	return acc, args.Error(1)
}

func (m *mockRepository) FindByCredentials(ctx context.Context, username, password string) (*account.Account, error) {
	args := m.Called(ctx, username, password)
	acc, _ := args.Get(0).(*account.Account)
	return acc, args.Error(1)
}

type mockService struct {
	mock.Mock
}

func (m *mockService) Register(ctx context.Context, acc *account.Account) (*account.Account, error) {
	args := m.Called(ctx, acc)
	created, _ := args.Get(0).(*account.Account)
	return created, args.Error(1)
}

func (m *mockService) Authenticate(ctx context.Context, acc *account.Account) (*account.Account, error) {
	args := m.Called(ctx, acc)
	found, _ := args.Get(0).(*account.Account)
	return found, args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockPublisher) Close() error {
	return m.Called().Error(0)
}
