package message_test

import (
	"context"

	"social-media-service/internal/events"
	"social-media-service/internal/message"

	"github.com/stretchr/testify/mock"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) GetAll(ctx context.Context) ([]message.Message, error) {
	args := m.Called(ctx)
	messages, _ := args.Get(0).([]message.Message)
	return messages, args.Error(1)
}

func (m *mockRepository) GetByID(ctx context.Context, id int) (*message.Message, error) {
	args := m.Called(ctx, id)
	msg, _ := args.Get(0).(*message.Message)
	return msg, args.Error(1)
}

func (m *mockRepository) Create(ctx context.Context, postedBy int, text string, timePostedEpoch int64) (*message.Message, error) {
	args := m.Called(ctx, postedBy, text, timePostedEpoch)
	msg, _ := args.Get(0).(*message.Message)
	return msg, args.Error(1)
}

func (m *mockRepository) Delete(ctx context.Context, id int) (*message.Message, error) {
	args := m.Called(ctx, id)
	msg, _ := args.Get(0).(*message.Message)
	return msg, args.Error(1)
}

func (m *mockRepository) UpdateText(ctx context.Context, id int, text string) (*message.Message, error) {
	args := m.Called(ctx, id, text)
	msg, _ := args.Get(0).(*message.Message)
	return msg, args.Error(1)
}

func (m *mockRepository) GetByAccount(ctx context.Context, accountID int) ([]message.Message, error) {
	args := m.Called(ctx, accountID)
	messages, _ := args.Get(0).([]message.Message)
	return messages, args.Error(1)
}

type mockService struct {
	mock.Mock
}

func (m *mockService) GetAllMessages(ctx context.Context) ([]message.Message, error) {
	args := m.Called(ctx)
	messages, _ := args.Get(0).([]message.Message)
	return messages, args.Error(1)
}

func (m *mockService) GetMessageByID(ctx context.Context, id int) (*message.Message, error) {
	args := m.Called(ctx, id)
	msg, _ := args.Get(0).(*message.Message)
	return msg, args.Error(1)
}

func (m *mockService) CreateMessage(ctx context.Context, msg *message.Message) (*message.Message, error) {
	args := m.Called(ctx, msg)
	created, _ := args.Get(0).(*message.Message)
	return created, args.Error(1)
}

func (m *mockService) DeleteMessage(ctx context.Context, id int) (*message.Message, error) {
	args := m.Called(ctx, id)
	msg, _ := args.Get(0).(*message.Message)
	return msg, args.Error(1)
}

func (m *mockService) PatchMessageText(ctx context.Context, id int, text string) (*message.Message, error) {
	args := m.Called(ctx, id, text)
	msg, _ := args.Get(0).(*message.Message)
	return msg, args.Error(1)
}

func (m *mockService) GetMessagesByAccount(ctx context.Context, accountID int) ([]message.Message, error) {
	args := m.Called(ctx, accountID)
	messages, _ := args.Get(0).([]message.Message)
	return messages, args.Error(1)
}

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }
