package message

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"social-media-service/internal/db"
	"social-media-service/internal/events"
	"social-media-service/internal/metrics"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrInvalidInput    = errors.New("invalid input")

	errMissingKey = fmt.Errorf("%w: no generated message id", db.ErrStore)
)

type Service interface {
	GetAllMessages(ctx context.Context) ([]Message, error)
	GetMessageByID(ctx context.Context, id int) (*Message, error)
	CreateMessage(ctx context.Context, message *Message) (*Message, error)
	DeleteMessage(ctx context.Context, id int) (*Message, error)
	PatchMessageText(ctx context.Context, id int, text string) (*Message, error)
	GetMessagesByAccount(ctx context.Context, accountID int) ([]Message, error)
}

type service struct {
	repo      Repository
	validate  *validator.Validate
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewService(repo Repository, publisher events.Publisher, m *metrics.Metrics, logger *slog.Logger) Service {
	if publisher == nil {
		publisher = events.NewNoop()
	}
	return &service{
		repo:      repo,
		validate:  validator.New(),
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

func (s *service) GetAllMessages(ctx context.Context) ([]Message, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetMessageByID(ctx context.Context, id int) (*Message, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateMessage stores a message with non-empty text. posted_by is not
// checked against existing accounts.
func (s *service) CreateMessage(ctx context.Context, message *Message) (*Message, error) {
	if message == nil {
		return nil, ErrInvalidInput
	}
	if err := s.validate.Struct(message); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.repo.Create(ctx, message.PostedBy, message.MessageText, message.TimePostedEpoch)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordMessagePosted(ctx)
	s.publish(ctx, events.New(events.MessageCreated, created.MessageID, created))
	return created, nil
}

func (s *service) DeleteMessage(ctx context.Context, id int) (*Message, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordMessageDeleted(ctx)
	s.publish(ctx, events.New(events.MessageDeleted, deleted.MessageID, deleted))
	return deleted, nil
}

// PatchMessageText replaces the text of an existing message. Empty text is
// rejected before the store is touched; a missing message is rejected before
// any update is issued.
func (s *service) PatchMessageText(ctx context.Context, id int, text string) (*Message, error) {
	if err := s.validate.Var(text, "required"); err != nil {
		return nil, fmt.Errorf("%w: message_text is required", ErrInvalidInput)
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateText(ctx, id, text)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordMessageUpdated(ctx)
	s.publish(ctx, events.New(events.MessageUpdated, updated.MessageID, updated))
	return updated, nil
}

func (s *service) GetMessagesByAccount(ctx context.Context, accountID int) ([]Message, error) {
	return s.repo.GetByAccount(ctx, accountID)
}

func (s *service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event", "type", event.Type, "key", event.Key, "error", err)
	}
}
