package account

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
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid username or password")

	errMissingKey = fmt.Errorf("%w: no generated account id", db.ErrStore)
)

type Service interface {
	Register(ctx context.Context, account *Account) (*Account, error)
	Authenticate(ctx context.Context, account *Account) (*Account, error)
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

// Register creates an account with a non-empty username and a password of
// at least four characters. Username uniqueness is left to the store.
func (s *service) Register(ctx context.Context, account *Account) (*Account, error) {
	if account == nil {
		return nil, ErrInvalidInput
	}
	if err := s.validate.Struct(account); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.repo.Create(ctx, account.Username, account.Password)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAccountRegistered(ctx)
	s.publish(ctx, events.New(events.AccountRegistered, created.AccountID, RegisteredEvent{
		AccountID: created.AccountID,
		Username:  created.Username,
	}))

	return created, nil
}

func (s *service) Authenticate(ctx context.Context, account *Account) (*Account, error) {
	if account == nil {
		return nil, ErrInvalidCredentials
	}

	found, err := s.repo.FindByCredentials(ctx, account.Username, account.Password)
	if err != nil {
		s.metrics.RecordLogin(ctx, false)
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	s.metrics.RecordLogin(ctx, true)
	return found, nil
}

func (s *service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event", "type", event.Type, "key", event.Key, "error", err)
	}
}
