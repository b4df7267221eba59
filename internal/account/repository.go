package account

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"social-media-service/internal/db"
	"social-media-service/internal/metrics"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, username, password string) (*Account, error)
	FindByCredentials(ctx context.Context, username, password string) (*Account, error)
}

type repository struct {
	db      bun.IDB
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewRepository(db bun.IDB, m *metrics.Metrics, logger *slog.Logger) Repository {
	return &repository{
		db:      db,
		metrics: m,
		logger:  logger,
	}
}

func (r *repository) Create(ctx context.Context, username, password string) (*Account, error) {
	start := time.Now()
	account := &Account{
		Username: username,
		Password: password,
	}
	_, err := r.db.NewInsert().Model(account).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "account", time.Since(start), err)

	if err != nil {
		err = db.Classify(err)
		r.logger.ErrorContext(ctx, "failed to insert account", "username", username, "error", err)
		return nil, err
	}
	if account.AccountID == 0 {
		r.logger.ErrorContext(ctx, "insert returned no account id", "username", username)
		return nil, errMissingKey
	}
	return account, nil
}

// FindByCredentials matches username and password exactly.
func (r *repository) FindByCredentials(ctx context.Context, username, password string) (*Account, error) {
	start := time.Now()
	account := new(Account)
	err := r.db.NewSelect().
		Model(account).
		Where("username = ?", username).
		Where("password = ?", password).
		Limit(1).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "account", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		err = db.Classify(err)
		r.logger.ErrorContext(ctx, "failed to query account", "username", username, "error", err)
		return nil, err
	}
	return account, nil
}
