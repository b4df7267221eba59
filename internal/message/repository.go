package message

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
	GetAll(ctx context.Context) ([]Message, error)
	GetByID(ctx context.Context, id int) (*Message, error)
	Create(ctx context.Context, postedBy int, text string, timePostedEpoch int64) (*Message, error)
	Delete(ctx context.Context, id int) (*Message, error)
	UpdateText(ctx context.Context, id int, text string) (*Message, error)
	GetByAccount(ctx context.Context, accountID int) ([]Message, error)
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

func (r *repository) GetAll(ctx context.Context) ([]Message, error) {
	start := time.Now()
	messages := make([]Message, 0)
	err := r.db.NewSelect().
		Model(&messages).
		Order("message_id ASC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "message", time.Since(start), err)

	if err != nil {
		err = db.Classify(err)
		r.logger.ErrorContext(ctx, "failed to list messages", "error", err)
		return nil, err
	}
	return messages, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Message, error) {
	start := time.Now()
	message := new(Message)
	err := r.db.NewSelect().
		Model(message).
		Where("message_id = ?", id).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "message", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		err = db.Classify(err)
		r.logger.ErrorContext(ctx, "failed to get message", "message_id", id, "error", err)
		return nil, err
	}
	return message, nil
}

func (r *repository) Create(ctx context.Context, postedBy int, text string, timePostedEpoch int64) (*Message, error) {
	start := time.Now()
	message := &Message{
		PostedBy:        postedBy,
		MessageText:     text,
		TimePostedEpoch: timePostedEpoch,
	}
	_, err := r.db.NewInsert().Model(message).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "message", time.Since(start), err)

	if err != nil {
		err = db.Classify(err)
		r.logger.ErrorContext(ctx, "failed to insert message", "posted_by", postedBy, "error", err)
		return nil, err
	}
	if message.MessageID == 0 {
		r.logger.ErrorContext(ctx, "insert returned no message id", "posted_by", postedBy)
		return nil, errMissingKey
	}
	return message, nil
}

// Delete removes a message and returns the row as it was before deletion.
// A missing id is reported as ErrMessageNotFound without issuing a DELETE.
func (r *repository) Delete(ctx context.Context, id int) (*Message, error) {
	snapshot, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	_, err = r.db.NewDelete().
		Model(snapshot).
		WherePK().
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "delete", "message", time.Since(start), err)

	if err != nil {
		err = db.Classify(err)
		r.logger.ErrorContext(ctx, "failed to delete message", "message_id", id, "error", err)
		return nil, err
	}
	return snapshot, nil
}

// UpdateText sets the text of a message and re-reads it. The update is
// issued without checking that the row exists; a missing row surfaces as
// ErrMessageNotFound from the re-read.
func (r *repository) UpdateText(ctx context.Context, id int, text string) (*Message, error) {
	start := time.Now()
	_, err := r.db.NewUpdate().
		Model(&Message{MessageID: id, MessageText: text}).
		Column("message_text").
		WherePK().
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "message", time.Since(start), err)

	if err != nil {
		err = db.Classify(err)
		r.logger.ErrorContext(ctx, "failed to update message", "message_id", id, "error", err)
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *repository) GetByAccount(ctx context.Context, accountID int) ([]Message, error) {
	start := time.Now()
	messages := make([]Message, 0)
	err := r.db.NewSelect().
		Model(&messages).
		Where("posted_by = ?", accountID).
		Order("message_id ASC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "message", time.Since(start), err)

	if err != nil {
		err = db.Classify(err)
		r.logger.ErrorContext(ctx, "failed to list account messages", "account_id", accountID, "error", err)
		return nil, err
	}
	return messages, nil
}
