package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"social-media-service/internal/events"
	"social-media-service/internal/metrics"

	"github.com/nats-io/nats.go"
)

// Producer publishes domain events to NATS on "<subject>.<event type>",
// e.g. "social.message.created".
type Producer struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewProducer(url string, subject string, logger *slog.Logger, m *metrics.Metrics) (*Producer, error) {
	nc, err := nats.Connect(url, nats.Name("social-media-service"))
	if err != nil {
		return nil, err
	}

	logger.Info("NATS producer initialized", "url", url, "subject", subject)

	return &Producer{
		conn:    nc,
		subject: subject,
		logger:  logger,
		metrics: m,
	}, nil
}

func (p *Producer) SubjectFor(t events.Type) string {
	return p.subject + "." + string(t)
}

func (p *Producer) Publish(ctx context.Context, event events.Event) error {
	subject := p.SubjectFor(event.Type)

	valueBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal event", "error", err)
		return err
	}

	start := time.Now()
	err = p.conn.Publish(subject, valueBytes)
	p.metrics.Messaging.RecordPublish(ctx, "nats", subject, time.Since(start), err)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event to NATS", "subject", subject, "error", err)
		return err
	}

	p.logger.DebugContext(ctx, "event published to NATS", "subject", subject, "key", event.Key)
	return nil
}

func (p *Producer) Close() error {
	return p.conn.Drain()
}
