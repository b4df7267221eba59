package metrics

import (
	"context"
	"database/sql"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics groups the service's OpenTelemetry instruments. Instruments are
// created from the global meter provider, so they are no-ops until
// telemetry.InitMeterProvider installs an exporting provider.
type Metrics struct {
	Database  *DatabaseMetrics
	Messaging *MessagingMetrics
	Health    *HealthMetrics

	meter              metric.Meter
	accountsRegistered metric.Int64Counter
	loginAttempts      metric.Int64Counter
	messagesPosted     metric.Int64Counter
	messagesUpdated    metric.Int64Counter
	messagesDeleted    metric.Int64Counter
}

func New(serviceName string, logger *slog.Logger) (*Metrics, error) {
	meter := otel.Meter(serviceName)

	database, err := NewDatabaseMetrics(meter)
	if err != nil {
		return nil, err
	}

	messaging, err := NewMessagingMetrics(meter)
	if err != nil {
		return nil, err
	}

	health, err := NewHealthMetrics(meter)
	if err != nil {
		return nil, err
	}

	m := &Metrics{
		Database:  database,
		Messaging: messaging,
		Health:    health,
		meter:     meter,
	}

	m.accountsRegistered, err = meter.Int64Counter(
		"social.accounts.registered",
		metric.WithDescription("Total number of accounts registered"),
		metric.WithUnit("{account}"),
	)
	if err != nil {
		return nil, err
	}

	m.loginAttempts, err = meter.Int64Counter(
		"social.logins",
		metric.WithDescription("Login attempts by outcome"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	m.messagesPosted, err = meter.Int64Counter(
		"social.messages.posted",
		metric.WithDescription("Total number of messages posted"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, err
	}

	m.messagesUpdated, err = meter.Int64Counter(
		"social.messages.updated",
		metric.WithDescription("Total number of message texts patched"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, err
	}

	m.messagesDeleted, err = meter.Int64Counter(
		"social.messages.deleted",
		metric.WithDescription("Total number of messages deleted"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, err
	}

	logger.Info("metrics collectors initialized successfully")

	return m, nil
}

// NewMock creates a no-op Metrics instance for testing
// The returned Metrics will safely ignore all Record* calls
func NewMock() *Metrics {
	return &Metrics{
		Database:  &DatabaseMetrics{},
		Messaging: &MessagingMetrics{},
		Health:    &HealthMetrics{},
	}
}

// RegisterServiceInfo publishes service metadata and the availability of
// the named dependencies.
func (m *Metrics) RegisterServiceInfo(serviceName, version, env string, dependencies ...string) error {
	if m == nil || m.meter == nil {
		return nil
	}
	return m.Health.register(m.meter, serviceName, version, env, dependencies)
}

// RegisterDB reports pool statistics of db through the service meter.
func (m *Metrics) RegisterDB(db *sql.DB) error {
	if m == nil || m.meter == nil {
		return nil
	}
	return m.Database.RegisterDB(db, m.meter)
}

func (m *Metrics) RecordAccountRegistered(ctx context.Context) {
	if m == nil || m.accountsRegistered == nil {
		return
	}
	m.accountsRegistered.Add(ctx, 1)
}

func (m *Metrics) RecordLogin(ctx context.Context, success bool) {
	if m == nil || m.loginAttempts == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.loginAttempts.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *Metrics) RecordMessagePosted(ctx context.Context) {
	if m == nil || m.messagesPosted == nil {
		return
	}
	m.messagesPosted.Add(ctx, 1)
}

func (m *Metrics) RecordMessageUpdated(ctx context.Context) {
	if m == nil || m.messagesUpdated == nil {
		return
	}
	m.messagesUpdated.Add(ctx, 1)
}

func (m *Metrics) RecordMessageDeleted(ctx context.Context) {
	if m == nil || m.messagesDeleted == nil {
		return
	}
	m.messagesDeleted.Add(ctx, 1)
}
