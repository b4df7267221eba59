package metrics_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"social-media-service/internal/metrics"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m, err := metrics.New("social-media-service-test", logger)
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("DomainCounters", func(t *testing.T) {
		m.RecordAccountRegistered(ctx)
		m.RecordMessagePosted(ctx)
		m.RecordMessagePosted(ctx)
		m.RecordMessageUpdated(ctx)
		m.RecordMessageDeleted(ctx)
		m.RecordLogin(ctx, true)
		m.RecordLogin(ctx, false)

		got := collect(t, reader)
		assert.Equal(t, int64(1), sumOf(t, got["social.accounts.registered"]))
		assert.Equal(t, int64(2), sumOf(t, got["social.messages.posted"]))
		assert.Equal(t, int64(1), sumOf(t, got["social.messages.updated"]))
		assert.Equal(t, int64(1), sumOf(t, got["social.messages.deleted"]))
		assert.Equal(t, int64(2), sumOf(t, got["social.logins"]))
	})

	t.Run("QueryErrorsIgnoreNoRows", func(t *testing.T) {
		m.Database.RecordQuery(ctx, "select", "message", time.Millisecond, sql.ErrNoRows)
		m.Database.RecordQuery(ctx, "insert", "message", time.Millisecond, errors.New("connection reset"))

		got := collect(t, reader)
		assert.Equal(t, int64(1), sumOf(t, got["db.query.errors"]))
		assert.Contains(t, got, "db.query.duration")
	})

	t.Run("DependencyHealth", func(t *testing.T) {
		require.NoError(t, m.RegisterServiceInfo("social-media-service", "test", "unit", "postgres"))
		m.Health.RecordDependencyCheck(ctx, "postgres", 2*time.Millisecond, nil)

		got := collect(t, reader)
		assert.Contains(t, got, "service.info")
		assert.Contains(t, got, "dependency.response_time")

		gauge, ok := got["dependency.up"].Data.(metricdata.Gauge[int64])
		require.True(t, ok)
		require.Len(t, gauge.DataPoints, 1)
		assert.Equal(t, int64(1), gauge.DataPoints[0].Value)
	})

	t.Run("PoolStats", func(t *testing.T) {
		sqldb, _, err := sqlmock.New()
		require.NoError(t, err)
		defer sqldb.Close()

		require.NoError(t, m.RegisterDB(sqldb))

		got := collect(t, reader)
		assert.Contains(t, got, "db.connections.open")
		assert.Contains(t, got, "db.connections.idle")
		assert.Contains(t, got, "db.connections.in_use")
	})
}

func TestNewMockIsSafe(t *testing.T) {
	m := metrics.NewMock()
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordAccountRegistered(ctx)
		m.RecordLogin(ctx, true)
		m.RecordMessagePosted(ctx)
		m.RecordMessageUpdated(ctx)
		m.RecordMessageDeleted(ctx)
		m.Database.RecordQuery(ctx, "select", "account", time.Millisecond, nil)
		m.Messaging.RecordPublish(ctx, "nats", "social.message.created", time.Millisecond, nil)
		assert.NoError(t, m.RegisterDB(nil))
		assert.NoError(t, m.RegisterServiceInfo("svc", "v", "test", "postgres"))
		m.Health.RecordDependencyCheck(ctx, "postgres", time.Millisecond, errors.New("down"))
	})

	var nilMetrics *metrics.Metrics
	assert.NotPanics(t, func() { nilMetrics.RecordMessagePosted(ctx) })
}
