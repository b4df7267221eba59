package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"social-media-service/internal/account"
	"social-media-service/internal/config"
	"social-media-service/internal/db"
	"social-media-service/internal/events"
	"social-media-service/internal/health"
	"social-media-service/internal/kafka"
	"social-media-service/internal/logger"
	"social-media-service/internal/message"
	"social-media-service/internal/messaging"
	"social-media-service/internal/metrics"
	"social-media-service/internal/middleware"
	"social-media-service/internal/telemetry"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/uptrace/bun"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const limiterCleanupInterval = 5 * time.Minute

type App struct {
	config        *config.Config
	router        chi.Router
	server        *http.Server
	logger        *slog.Logger
	db            *bun.DB
	publisher     events.Publisher
	meterProvider *sdkmetric.MeterProvider
	stop          chan struct{}
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slogLogger := logger.NewWithServiceContext(ServiceName, Version, cfg.Env, cfg.Log.Level)
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application", "env", cfg.Env, "commit", GitCommit)

	ctx := context.Background()

	meterProvider, err := telemetry.InitMeterProvider(ctx, cfg.Telemetry, ServiceName, Version, slogLogger)
	if err != nil {
		slogLogger.Warn("failed to initialize OTel metrics, continuing without export", "error", err)
	}

	appMetrics, err := metrics.New(ServiceName, slogLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	database, err := db.New(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := appMetrics.RegisterDB(database.DB); err != nil {
		slogLogger.Warn("failed to register database pool metrics", "error", err)
	}
	if err := appMetrics.RegisterServiceInfo(ServiceName, Version, cfg.Env, "postgres"); err != nil {
		slogLogger.Warn("failed to register service info metrics", "error", err)
	}

	if err := db.RunMigrations(ctx, database, (*account.Account)(nil), (*message.Message)(nil)); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	publisher, err := newPublisher(cfg.Events, slogLogger, appMetrics)
	if err != nil {
		slogLogger.Warn("failed to initialize event publisher, events disabled", "driver", cfg.Events.Driver, "error", err)
		publisher = events.NewNoop()
	}

	app := &App{
		config:        cfg,
		logger:        slogLogger,
		db:            database,
		publisher:     publisher,
		meterProvider: meterProvider,
		stop:          make(chan struct{}),
	}
	app.router = app.buildRouter(database, appMetrics)

	slogLogger.Info("application initialized successfully")
	return app, nil
}

func (a *App) buildRouter(database bun.IDB, appMetrics *metrics.Metrics) chi.Router {
	router := chi.NewRouter()

	httpMetrics := middleware.NewHTTPMetrics("social")

	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.RequestLogger(a.logger))
	router.Use(chimw.Recoverer)
	router.Use(httpMetrics.Instrument)
	router.Use(middleware.CORS(a.config.Server.CORSOrigins))

	if rl := a.config.Server.RateLimit; rl.RequestsPerSecond > 0 {
		limiter := middleware.NewRateLimiter(rl.RequestsPerSecond, rl.Burst, a.logger)
		limiter.StartCleanup(limiterCleanupInterval, a.stop)
		router.Use(limiter.Handler)
	}

	router.Handle("/metrics", httpMetrics.Handler())

	if pinger, ok := database.(health.Pinger); ok {
		health.NewHandler(pinger, appMetrics, a.logger).RegisterRoutes(router)
	}

	surface := a.config.Server.SurfaceStoreErrors

	accountRepo := account.NewRepository(database, appMetrics, a.logger)
	accountService := account.NewService(accountRepo, a.publisher, appMetrics, a.logger)
	account.NewHandler(accountService, a.logger, surface).RegisterRoutes(router)

	messageRepo := message.NewRepository(database, appMetrics, a.logger)
	messageService := message.NewService(messageRepo, a.publisher, appMetrics, a.logger)
	message.NewHandler(messageService, a.logger, surface).RegisterRoutes(router)

	return router
}

func newPublisher(cfg config.EventsConfig, logger *slog.Logger, m *metrics.Metrics) (events.Publisher, error) {
	switch cfg.Driver {
	case "nats":
		producer, err := messaging.NewProducer(cfg.NATS.URL, cfg.NATS.Subject, logger, m)
		if err != nil {
			return nil, fmt.Errorf("nats producer: %w", err)
		}
		return producer, nil
	case "kafka":
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger, m)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		return producer, nil
	default:
		logger.Info("event publishing disabled")
		return events.NewNoop(), nil
	}
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server first, then releases the publisher, the
// database and the meter provider.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	var errs []error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server: %w", err))
		}
	}
	close(a.stop)

	if err := a.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("event publisher: %w", err))
	}
	db.Close(a.db)

	if err := telemetry.Shutdown(ctx, a.meterProvider, a.logger); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
