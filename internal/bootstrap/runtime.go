package bootstrap

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/student-roster/internal/repository"
	"github.com/noah-isme/student-roster/internal/service"
	"github.com/noah-isme/student-roster/pkg/cache"
	"github.com/noah-isme/student-roster/pkg/config"
	"github.com/noah-isme/student-roster/pkg/database"
)

// Runtime holds the wired roster components shared by the API server and the terminal viewer.
type Runtime struct {
	Metrics    *service.MetricsService
	Controller *service.RosterController
	Session    *service.RosterSession
	Dispatcher *service.NotificationDispatcher

	db     *sqlx.DB
	redis  *redis.Client
	logger *zap.Logger
}

// New connects the configured roster source and event sinks and builds the session.
// The dispatcher is started; call Close on shutdown.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Runtime, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rt := &Runtime{logger: logger}
	if cfg.Metrics.Enabled {
		rt.Metrics = service.NewMetricsService()
	}

	source, err := rt.rosterSource(ctx, cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}

	sinks := []service.EventSink{repository.NewEventLogSink(logger)}
	if cfg.Notify.RedisEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		rt.redis = client
		sinks = append(sinks, repository.NewRedisEventPublisher(client, cfg.Notify.RedisChannel, logger))
	}

	rt.Dispatcher = service.NewNotificationDispatcher(sinks, service.DispatcherConfig{
		Workers:    cfg.Notify.Workers,
		BufferSize: cfg.Notify.BufferSize,
	}, rt.Metrics, logger)
	rt.Dispatcher.Start(context.WithoutCancel(ctx))

	formValidator, err := service.NewFormValidator(validator.New())
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("init form validator: %w", err)
	}

	rt.Controller = service.NewRosterController(source, logger,
		service.WithObservers(rt.Dispatcher),
		service.WithControllerMetrics(rt.Metrics),
	)
	form := service.NewStudentForm(formValidator, service.SimulatedSave(cfg.Form.SaveDelay), logger)
	rt.Session = service.NewRosterSession(rt.Controller, form, logger, service.WithSessionMetrics(rt.Metrics))
	return rt, nil
}

// LoadInBackground starts the initial roster load without blocking the caller.
func (rt *Runtime) LoadInBackground(ctx context.Context) {
	go func() {
		if err := rt.Session.LoadRoster(ctx); err != nil {
			rt.logger.Warn("initial roster load failed", zap.Error(err))
		}
	}()
}

// Close stops the dispatcher and releases connections.
func (rt *Runtime) Close() {
	if rt.Dispatcher != nil {
		rt.Dispatcher.Stop()
	}
	if rt.redis != nil {
		_ = rt.redis.Close()
	}
	if rt.db != nil {
		_ = rt.db.Close()
	}
}

func (rt *Runtime) rosterSource(ctx context.Context, cfg *config.Config) (service.RosterSource, error) {
	if cfg.Roster.Source != config.RosterSourcePostgres {
		return repository.NewMockRosterSource(cfg.Roster.LoadDelay, rt.logger), nil
	}
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	rt.db = db
	return repository.NewPostgresRosterSource(db, rt.Metrics), nil
}
