package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/projcalc/estimator/internal/bootstrap"
	"github.com/projcalc/estimator/internal/config"
	"github.com/projcalc/estimator/internal/infra/cache"
	"github.com/projcalc/estimator/internal/infra/db"
	mq "github.com/projcalc/estimator/internal/infra/queue"
	"github.com/projcalc/estimator/internal/modules/handler"
	"github.com/projcalc/estimator/internal/modules/service"
	"github.com/projcalc/estimator/internal/router"
	"github.com/projcalc/estimator/internal/telemetry"
)

const relayInterval = 5 * time.Second

//	@title						Estimator API
//	@version					1.0
//	@description				Project estimates with PERT three-point features and team based pricing.
//	@BasePath					/api/v1
//	@securityDefinitions.basic	BasicAuth
func main() {
	inj := bootstrap.BuildContainer()
	cfg := do.MustInvoke[*config.Config](inj)
	log := do.MustInvoke[*zap.Logger](inj)
	defer func() { _ = log.Sync() }()

	// telemetry has to be installed before the db and redis plugins
	if tp, err := telemetry.SetupTracing(cfg); err != nil {
		log.Warn("tracing disabled", zap.Error(err))
	} else if tp != nil {
		log.Info("tracing enabled", zap.String("endpoint", cfg.Telemetry.OtlpEndpoint), zap.Float64("sample_ratio", cfg.Telemetry.SampleRatio))
	}
	if mp, err := telemetry.SetupMetrics(cfg); err != nil {
		log.Warn("metrics disabled", zap.Error(err))
	} else if mp != nil {
		log.Info("metrics enabled")
	}

	gdb := do.MustInvoke[*gorm.DB](inj)
	if cfg.Telemetry.Enabled {
		if err := db.RegisterOpenTelemetryPlugin(gdb); err != nil {
			log.Warn("gorm otel plugin", zap.Error(err))
		}
	}
	if cfg.Redis.Enabled {
		rdb := do.MustInvoke[*redis.Client](inj)
		if cfg.Telemetry.Enabled {
			if err := cache.RegisterOpenTelemetryPlugin(rdb); err != nil {
				log.Warn("redis otel plugin", zap.Error(err))
			}
		}
		defer func() { _ = cache.Close(rdb) }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.RabbitMQ.Enabled {
		relay := do.MustInvoke[*service.OutboxRelay](inj)
		defer func() {
			_ = do.MustInvoke[*mq.Publisher](inj).Close()
			_ = do.MustInvoke[*amqp.Connection](inj).Close()
		}()
		go relay.Run(ctx, relayInterval)
		log.Info("outbox relay started", zap.Duration("every", relayInterval))
	}

	engine := router.NewRouter(router.RouterDeps{
		Config:            cfg,
		Log:               log,
		Users:             do.MustInvoke[service.UserService](inj),
		ProjectHandler:    do.MustInvoke[*handler.ProjectHandler](inj),
		MilestoneHandler:  do.MustInvoke[*handler.MilestoneHandler](inj),
		FeatureHandler:    do.MustInvoke[*handler.FeatureHandler](inj),
		RateHandler:       do.MustInvoke[*handler.RateHandler](inj),
		TeamMemberHandler: do.MustInvoke[*handler.TeamMemberHandler](inj),
		UserHandler:       do.MustInvoke[*handler.UserHandler](inj),
		PositionHandler:   do.MustInvoke[*handler.PositionHandler](inj),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown", zap.Error(err))
	}
	if err := telemetry.ShutdownMetrics(shutdownCtx); err != nil {
		log.Warn("metrics shutdown", zap.Error(err))
	}
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		log.Warn("tracing shutdown", zap.Error(err))
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if err := inj.Shutdown(); err != nil {
		log.Warn("container shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
