package bootstrap

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/projcalc/estimator/internal/config"
	"github.com/projcalc/estimator/internal/infra/cache"
	"github.com/projcalc/estimator/internal/infra/db"
	"github.com/projcalc/estimator/internal/infra/logger"
	mq "github.com/projcalc/estimator/internal/infra/queue"
	"github.com/projcalc/estimator/internal/modules/handler"
	"github.com/projcalc/estimator/internal/modules/repo"
	"github.com/projcalc/estimator/internal/modules/service"
	"github.com/projcalc/estimator/internal/pkg/pricing"
	"github.com/projcalc/estimator/internal/telemetry"
)

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level, cfg.App.Env)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := db.Migrate(d, log); err != nil {
				return nil, err
			}
		}
		return d, nil
	})

	// Redis, only when enabled
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return cache.New(cfg)
	})
	do.Provide(inj, func(i *do.Injector) (service.CostCache, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if !cfg.Redis.Enabled {
			return nil, nil
		}
		return cache.NewPriceCache(
			do.MustInvoke[*redis.Client](i),
			time.Duration(cfg.Redis.PriceCacheTTLSec)*time.Second,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// RabbitMQ, only when enabled
	do.Provide(inj, func(i *do.Injector) (*amqp.Connection, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return mq.Dial(cfg.RabbitMQ)
	})
	do.Provide(inj, func(i *do.Injector) (*mq.Publisher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return mq.NewPublisher(
			do.MustInvoke[*amqp.Connection](i),
			cfg.RabbitMQ.ExchangeName.ProjectEvents,
			do.MustInvoke[*zap.Logger](i),
			cfg,
		)
	})

	// pricing
	do.Provide(inj, func(i *do.Injector) (*pricing.Catalog, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return pricing.LoadCatalog(cfg.Pricing.CatalogFile)
	})
	do.Provide(inj, func(i *do.Injector) (*pricing.Calculator, error) {
		return pricing.NewCalculator(do.MustInvoke[*pricing.Catalog](i)), nil
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.Store, error) {
		return repo.NewStore(do.MustInvoke[*gorm.DB](i)), nil
	})

	// events
	do.Provide(inj, func(i *do.Injector) (*service.OutboxRelay, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if !cfg.RabbitMQ.Enabled {
			return nil, nil
		}
		return service.NewOutboxRelay(
			do.MustInvoke[repo.Store](i),
			do.MustInvoke[*mq.Publisher](i),
			cfg.RabbitMQ.ExchangeName.ProjectEvents,
			cfg.RabbitMQ.RelayBatch,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(inj, func(i *do.Injector) (service.Hooks, error) {
		return telemetry.NewCoordinatorHooks(otel.Meter("estimator.coordinator"))
	})

	do.Provide(inj, func(i *do.Injector) (service.BaseDeps, error) {
		cfg := do.MustInvoke[*config.Config](i)
		deps := service.BaseDeps{
			Store: do.MustInvoke[repo.Store](i),
			Log:   do.MustInvoke[*zap.Logger](i),
			Calc:  do.MustInvoke[*pricing.Calculator](i),
			Hooks: do.MustInvoke[service.Hooks](i),
		}
		if c := do.MustInvoke[service.CostCache](i); c != nil {
			deps.Cache = c
		}
		if cfg.RabbitMQ.Enabled {
			deps.Events = service.NewEventRecorder(cfg.RabbitMQ.RoutingKey.EstimateChanged)
			deps.Relay = do.MustInvoke[*service.OutboxRelay](i)
		}
		return deps, nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.ProjectService, error) {
		return service.NewProjectService(do.MustInvoke[service.BaseDeps](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.MilestoneService, error) {
		return service.NewMilestoneService(do.MustInvoke[service.BaseDeps](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.FeatureService, error) {
		return service.NewFeatureService(do.MustInvoke[service.BaseDeps](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.RateService, error) {
		return service.NewRateService(do.MustInvoke[service.BaseDeps](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.TeamMemberService, error) {
		return service.NewTeamMemberService(do.MustInvoke[service.BaseDeps](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.UserService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		users := service.NewUserService(do.MustInvoke[service.BaseDeps](i), cfg.Auth.BcryptCost)
		if err := EnsureAdminUserExists(context.Background(), users, cfg, do.MustInvoke[*zap.Logger](i)); err != nil {
			return nil, err
		}
		return users, nil
	})
	do.Provide(inj, func(i *do.Injector) (service.PositionService, error) {
		return service.NewPositionService(do.MustInvoke[*pricing.Catalog](i)), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.ProjectHandler, error) {
		return handler.NewProjectHandler(do.MustInvoke[service.ProjectService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.MilestoneHandler, error) {
		return handler.NewMilestoneHandler(do.MustInvoke[service.MilestoneService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.FeatureHandler, error) {
		return handler.NewFeatureHandler(do.MustInvoke[service.FeatureService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.RateHandler, error) {
		return handler.NewRateHandler(do.MustInvoke[service.RateService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.TeamMemberHandler, error) {
		return handler.NewTeamMemberHandler(do.MustInvoke[service.TeamMemberService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.UserHandler, error) {
		return handler.NewUserHandler(do.MustInvoke[service.UserService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.PositionHandler, error) {
		return handler.NewPositionHandler(do.MustInvoke[service.PositionService](i)), nil
	})
	return inj
}
