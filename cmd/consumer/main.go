// Command consumer tails the project events exchange and logs every
// estimate change. It is meant for local debugging and integration checks.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/projcalc/estimator/internal/config"
	"github.com/projcalc/estimator/internal/infra/logger"
	mq "github.com/projcalc/estimator/internal/infra/queue"
	"github.com/projcalc/estimator/internal/modules/service"
)

const queueName = "estimator.estimate_changed.tail"

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	log, err := logger.New(cfg.Log.Level, cfg.App.Env)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	conn, err := mq.Dial(cfg.RabbitMQ)
	if err != nil {
		log.Fatal("connect rabbitmq", zap.Error(err))
	}
	defer conn.Close()

	consumer, err := mq.NewConsumer(conn,
		cfg.RabbitMQ.ExchangeName.ProjectEvents,
		queueName,
		cfg.RabbitMQ.RoutingKey.EstimateChanged,
		10, log, cfg)
	if err != nil {
		log.Fatal("init consumer", zap.Error(err))
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("consuming", zap.String("queue", queueName), zap.String("exchange", cfg.RabbitMQ.ExchangeName.ProjectEvents))
	err = consumer.Handle(ctx, func(_ context.Context, body []byte) error {
		var ev service.EstimateChanged
		if err := sonic.Unmarshal(body, &ev); err != nil {
			// a malformed message would be redelivered forever
			log.Warn("dropping malformed event", zap.ByteString("body", body), zap.Error(err))
			return nil
		}
		log.Info("estimate changed",
			zap.String("event", ev.Event),
			zap.String("project_id", ev.ProjectID.String()),
			zap.Stringer("estimate_in_days", ev.EstimateInDays),
			zap.Time("occurred_at", ev.OccurredAt),
		)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("consumer stopped", zap.Error(err))
	}
}
