package mq

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/projcalc/estimator/internal/config"
)

// headerCarrier lets the otel propagator read and write amqp headers.
type headerCarrier amqp.Table

func (c headerCarrier) Get(key string) string {
	val, ok := c[key]
	if !ok {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return fmt.Sprintf("%v", val)
}

func (c headerCarrier) Set(key, value string) { c[key] = value }

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// Dial connects to cfg.URL, using TLS 1.2+ when EnableTLS is set.
func Dial(cfg config.MQCfg) (*amqp.Connection, error) {
	if cfg.EnableTLS {
		return amqp.DialTLS(cfg.URL, &tls.Config{MinVersion: tls.VersionTLS12})
	}
	return amqp.Dial(cfg.URL)
}

func declareExchange(ch *amqp.Channel, name string) error {
	return ch.ExchangeDeclare(name, amqp.ExchangeTopic, true, false, false, false, nil)
}

type Publisher struct {
	ch     *amqp.Channel
	log    *zap.Logger
	tracer trace.Tracer
}

// NewPublisher opens a channel and declares exchange as a durable topic
// exchange so publishing never races the first consumer.
func NewPublisher(conn *amqp.Connection, exchange string, log *zap.Logger, cfg *config.Config) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if err := declareExchange(ch, exchange); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &Publisher{ch: ch, log: log, tracer: otel.Tracer(cfg.App.Name)}, nil
}

func (p *Publisher) Close() error { return p.ch.Close() }

func (p *Publisher) PublishJSON(ctx context.Context, exchangeName string, routingKey string, body any) error {
	b, err := sonic.Marshal(body)
	if err != nil {
		return err
	}

	ctx, span := p.tracer.Start(ctx, "rabbitmq.publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "rabbitmq"),
			attribute.String("messaging.destination", exchangeName),
			attribute.String("messaging.destination_kind", "exchange"),
			attribute.String("messaging.rabbitmq.routing_key", routingKey),
		))
	defer span.End()

	headers := amqp.Table{}
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier(headers))

	err = p.ch.PublishWithContext(ctx, exchangeName, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         b,
		Headers:      headers,
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	span.SetAttributes(attribute.Int("messaging.message.body.size", len(b)))
	return nil
}

type Consumer struct {
	ch     *amqp.Channel
	q      amqp.Queue
	log    *zap.Logger
	tracer trace.Tracer
}

// NewConsumer declares a durable queue bound to exchange with bindingKey.
func NewConsumer(conn *amqp.Connection, exchange, queueName, bindingKey string, prefetch int, log *zap.Logger, cfg *config.Config) (*Consumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if prefetch <= 0 {
		prefetch = 10
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		_ = ch.Close()
		return nil, err
	}
	if err := declareExchange(ch, exchange); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	if err := ch.QueueBind(q.Name, bindingKey, exchange, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("bind %s to %s: %w", q.Name, exchange, err)
	}
	return &Consumer{ch: ch, q: q, log: log, tracer: otel.Tracer(cfg.App.Name)}, nil
}

func (c *Consumer) Close() error { return c.ch.Close() }

// Handle consumes until ctx is done. A handler error nacks and requeues.
func (c *Consumer) Handle(ctx context.Context, handler func(context.Context, []byte) error) error {
	msgs, err := c.ch.Consume(c.q.Name, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-msgs:
			if !ok {
				return errors.New("consumer channel closed")
			}
			c.deliver(ctx, m, handler)
		}
	}
}

func (c *Consumer) deliver(ctx context.Context, m amqp.Delivery, handler func(context.Context, []byte) error) {
	if m.Headers != nil {
		ctx = otel.GetTextMapPropagator().Extract(ctx, headerCarrier(m.Headers))
	}
	ctx, span := c.tracer.Start(ctx, "rabbitmq.consume",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "rabbitmq"),
			attribute.String("messaging.destination", c.q.Name),
			attribute.String("messaging.destination_kind", "queue"),
			attribute.String("messaging.operation", "receive"),
			attribute.Int("messaging.message.body.size", len(m.Body)),
		))
	defer span.End()

	if err := handler(ctx, m.Body); err != nil {
		span.RecordError(err)
		_ = m.Nack(false, true)
		c.log.Error("consume error", zap.String("routing_key", m.RoutingKey), zap.Error(err))
		return
	}
	_ = m.Ack(false)
}
