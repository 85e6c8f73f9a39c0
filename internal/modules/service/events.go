package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/projcalc/estimator/internal/modules/model"
	"github.com/projcalc/estimator/internal/modules/repo"
	"github.com/projcalc/estimator/internal/pkg/estimate"
)

const (
	EventProjectCreated   = "project.created"
	EventProjectDeleted   = "project.deleted"
	EventFeatureCreated   = "feature.created"
	EventFeatureUpdated   = "feature.updated"
	EventFeatureDeleted   = "feature.deleted"
	EventMilestoneDeleted = "milestone.deleted"
)

// Event describes a committed change to a project's estimate.
type Event struct {
	Type        string
	Project     *model.Project
	MilestoneID *uuid.UUID
	FeatureID   *uuid.UUID
}

// EstimateChanged is the message body published for every Event.
type EstimateChanged struct {
	Event          string         `json:"event"`
	ProjectID      uuid.UUID      `json:"project_id"`
	MilestoneID    *uuid.UUID     `json:"milestone_id,omitempty"`
	FeatureID      *uuid.UUID     `json:"feature_id,omitempty"`
	EstimateInDays estimate.Fixed `json:"estimate_in_days"`
	OccurredAt     time.Time      `json:"occurred_at"`
}

// EventRecorder writes events to the outbox table. The zero value records
// nothing, which is what runs when the broker is disabled.
type EventRecorder struct {
	RoutingKey string
}

func NewEventRecorder(routingKey string) *EventRecorder {
	return &EventRecorder{RoutingKey: routingKey}
}

// Record inserts the outbox row in tx and reports whether it wrote one.
func (r *EventRecorder) Record(ctx context.Context, tx repo.Store, ev Event, at time.Time) (bool, error) {
	if r == nil || r.RoutingKey == "" {
		return false, nil
	}
	body := EstimateChanged{
		Event:          ev.Type,
		ProjectID:      ev.Project.ID,
		MilestoneID:    ev.MilestoneID,
		FeatureID:      ev.FeatureID,
		EstimateInDays: estimate.NewFixed(ev.Project.EstimateInDays),
		OccurredAt:     at,
	}
	payload, err := sonic.Marshal(body)
	if err != nil {
		return false, MapError("outbox.encode", err)
	}
	row := &model.OutboxEvent{
		AggregateType: "project",
		AggregateID:   ev.Project.ID,
		EventType:     ev.Type,
		RoutingKey:    r.RoutingKey,
		Payload:       payload,
	}
	if err := tx.Outbox().Insert(ctx, row); err != nil {
		return false, MapError("outbox.insert", err)
	}
	return true, nil
}

// Publisher sends one message to the broker.
type Publisher interface {
	PublishJSON(ctx context.Context, exchangeName string, routingKey string, body any) error
}

// OutboxRelay publishes pending outbox rows and records the outcome of each.
type OutboxRelay struct {
	store    repo.Store
	pub      Publisher
	exchange string
	batch    int
	log      *zap.Logger
	now      func() time.Time

	mu sync.Mutex
}

func NewOutboxRelay(store repo.Store, pub Publisher, exchange string, batch int, log *zap.Logger) *OutboxRelay {
	if batch <= 0 {
		batch = 100
	}
	return &OutboxRelay{
		store:    store,
		pub:      pub,
		exchange: exchange,
		batch:    batch,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Flush publishes one batch of pending events and returns how many were sent.
// Concurrent calls are serialized so an event is not published twice by
// this process.
func (r *OutboxRelay) Flush(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending, err := r.store.Outbox().ListPending(ctx, r.batch)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, e := range pending {
		if err := r.pub.PublishJSON(ctx, r.exchange, e.RoutingKey, json.RawMessage(e.Payload)); err != nil {
			r.log.Warn("publish outbox event", zap.String("event_id", e.ID.String()), zap.Error(err))
			if mErr := r.store.Outbox().MarkFailed(ctx, e.ID, err.Error()); mErr != nil {
				return sent, mErr
			}
			continue
		}
		if err := r.store.Outbox().MarkSent(ctx, e.ID, r.now()); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

// Run flushes on every tick until ctx is done. It picks up events whose
// inline flush failed.
func (r *OutboxRelay) Run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n, err := r.Flush(ctx); err != nil {
				r.log.Warn("outbox relay pass failed", zap.Error(err))
			} else if n > 0 {
				r.log.Debug("outbox relay published", zap.Int("count", n))
			}
		}
	}
}
