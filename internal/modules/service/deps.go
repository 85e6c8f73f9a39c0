package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/projcalc/estimator/internal/modules/repo"
	"github.com/projcalc/estimator/internal/pkg/pricing"
)

// Hooks receives coordinator observations. Implementations must be safe for
// concurrent use.
type Hooks interface {
	ObserveOperation(ctx context.Context, op, status string, dur time.Duration)
	IncConflict(ctx context.Context, op string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(context.Context, string, string, time.Duration) {}
func (noopHooks) IncConflict(context.Context, string)                             {}

// CostCache keeps the team daily cost of a project per pricing version.
// A rate or team write moves the project to a new version, so an entry
// computed from older rates is never read again. Misses and errors fall back
// to the database.
type CostCache interface {
	GetDailyCost(ctx context.Context, projectID uuid.UUID, version int64) (decimal.Decimal, bool)
	SetDailyCost(ctx context.Context, projectID uuid.UUID, version int64, cost decimal.Decimal)
	Invalidate(ctx context.Context, projectID uuid.UUID, version int64)
}

type noopCache struct{}

func (noopCache) GetDailyCost(context.Context, uuid.UUID, int64) (decimal.Decimal, bool) {
	return decimal.Zero, false
}
func (noopCache) SetDailyCost(context.Context, uuid.UUID, int64, decimal.Decimal) {}
func (noopCache) Invalidate(context.Context, uuid.UUID, int64)                    {}

// Flusher pushes committed outbox events out. It is called after commit and
// never fails the request.
type Flusher interface {
	Flush(ctx context.Context) (int, error)
}

// BaseDeps is shared by every service. Store, Log and Calc are required.
type BaseDeps struct {
	Store  repo.Store
	Log    *zap.Logger
	Calc   *pricing.Calculator
	Now    func() time.Time
	Hooks  Hooks
	Cache  CostCache
	Events *EventRecorder
	Relay  Flusher
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.Cache == nil {
		d.Cache = noopCache{}
	}
	if d.Events == nil {
		d.Events = &EventRecorder{}
	}
	return d
}
