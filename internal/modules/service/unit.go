package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/projcalc/estimator/internal/modules/repo"
)

// unit is one coordinator operation: a transaction, the ledger of the
// project it touches, and work deferred until after commit.
type unit struct {
	ctx    context.Context
	tx     repo.Store
	deps   BaseDeps
	now    time.Time
	ledger *Ledger
	after  []func(ctx context.Context)
	events bool
}

// open locks the project and checks the caller owns it. A project owned by
// someone else is reported exactly like a missing one.
func (u *unit) open(projectID, callerID uuid.UUID) (*Ledger, error) {
	l, err := OpenLedger(u.ctx, u.tx, projectID, callerID, u.now)
	if err != nil {
		return nil, err
	}
	u.ledger = l
	return l, nil
}

// afterCommit queues fn to run once the transaction has committed.
func (u *unit) afterCommit(fn func(ctx context.Context)) {
	u.after = append(u.after, fn)
}

// emit writes an outbox event in the current transaction.
func (u *unit) emit(ev Event) error {
	written, err := u.deps.Events.Record(u.ctx, u.tx, ev, u.now)
	if err != nil {
		return err
	}
	u.events = u.events || written
	return nil
}

// reprice moves the ledger's project to a new pricing version inside the
// transaction and drops the entry of the old version after commit.
func (u *unit) reprice(l *Ledger) {
	p := l.Project()
	stale := p.PricingVersion
	l.Reprice()
	u.afterCommit(func(ctx context.Context) { u.deps.Cache.Invalidate(ctx, p.ID, stale) })
}

// write runs fn as one atomic coordinator operation named op. The ledger, if
// opened, is flushed before commit; invariant failures roll everything back.
func write(ctx context.Context, deps BaseDeps, op string, fn func(u *unit) error) error {
	start := time.Now()
	u := &unit{ctx: ctx, deps: deps, now: deps.Now()}

	err := deps.Store.InTx(ctx, func(tx repo.Store) error {
		u.tx = tx
		if err := fn(u); err != nil {
			return err
		}
		if u.ledger != nil {
			return u.ledger.Flush(ctx)
		}
		return nil
	})
	mapped := MapError(op, err)

	status := "success"
	if mapped != nil {
		kind := KindOf(mapped)
		status = kind.String()
		switch kind {
		case KindConflict:
			deps.Hooks.IncConflict(ctx, op)
			deps.Log.Error("aggregate invariant violated, transaction rolled back", zap.String("op", op), zap.Error(mapped))
		case KindUnexpected:
			deps.Log.Error("operation failed", zap.String("op", op), zap.Error(mapped))
		}
	}
	deps.Hooks.ObserveOperation(ctx, op, status, time.Since(start))
	if mapped != nil {
		return mapped
	}

	for _, fn := range u.after {
		fn(ctx)
	}
	if u.events && deps.Relay != nil {
		if _, err := deps.Relay.Flush(ctx); err != nil {
			deps.Log.Warn("outbox flush failed", zap.String("op", op), zap.Error(err))
		}
	}
	return nil
}
