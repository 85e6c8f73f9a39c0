package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/projcalc/estimator/internal/modules/model"
	"github.com/projcalc/estimator/internal/modules/repo"
	"github.com/projcalc/estimator/internal/pkg/estimate"
)

// Ledger applies feature estimate deltas to the running totals of one
// project and its milestones inside a transaction. The project row is locked
// on open; milestone rows are locked the first time they are touched, so the
// lock order is always project then milestones.
type Ledger struct {
	tx  repo.Store
	now time.Time

	project      *model.Project
	projectDirty bool

	milestones map[uuid.UUID]*model.Milestone
	dirty      map[uuid.UUID]bool
}

// OpenLedger locks projectID and checks ownership. Missing and foreign
// projects both yield ErrProjectNotFound.
func OpenLedger(ctx context.Context, tx repo.Store, projectID, callerID uuid.UUID, now time.Time) (*Ledger, error) {
	p, err := tx.Projects().GetForUpdate(ctx, projectID)
	if err != nil {
		return nil, notFound("ledger.open", err, ErrProjectNotFound)
	}
	if p.CreatorID != callerID {
		return nil, ErrProjectNotFound
	}
	return &Ledger{
		tx:         tx,
		now:        now,
		project:    p,
		milestones: make(map[uuid.UUID]*model.Milestone),
		dirty:      make(map[uuid.UUID]bool),
	}, nil
}

func (l *Ledger) Project() *model.Project { return l.project }

// Milestone locks and returns a milestone of the ledger's project. Repeated
// calls return the same cached row.
func (l *Ledger) Milestone(ctx context.Context, id uuid.UUID) (*model.Milestone, error) {
	if m, ok := l.milestones[id]; ok {
		return m, nil
	}
	m, err := l.tx.Milestones().GetForUpdate(ctx, l.project.ID, id)
	if err != nil {
		return nil, notFound("ledger.milestone", err, ErrMilestoneNotFound)
	}
	l.milestones[id] = m
	return m, nil
}

// Touch marks the project as modified without changing totals.
func (l *Ledger) Touch() { l.projectDirty = true }

// Reprice bumps the pricing version after a rate or team change.
func (l *Ledger) Reprice() {
	l.project.PricingVersion++
	l.projectDirty = true
}

// TouchMilestone marks a loaded milestone as modified.
func (l *Ledger) TouchMilestone(id uuid.UUID) {
	if _, ok := l.milestones[id]; ok {
		l.dirty[id] = true
	}
	l.projectDirty = true
}

// Forget drops a milestone that is being deleted so Flush does not write it.
func (l *Ledger) Forget(id uuid.UUID) {
	delete(l.milestones, id)
	delete(l.dirty, id)
}

func (l *Ledger) apply(ctx context.Context, f *model.Feature, sign int) error {
	delta := f.EstimateInDays()
	if sign < 0 {
		delta = delta.Neg()
	}
	l.project.EstimateInDays = l.project.EstimateInDays.Add(delta)
	l.projectDirty = true

	if f.MilestoneID == nil {
		return nil
	}
	m, err := l.Milestone(ctx, *f.MilestoneID)
	if err != nil {
		return err
	}
	m.EstimateInDays = m.EstimateInDays.Add(delta)
	l.dirty[m.ID] = true
	return nil
}

// AddFeature adds the feature's estimate to the project and, if assigned,
// its milestone.
func (l *Ledger) AddFeature(ctx context.Context, f *model.Feature) error {
	return l.apply(ctx, f, 1)
}

// RemoveFeature subtracts the feature's estimate from the project and, if
// assigned, its milestone.
func (l *Ledger) RemoveFeature(ctx context.Context, f *model.Feature) error {
	return l.apply(ctx, f, -1)
}

// MoveFeature subtracts the old state and adds the new one. Both steps run
// even when the milestone did not change, so an estimate edit inside one
// milestone nets out correctly.
func (l *Ledger) MoveFeature(ctx context.Context, oldF, newF *model.Feature) error {
	if err := l.RemoveFeature(ctx, oldF); err != nil {
		return err
	}
	return l.AddFeature(ctx, newF)
}

// Flush checks the aggregate invariants and writes every modified row with
// the ledger timestamp.
func (l *Ledger) Flush(ctx context.Context) error {
	if err := l.check(); err != nil {
		return err
	}
	for id := range l.dirty {
		m := l.milestones[id]
		m.UpdatedAt = l.now
		if err := l.tx.Milestones().Update(ctx, m); err != nil {
			return MapError("ledger.flush", err)
		}
	}
	if l.projectDirty {
		l.project.UpdatedAt = l.now
		if err := l.tx.Projects().Update(ctx, l.project); err != nil {
			return MapError("ledger.flush", err)
		}
	}
	l.dirty = make(map[uuid.UUID]bool)
	l.projectDirty = false
	return nil
}

// check reports negative or inconsistent totals as invariant violations and
// totals too large for the column as a validation failure of the request.
func (l *Ledger) check() error {
	total := l.project.EstimateInDays
	if total.IsNegative() {
		return ErrAggregateInvariant.Wrap(fmt.Errorf("project %s estimate %s is negative", l.project.ID, total))
	}
	if !estimate.FitsPrecision(total) {
		return ErrEstimateOutOfRange.Wrap(fmt.Errorf("project %s estimate %s", l.project.ID, total))
	}
	for id := range l.dirty {
		m := l.milestones[id]
		if m.EstimateInDays.IsNegative() {
			return ErrAggregateInvariant.Wrap(fmt.Errorf("milestone %s estimate %s is negative", m.ID, m.EstimateInDays))
		}
		if !estimate.FitsPrecision(m.EstimateInDays) {
			return ErrEstimateOutOfRange.WithField("milestone_estimate_in_days").Wrap(fmt.Errorf("milestone %s estimate %s", m.ID, m.EstimateInDays))
		}
		if m.EstimateInDays.GreaterThan(total) {
			return ErrAggregateInvariant.Wrap(fmt.Errorf("milestone %s estimate %s exceeds project estimate %s", m.ID, m.EstimateInDays, total))
		}
	}
	return nil
}

// sumEstimates is the recomputed total used by audits.
func sumEstimates(features []*model.Feature) decimal.Decimal {
	sum := decimal.Zero
	for _, f := range features {
		sum = sum.Add(f.EstimateInDays())
	}
	return sum
}
