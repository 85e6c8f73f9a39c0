package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/projcalc/estimator/internal/modules/model"
	"github.com/projcalc/estimator/internal/pkg/pricing"
)

// loadSnapshot reads rates and team of a project concurrently. It must not
// be called with a transaction-bound store.
func (d BaseDeps) loadSnapshot(ctx context.Context, projectID uuid.UUID) (pricing.Snapshot, error) {
	var (
		rates   []*model.Rate
		members []*model.TeamMember
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rates, err = d.Store.Rates().ListByProject(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		members, err = d.Store.TeamMembers().ListByProject(gctx, projectID)
		return err
	})
	if err := g.Wait(); err != nil {
		return pricing.Snapshot{}, MapError("price.snapshot", err)
	}

	snap := pricing.Snapshot{
		Rates:       make(map[string]decimal.Decimal, len(rates)),
		Involvement: make(map[string]decimal.Decimal, len(members)),
	}
	for _, r := range rates {
		snap.Rates[r.Position] = r.RublesPerHour
	}
	for _, m := range members {
		snap.Involvement[m.Position] = m.NumberOfTeamMembers
	}
	return snap, nil
}

// dailyCost returns sum(rate * involvement) * 8 for a project, served from
// the cache when possible. The cache entry is keyed by the pricing version
// read with p, which was loaded before the rates. A missing rate is an
// invariant violation.
func (d BaseDeps) dailyCost(ctx context.Context, p *model.Project) (decimal.Decimal, error) {
	projectID, version := p.ID, p.PricingVersion
	if cost, ok := d.Cache.GetDailyCost(ctx, projectID, version); ok {
		return cost, nil
	}
	snap, err := d.loadSnapshot(ctx, projectID)
	if err != nil {
		return decimal.Zero, err
	}
	cost, err := d.Calc.TeamDailyCost(snap)
	if err != nil {
		if errors.Is(err, pricing.ErrRateMissing) {
			d.Log.Error("pricing invariant violated", zap.String("project_id", projectID.String()), zap.Error(err))
			return decimal.Zero, ErrRateMissing.Wrap(err)
		}
		return decimal.Zero, MapError("price.daily_cost", err)
	}
	d.Cache.SetDailyCost(ctx, projectID, version, cost)
	return cost, nil
}
