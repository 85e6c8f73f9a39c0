package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/projcalc/estimator/internal/pkg/estimate"
)

type RateService interface {
	List(ctx context.Context, userID, projectID uuid.UUID) ([]*RateOutput, error)
	Update(ctx context.Context, in UpdateRateInput) (*RateOutput, error)
}

type rateService struct {
	deps BaseDeps
}

func NewRateService(deps BaseDeps) RateService {
	return &rateService{deps: deps.withDefaults()}
}

// validAmount accepts strictly positive values that fit numeric(14,2).
func validAmount(d decimal.Decimal, field string) error {
	if !d.IsPositive() || !estimate.FitsPrecision(d) {
		return ErrInvalidAmount.WithField(field)
	}
	return nil
}

func (s *rateService) List(ctx context.Context, userID, projectID uuid.UUID) ([]*RateOutput, error) {
	if _, err := ownedProject(ctx, s.deps, userID, projectID); err != nil {
		return nil, err
	}
	rates, err := s.deps.Store.Rates().ListByProject(ctx, projectID)
	if err != nil {
		return nil, MapError("rate.list", err)
	}
	out := make([]*RateOutput, 0, len(rates))
	for _, r := range rates {
		out = append(out, newRateOutput(r))
	}
	return out, nil
}

type UpdateRateInput struct {
	UserID        uuid.UUID
	ProjectID     uuid.UUID
	RateID        uuid.UUID
	RublesPerHour decimal.Decimal
}

// Update changes the hourly amount of one position. Estimates are not
// affected; every price of the project changes with the next read.
func (s *rateService) Update(ctx context.Context, in UpdateRateInput) (*RateOutput, error) {
	if err := validAmount(in.RublesPerHour, "rubles_per_hour"); err != nil {
		return nil, err
	}

	var out *RateOutput
	err := write(ctx, s.deps, "rate.update", func(u *unit) error {
		l, err := u.open(in.ProjectID, in.UserID)
		if err != nil {
			return err
		}
		r, err := u.tx.Rates().Get(ctx, in.ProjectID, in.RateID)
		if err != nil {
			return notFound("rate.update", err, ErrRateNotFound)
		}
		r.RublesPerHour = in.RublesPerHour
		r.UpdatedAt = u.now
		if err := u.tx.Rates().Update(ctx, r); err != nil {
			return MapError("rate.update", err)
		}
		u.reprice(l)
		out = newRateOutput(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.deps.Log.Info("Updated rate",
		zap.String("rate_id", in.RateID.String()),
		zap.String("rubles_per_hour", in.RublesPerHour.StringFixed(2)))
	return out, nil
}
