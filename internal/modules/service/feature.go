package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/projcalc/estimator/internal/modules/model"
	"github.com/projcalc/estimator/internal/pkg/estimate"
)

type FeatureService interface {
	Create(ctx context.Context, in CreateFeatureInput) (*FeatureOutput, error)
	Update(ctx context.Context, in UpdateFeatureInput) (*FeatureOutput, error)
	Delete(ctx context.Context, userID, projectID, featureID uuid.UUID) error
	List(ctx context.Context, userID, projectID uuid.UUID, milestoneID *uuid.UUID) ([]*FeatureOutput, error)
}

type featureService struct {
	deps BaseDeps
}

func NewFeatureService(deps BaseDeps) FeatureService {
	return &featureService{deps: deps.withDefaults()}
}

type FeatureFields struct {
	Title                    string
	Description              string
	BestCaseEstimateInDays   decimal.Decimal
	MostLikelyEstimateInDays decimal.Decimal
	WorstCaseEstimateInDays  decimal.Decimal
}

func (f FeatureFields) validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return ErrBlankField.WithField("title")
	}
	if strings.TrimSpace(f.Description) == "" {
		return ErrBlankField.WithField("description")
	}
	t := estimate.Triple{
		Best:       f.BestCaseEstimateInDays,
		MostLikely: f.MostLikelyEstimateInDays,
		WorstCase:  f.WorstCaseEstimateInDays,
	}
	if err := t.Validate(); err != nil {
		var fe *estimate.FieldError
		if errors.As(err, &fe) {
			return ErrInvalidEstimates.WithField(fe.Field).Wrap(fe.Err)
		}
		return ErrInvalidEstimates.Wrap(err)
	}
	return nil
}

func (f FeatureFields) applyTo(m *model.Feature) {
	m.Title = f.Title
	m.Description = f.Description
	m.BestCaseEstimateInDays = f.BestCaseEstimateInDays
	m.MostLikelyEstimateInDays = f.MostLikelyEstimateInDays
	m.WorstCaseEstimateInDays = f.WorstCaseEstimateInDays
}

type CreateFeatureInput struct {
	UserID      uuid.UUID
	ProjectID   uuid.UUID
	MilestoneID *uuid.UUID
	FeatureFields
}

func (s *featureService) Create(ctx context.Context, in CreateFeatureInput) (*FeatureOutput, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	f := &model.Feature{ProjectID: in.ProjectID, MilestoneID: in.MilestoneID}
	in.applyTo(f)

	var p *model.Project
	err := write(ctx, s.deps, "feature.create", func(u *unit) error {
		l, err := u.open(in.ProjectID, in.UserID)
		if err != nil {
			return err
		}
		p = l.Project()
		if in.MilestoneID != nil {
			if _, err := l.Milestone(ctx, *in.MilestoneID); err != nil {
				return err
			}
		}
		f.CreatedAt = u.now
		f.UpdatedAt = u.now
		if err := u.tx.Features().Create(ctx, f); err != nil {
			return MapError("feature.create", err)
		}
		if err := l.AddFeature(ctx, f); err != nil {
			return err
		}
		return u.emit(Event{Type: EventFeatureCreated, Project: l.Project(), MilestoneID: f.MilestoneID, FeatureID: &f.ID})
	})
	if err != nil {
		return nil, err
	}
	s.deps.Log.Info("Saved feature",
		zap.String("feature_id", f.ID.String()),
		zap.String("project_id", f.ProjectID.String()),
		zap.String("estimate_in_days", f.EstimateInDays().StringFixed(2)))

	return s.output(ctx, p, f)
}

type UpdateFeatureInput struct {
	UserID    uuid.UUID
	ProjectID uuid.UUID
	FeatureID uuid.UUID
	// NewMilestoneID reassigns the feature; nil detaches it.
	NewMilestoneID *uuid.UUID
	FeatureFields
}

func (s *featureService) Update(ctx context.Context, in UpdateFeatureInput) (*FeatureOutput, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var (
		p       *model.Project
		updated *model.Feature
	)
	err := write(ctx, s.deps, "feature.update", func(u *unit) error {
		l, err := u.open(in.ProjectID, in.UserID)
		if err != nil {
			return err
		}
		p = l.Project()
		old, err := u.tx.Features().GetForUpdate(ctx, in.ProjectID, in.FeatureID)
		if err != nil {
			return notFound("feature.update", err, ErrFeatureNotFound)
		}
		if in.NewMilestoneID != nil {
			if _, err := l.Milestone(ctx, *in.NewMilestoneID); err != nil {
				if errors.Is(err, ErrMilestoneNotFound) {
					return ErrMilestoneNotFound.WithField("new_milestone_id")
				}
				return err
			}
		}

		next := *old
		next.MilestoneID = in.NewMilestoneID
		in.applyTo(&next)
		next.UpdatedAt = u.now

		s.deps.Log.Debug("Before update", zap.String("feature_id", old.ID.String()),
			zap.String("estimate_in_days", old.EstimateInDays().StringFixed(2)))

		if err := l.MoveFeature(ctx, old, &next); err != nil {
			return err
		}
		if err := u.tx.Features().Update(ctx, &next); err != nil {
			return MapError("feature.update", err)
		}
		updated = &next
		return u.emit(Event{Type: EventFeatureUpdated, Project: l.Project(), MilestoneID: next.MilestoneID, FeatureID: &next.ID})
	})
	if err != nil {
		return nil, err
	}
	s.deps.Log.Info("Updated feature",
		zap.String("feature_id", updated.ID.String()),
		zap.String("estimate_in_days", updated.EstimateInDays().StringFixed(2)))

	return s.output(ctx, p, updated)
}

func (s *featureService) Delete(ctx context.Context, userID, projectID, featureID uuid.UUID) error {
	return write(ctx, s.deps, "feature.delete", func(u *unit) error {
		l, err := u.open(projectID, userID)
		if err != nil {
			return err
		}
		f, err := u.tx.Features().GetForUpdate(ctx, projectID, featureID)
		if err != nil {
			return notFound("feature.delete", err, ErrFeatureNotFound)
		}
		if err := l.RemoveFeature(ctx, f); err != nil {
			return err
		}
		if err := u.tx.Features().Delete(ctx, projectID, featureID); err != nil {
			return MapError("feature.delete", err)
		}
		return u.emit(Event{Type: EventFeatureDeleted, Project: l.Project(), MilestoneID: f.MilestoneID, FeatureID: &f.ID})
	})
}

func (s *featureService) List(ctx context.Context, userID, projectID uuid.UUID, milestoneID *uuid.UUID) ([]*FeatureOutput, error) {
	p, err := ownedProject(ctx, s.deps, userID, projectID)
	if err != nil {
		return nil, err
	}
	if milestoneID != nil {
		if _, err := s.deps.Store.Milestones().Get(ctx, projectID, *milestoneID); err != nil {
			return nil, notFound("feature.list", err, ErrMilestoneNotFound)
		}
	}
	features, err := s.deps.Store.Features().ListByProject(ctx, projectID, milestoneID)
	if err != nil {
		return nil, MapError("feature.list", err)
	}
	cost, err := s.deps.dailyCost(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]*FeatureOutput, 0, len(features))
	for _, f := range features {
		out = append(out, newFeatureOutput(f, cost))
	}
	return out, nil
}

func (s *featureService) output(ctx context.Context, p *model.Project, f *model.Feature) (*FeatureOutput, error) {
	cost, err := s.deps.dailyCost(ctx, p)
	if err != nil {
		return nil, err
	}
	return newFeatureOutput(f, cost), nil
}
