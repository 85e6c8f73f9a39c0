package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/projcalc/estimator/internal/modules/model"
)

type MilestoneService interface {
	Create(ctx context.Context, in CreateMilestoneInput) (*MilestoneOutput, error)
	Update(ctx context.Context, in UpdateMilestoneInput) (*MilestoneOutput, error)
	Delete(ctx context.Context, userID, projectID, milestoneID uuid.UUID) error
	List(ctx context.Context, userID, projectID uuid.UUID) ([]*MilestoneOutput, error)
}

type milestoneService struct {
	deps BaseDeps
}

func NewMilestoneService(deps BaseDeps) MilestoneService {
	return &milestoneService{deps: deps.withDefaults()}
}

type MilestoneFields struct {
	Title         string
	Description   string
	StartDateTime *time.Time
	EndDateTime   *time.Time
}

// ValidateMilestoneDates checks that given dates are not in the past and
// that the range is not inverted. Missing dates are accepted.
func ValidateMilestoneDates(start, end *time.Time, now time.Time) error {
	if start != nil && start.Before(now) {
		return ErrInvalidMilestoneDates.WithField("start_date_time")
	}
	if end != nil && end.Before(now) {
		return ErrInvalidMilestoneDates.WithField("end_date_time")
	}
	if start != nil && end != nil && end.Before(*start) {
		return ErrInvalidMilestoneDates.WithField("end_date_time")
	}
	return nil
}

func (f MilestoneFields) validate(now time.Time) error {
	if strings.TrimSpace(f.Title) == "" {
		return ErrBlankField.WithField("title")
	}
	if strings.TrimSpace(f.Description) == "" {
		return ErrBlankField.WithField("description")
	}
	return ValidateMilestoneDates(f.StartDateTime, f.EndDateTime, now)
}

func (f MilestoneFields) applyTo(m *model.Milestone) {
	m.Title = f.Title
	m.Description = f.Description
	m.StartAt = f.StartDateTime
	m.EndAt = f.EndDateTime
}

type CreateMilestoneInput struct {
	UserID    uuid.UUID
	ProjectID uuid.UUID
	MilestoneFields
}

func (s *milestoneService) Create(ctx context.Context, in CreateMilestoneInput) (*MilestoneOutput, error) {
	if err := in.validate(s.deps.Now()); err != nil {
		return nil, err
	}

	m := &model.Milestone{ProjectID: in.ProjectID}
	in.applyTo(m)

	var p *model.Project
	err := write(ctx, s.deps, "milestone.create", func(u *unit) error {
		l, err := u.open(in.ProjectID, in.UserID)
		if err != nil {
			return err
		}
		p = l.Project()
		m.CreatedAt = u.now
		m.UpdatedAt = u.now
		if err := u.tx.Milestones().Create(ctx, m); err != nil {
			return MapError("milestone.create", err)
		}
		l.Touch()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.deps.Log.Info("Saved milestone", zap.String("milestone_id", m.ID.String()), zap.String("project_id", m.ProjectID.String()))
	return s.output(ctx, p, m)
}

type UpdateMilestoneInput struct {
	UserID      uuid.UUID
	ProjectID   uuid.UUID
	MilestoneID uuid.UUID
	MilestoneFields
}

func (s *milestoneService) Update(ctx context.Context, in UpdateMilestoneInput) (*MilestoneOutput, error) {
	if err := in.validate(s.deps.Now()); err != nil {
		return nil, err
	}

	var (
		p *model.Project
		m *model.Milestone
	)
	err := write(ctx, s.deps, "milestone.update", func(u *unit) error {
		l, err := u.open(in.ProjectID, in.UserID)
		if err != nil {
			return err
		}
		p = l.Project()
		m, err = l.Milestone(ctx, in.MilestoneID)
		if err != nil {
			return err
		}
		in.applyTo(m)
		l.TouchMilestone(m.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.deps.Log.Info("Updated milestone", zap.String("milestone_id", m.ID.String()))
	return s.output(ctx, p, m)
}

// Delete removes the milestone and detaches its features. The features stay
// in the project, so the project total is unchanged.
func (s *milestoneService) Delete(ctx context.Context, userID, projectID, milestoneID uuid.UUID) error {
	return write(ctx, s.deps, "milestone.delete", func(u *unit) error {
		l, err := u.open(projectID, userID)
		if err != nil {
			return err
		}
		if _, err := l.Milestone(ctx, milestoneID); err != nil {
			return err
		}
		detached, err := u.tx.Features().DetachMilestone(ctx, projectID, milestoneID, u.now)
		if err != nil {
			return MapError("milestone.delete", err)
		}
		if err := u.tx.Milestones().Delete(ctx, projectID, milestoneID); err != nil {
			return MapError("milestone.delete", err)
		}
		l.Forget(milestoneID)
		l.Touch()
		s.deps.Log.Info("Deleted milestone", zap.String("milestone_id", milestoneID.String()), zap.Int64("detached_features", detached))
		return u.emit(Event{Type: EventMilestoneDeleted, Project: l.Project(), MilestoneID: &milestoneID})
	})
}

func (s *milestoneService) List(ctx context.Context, userID, projectID uuid.UUID) ([]*MilestoneOutput, error) {
	p, err := ownedProject(ctx, s.deps, userID, projectID)
	if err != nil {
		return nil, err
	}
	list, err := s.deps.Store.Milestones().ListByProject(ctx, projectID)
	if err != nil {
		return nil, MapError("milestone.list", err)
	}
	cost, err := s.deps.dailyCost(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]*MilestoneOutput, 0, len(list))
	for _, m := range list {
		out = append(out, newMilestoneOutput(m, cost))
	}
	return out, nil
}

func (s *milestoneService) output(ctx context.Context, p *model.Project, m *model.Milestone) (*MilestoneOutput, error) {
	cost, err := s.deps.dailyCost(ctx, p)
	if err != nil {
		return nil, err
	}
	return newMilestoneOutput(m, cost), nil
}
