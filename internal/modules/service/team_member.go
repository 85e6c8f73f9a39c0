package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/projcalc/estimator/internal/modules/model"
)

type TeamMemberService interface {
	List(ctx context.Context, userID, projectID uuid.UUID) ([]*TeamMemberOutput, error)
	Create(ctx context.Context, in CreateTeamMemberInput) (*TeamMemberOutput, error)
	Update(ctx context.Context, in UpdateTeamMemberInput) (*TeamMemberOutput, error)
	Delete(ctx context.Context, userID, projectID, teamMemberID uuid.UUID) error
}

type teamMemberService struct {
	deps BaseDeps
}

func NewTeamMemberService(deps BaseDeps) TeamMemberService {
	return &teamMemberService{deps: deps.withDefaults()}
}

type TeamMemberFields struct {
	Position            string
	NumberOfTeamMembers decimal.Decimal
}

func (s *teamMemberService) validate(f TeamMemberFields) error {
	if !s.deps.Calc.Catalog().Has(f.Position) {
		return ErrWrongPosition
	}
	return validAmount(f.NumberOfTeamMembers, "number_of_team_members")
}

func (s *teamMemberService) List(ctx context.Context, userID, projectID uuid.UUID) ([]*TeamMemberOutput, error) {
	if _, err := ownedProject(ctx, s.deps, userID, projectID); err != nil {
		return nil, err
	}
	members, err := s.deps.Store.TeamMembers().ListByProject(ctx, projectID)
	if err != nil {
		return nil, MapError("team_member.list", err)
	}
	out := make([]*TeamMemberOutput, 0, len(members))
	for _, m := range members {
		out = append(out, newTeamMemberOutput(m))
	}
	return out, nil
}

type CreateTeamMemberInput struct {
	UserID    uuid.UUID
	ProjectID uuid.UUID
	TeamMemberFields
}

func (s *teamMemberService) Create(ctx context.Context, in CreateTeamMemberInput) (*TeamMemberOutput, error) {
	if err := s.validate(in.TeamMemberFields); err != nil {
		return nil, err
	}

	t := &model.TeamMember{
		ProjectID:           in.ProjectID,
		Position:            in.Position,
		NumberOfTeamMembers: in.NumberOfTeamMembers,
	}
	err := write(ctx, s.deps, "team_member.create", func(u *unit) error {
		l, err := u.open(in.ProjectID, in.UserID)
		if err != nil {
			return err
		}
		existing, err := u.tx.TeamMembers().FindByPosition(ctx, in.ProjectID, in.Position)
		if err != nil {
			return MapError("team_member.create", err)
		}
		if existing != nil {
			return ErrTeamMemberAlreadyExists
		}
		t.CreatedAt = u.now
		t.UpdatedAt = u.now
		if err := u.tx.TeamMembers().Create(ctx, t); err != nil {
			return MapError("team_member.create", err)
		}
		u.reprice(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.deps.Log.Info("Saved team member",
		zap.String("team_member_id", t.ID.String()),
		zap.String("position", t.Position))
	return newTeamMemberOutput(t), nil
}

type UpdateTeamMemberInput struct {
	UserID       uuid.UUID
	ProjectID    uuid.UUID
	TeamMemberID uuid.UUID
	TeamMemberFields
}

// Update may change the position as long as no other member of the project
// already holds it.
func (s *teamMemberService) Update(ctx context.Context, in UpdateTeamMemberInput) (*TeamMemberOutput, error) {
	if err := s.validate(in.TeamMemberFields); err != nil {
		return nil, err
	}

	var t *model.TeamMember
	err := write(ctx, s.deps, "team_member.update", func(u *unit) error {
		l, err := u.open(in.ProjectID, in.UserID)
		if err != nil {
			return err
		}
		t, err = u.tx.TeamMembers().Get(ctx, in.ProjectID, in.TeamMemberID)
		if err != nil {
			return notFound("team_member.update", err, ErrTeamMemberNotFound)
		}
		existing, err := u.tx.TeamMembers().FindByPosition(ctx, in.ProjectID, in.Position)
		if err != nil {
			return MapError("team_member.update", err)
		}
		if existing != nil && existing.ID != t.ID {
			return ErrTeamMemberAlreadyExists
		}
		t.Position = in.Position
		t.NumberOfTeamMembers = in.NumberOfTeamMembers
		t.UpdatedAt = u.now
		if err := u.tx.TeamMembers().Update(ctx, t); err != nil {
			return MapError("team_member.update", err)
		}
		u.reprice(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.deps.Log.Info("Updated team member", zap.String("team_member_id", t.ID.String()))
	return newTeamMemberOutput(t), nil
}

func (s *teamMemberService) Delete(ctx context.Context, userID, projectID, teamMemberID uuid.UUID) error {
	return write(ctx, s.deps, "team_member.delete", func(u *unit) error {
		l, err := u.open(projectID, userID)
		if err != nil {
			return err
		}
		if _, err := u.tx.TeamMembers().Get(ctx, projectID, teamMemberID); err != nil {
			return notFound("team_member.delete", err, ErrTeamMemberNotFound)
		}
		if err := u.tx.TeamMembers().Delete(ctx, projectID, teamMemberID); err != nil {
			return MapError("team_member.delete", err)
		}
		u.reprice(l)
		return nil
	})
}
