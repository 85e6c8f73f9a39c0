package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/projcalc/estimator/internal/modules/model"
)

type ProjectService interface {
	Create(ctx context.Context, in CreateProjectInput) (*ProjectOutput, error)
	Get(ctx context.Context, userID, projectID uuid.UUID) (*ProjectOutput, error)
	List(ctx context.Context, userID uuid.UUID) ([]*ProjectOutput, error)
	Update(ctx context.Context, in UpdateProjectInput) (*ProjectOutput, error)
	Delete(ctx context.Context, userID, projectID uuid.UUID) error
	Audit(ctx context.Context, userID, projectID uuid.UUID) (*AuditReport, error)
}

type projectService struct {
	deps BaseDeps
}

func NewProjectService(deps BaseDeps) ProjectService {
	return &projectService{deps: deps.withDefaults()}
}

type ProjectFields struct {
	Title       string
	Description string
	Client      string
}

func (f ProjectFields) validate() error {
	switch {
	case strings.TrimSpace(f.Title) == "":
		return ErrBlankField.WithField("title")
	case strings.TrimSpace(f.Description) == "":
		return ErrBlankField.WithField("description")
	case strings.TrimSpace(f.Client) == "":
		return ErrBlankField.WithField("client")
	}
	return nil
}

type CreateProjectInput struct {
	UserID uuid.UUID
	ProjectFields
}

// Create stores the project with one rate per catalog position at its
// default amount and the catalog's default team.
func (s *projectService) Create(ctx context.Context, in CreateProjectInput) (*ProjectOutput, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	p := &model.Project{
		Title:          in.Title,
		Description:    in.Description,
		Client:         in.Client,
		CreatorID:      in.UserID,
		EstimateInDays: decimal.Zero,
	}
	err := write(ctx, s.deps, "project.create", func(u *unit) error {
		if _, err := u.tx.Users().Get(ctx, in.UserID); err != nil {
			return notFound("project.create", err, ErrUserNotFound)
		}
		p.CreatedAt = u.now
		p.UpdatedAt = u.now
		if err := u.tx.Projects().Create(ctx, p); err != nil {
			return MapError("project.create", err)
		}

		catalog := s.deps.Calc.Catalog()
		rates := make([]*model.Rate, 0, len(catalog.Positions))
		for _, pos := range catalog.Positions {
			rates = append(rates, &model.Rate{
				ProjectID:     p.ID,
				Position:      pos.Name,
				RublesPerHour: pos.DefaultRate,
				CreatedAt:     u.now,
				UpdatedAt:     u.now,
			})
		}
		if err := u.tx.Rates().CreateBatch(ctx, rates); err != nil {
			return MapError("project.create.rates", err)
		}

		team := make([]*model.TeamMember, 0, len(catalog.DefaultTeam))
		for _, seat := range catalog.DefaultTeam {
			team = append(team, &model.TeamMember{
				ProjectID:           p.ID,
				Position:            seat.Position,
				NumberOfTeamMembers: seat.Involvement,
				CreatedAt:           u.now,
				UpdatedAt:           u.now,
			})
		}
		if err := u.tx.TeamMembers().CreateBatch(ctx, team); err != nil {
			return MapError("project.create.team", err)
		}
		return u.emit(Event{Type: EventProjectCreated, Project: p})
	})
	if err != nil {
		return nil, err
	}
	s.deps.Log.Info("Saved project", zap.String("project_id", p.ID.String()), zap.String("creator_id", p.CreatorID.String()))
	return s.output(ctx, p)
}

func (s *projectService) Get(ctx context.Context, userID, projectID uuid.UUID) (*ProjectOutput, error) {
	p, err := ownedProject(ctx, s.deps, userID, projectID)
	if err != nil {
		return nil, err
	}
	return s.output(ctx, p)
}

// List prices every project of the user; costs are resolved concurrently.
func (s *projectService) List(ctx context.Context, userID uuid.UUID) ([]*ProjectOutput, error) {
	projects, err := s.deps.Store.Projects().ListByCreator(ctx, userID)
	if err != nil {
		return nil, MapError("project.list", err)
	}

	out := make([]*ProjectOutput, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, p := range projects {
		g.Go(func() error {
			cost, err := s.deps.dailyCost(gctx, p)
			if err != nil {
				return err
			}
			out[i] = newProjectOutput(p, cost)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

type UpdateProjectInput struct {
	UserID    uuid.UUID
	ProjectID uuid.UUID
	ProjectFields
}

func (s *projectService) Update(ctx context.Context, in UpdateProjectInput) (*ProjectOutput, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var p *model.Project
	err := write(ctx, s.deps, "project.update", func(u *unit) error {
		l, err := u.open(in.ProjectID, in.UserID)
		if err != nil {
			return err
		}
		p = l.Project()
		p.Title = in.Title
		p.Description = in.Description
		p.Client = in.Client
		l.Touch()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.deps.Log.Info("Updated project", zap.String("project_id", p.ID.String()))
	return s.output(ctx, p)
}

func (s *projectService) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	return write(ctx, s.deps, "project.delete", func(u *unit) error {
		l, err := u.open(projectID, userID)
		if err != nil {
			return err
		}
		p := l.Project()
		if err := u.tx.Projects().Delete(ctx, projectID); err != nil {
			return MapError("project.delete", err)
		}
		// nothing left to write back
		u.ledger = nil
		u.afterCommit(func(ctx context.Context) { s.deps.Cache.Invalidate(ctx, p.ID, p.PricingVersion) })
		s.deps.Log.Info("Deleted project", zap.String("project_id", projectID.String()))
		return u.emit(Event{Type: EventProjectDeleted, Project: p})
	})
}

func (s *projectService) output(ctx context.Context, p *model.Project) (*ProjectOutput, error) {
	cost, err := s.deps.dailyCost(ctx, p)
	if err != nil {
		return nil, err
	}
	return newProjectOutput(p, cost), nil
}
