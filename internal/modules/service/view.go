package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/projcalc/estimator/internal/modules/model"
	"github.com/projcalc/estimator/internal/pkg/estimate"
)

type ProjectOutput struct {
	ID             uuid.UUID      `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Client         string         `json:"client"`
	CreatorID      uuid.UUID      `json:"creator_id"`
	EstimateInDays estimate.Fixed `json:"estimate_in_days" swaggertype:"string" example:"4.33"`
	PriceInRubles  estimate.Fixed `json:"price_in_rubles" swaggertype:"string" example:"55424.00"`
	CreatedAt      time.Time      `json:"created_at"`
	LastUpdatedAt  time.Time      `json:"last_updated_at"`
}

func newProjectOutput(p *model.Project, dailyCost decimal.Decimal) *ProjectOutput {
	return &ProjectOutput{
		ID:             p.ID,
		Title:          p.Title,
		Description:    p.Description,
		Client:         p.Client,
		CreatorID:      p.CreatorID,
		EstimateInDays: estimate.NewFixed(p.EstimateInDays),
		PriceInRubles:  estimate.NewFixed(p.EstimateInDays.Mul(dailyCost)),
		CreatedAt:      p.CreatedAt,
		LastUpdatedAt:  p.UpdatedAt,
	}
}

type MilestoneOutput struct {
	ID             uuid.UUID      `json:"id"`
	ProjectID      uuid.UUID      `json:"project_id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	StartDateTime  *time.Time     `json:"start_date_time,omitempty"`
	EndDateTime    *time.Time     `json:"end_date_time,omitempty"`
	EstimateInDays estimate.Fixed `json:"estimate_in_days" swaggertype:"string" example:"4.33"`
	PriceInRubles  estimate.Fixed `json:"price_in_rubles" swaggertype:"string" example:"55424.00"`
	CreatedAt      time.Time      `json:"created_at"`
	LastUpdatedAt  time.Time      `json:"last_updated_at"`
}

func newMilestoneOutput(m *model.Milestone, dailyCost decimal.Decimal) *MilestoneOutput {
	return &MilestoneOutput{
		ID:             m.ID,
		ProjectID:      m.ProjectID,
		Title:          m.Title,
		Description:    m.Description,
		StartDateTime:  m.StartAt,
		EndDateTime:    m.EndAt,
		EstimateInDays: estimate.NewFixed(m.EstimateInDays),
		PriceInRubles:  estimate.NewFixed(m.EstimateInDays.Mul(dailyCost)),
		CreatedAt:      m.CreatedAt,
		LastUpdatedAt:  m.UpdatedAt,
	}
}

type FeatureOutput struct {
	ID                       uuid.UUID      `json:"id"`
	ProjectID                uuid.UUID      `json:"project_id"`
	MilestoneID              *uuid.UUID     `json:"milestone_id,omitempty"`
	Title                    string         `json:"title"`
	Description              string         `json:"description"`
	BestCaseEstimateInDays   estimate.Fixed `json:"best_case_estimate_in_days" swaggertype:"string" example:"2.00"`
	MostLikelyEstimateInDays estimate.Fixed `json:"most_likely_estimate_in_days" swaggertype:"string" example:"4.00"`
	WorstCaseEstimateInDays  estimate.Fixed `json:"worst_case_estimate_in_days" swaggertype:"string" example:"8.00"`
	EstimateInDays           estimate.Fixed `json:"estimate_in_days" swaggertype:"string" example:"4.33"`
	PriceInRubles            estimate.Fixed `json:"price_in_rubles" swaggertype:"string" example:"55424.00"`
	CreatedAt                time.Time      `json:"created_at"`
	LastUpdatedAt            time.Time      `json:"last_updated_at"`
}

func newFeatureOutput(f *model.Feature, dailyCost decimal.Decimal) *FeatureOutput {
	days := f.EstimateInDays()
	return &FeatureOutput{
		ID:                       f.ID,
		ProjectID:                f.ProjectID,
		MilestoneID:              f.MilestoneID,
		Title:                    f.Title,
		Description:              f.Description,
		BestCaseEstimateInDays:   estimate.NewFixed(f.BestCaseEstimateInDays),
		MostLikelyEstimateInDays: estimate.NewFixed(f.MostLikelyEstimateInDays),
		WorstCaseEstimateInDays:  estimate.NewFixed(f.WorstCaseEstimateInDays),
		EstimateInDays:           estimate.NewFixed(days),
		PriceInRubles:            estimate.NewFixed(days.Mul(dailyCost)),
		CreatedAt:                f.CreatedAt,
		LastUpdatedAt:            f.UpdatedAt,
	}
}

type RateOutput struct {
	ID            uuid.UUID      `json:"id"`
	Position      string         `json:"position"`
	RublesPerHour estimate.Fixed `json:"rubles_per_hour" swaggertype:"string" example:"1600.00"`
}

func newRateOutput(r *model.Rate) *RateOutput {
	return &RateOutput{ID: r.ID, Position: r.Position, RublesPerHour: estimate.NewFixed(r.RublesPerHour)}
}

type TeamMemberOutput struct {
	ID                  uuid.UUID      `json:"id"`
	Position            string         `json:"position"`
	NumberOfTeamMembers estimate.Fixed `json:"number_of_team_members" swaggertype:"string" example:"0.25"`
}

func newTeamMemberOutput(t *model.TeamMember) *TeamMemberOutput {
	return &TeamMemberOutput{ID: t.ID, Position: t.Position, NumberOfTeamMembers: estimate.NewFixed(t.NumberOfTeamMembers)}
}

type UserOutput struct {
	ID            uuid.UUID `json:"id"`
	Login         string    `json:"login"`
	Email         string    `json:"email"`
	CreatedAt     time.Time `json:"created_at"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}

func newUserOutput(u *model.User) *UserOutput {
	return &UserOutput{ID: u.ID, Login: u.Login, Email: u.Email, CreatedAt: u.CreatedAt, LastUpdatedAt: u.UpdatedAt}
}
