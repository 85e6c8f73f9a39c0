package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/projcalc/estimator/internal/modules/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MilestoneRepo interface {
	Create(ctx context.Context, m *model.Milestone) error
	// Get and GetForUpdate only find milestones of the given project.
	Get(ctx context.Context, projectID, id uuid.UUID) (*model.Milestone, error)
	GetForUpdate(ctx context.Context, projectID, id uuid.UUID) (*model.Milestone, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Milestone, error)
	Update(ctx context.Context, m *model.Milestone) error
	Delete(ctx context.Context, projectID, id uuid.UUID) error
}

type milestoneRepo struct{ db *gorm.DB }

func NewMilestoneRepo(db *gorm.DB) MilestoneRepo { return &milestoneRepo{db: db} }

func (r *milestoneRepo) Create(ctx context.Context, m *model.Milestone) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *milestoneRepo) Get(ctx context.Context, projectID, id uuid.UUID) (*model.Milestone, error) {
	var m model.Milestone
	if err := r.db.WithContext(ctx).Where("id = ? AND project_id = ?", id, projectID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *milestoneRepo) GetForUpdate(ctx context.Context, projectID, id uuid.UUID) (*model.Milestone, error) {
	var m model.Milestone
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND project_id = ?", id, projectID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *milestoneRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Milestone, error) {
	var list []*model.Milestone
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *milestoneRepo) Update(ctx context.Context, m *model.Milestone) error {
	return r.db.WithContext(ctx).
		Model(m).
		Select("title", "description", "start_at", "end_at", "estimate_in_days", "updated_at").
		Updates(m).Error
}

func (r *milestoneRepo) Delete(ctx context.Context, projectID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ? AND project_id = ?", id, projectID).Delete(&model.Milestone{}).Error
}
