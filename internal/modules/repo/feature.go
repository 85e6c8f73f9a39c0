package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/projcalc/estimator/internal/modules/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeatureRepo interface {
	Create(ctx context.Context, f *model.Feature) error
	Get(ctx context.Context, projectID, id uuid.UUID) (*model.Feature, error)
	GetForUpdate(ctx context.Context, projectID, id uuid.UUID) (*model.Feature, error)
	// ListByProject returns every feature of the project, or only those of
	// one milestone when milestoneID is set.
	ListByProject(ctx context.Context, projectID uuid.UUID, milestoneID *uuid.UUID) ([]*model.Feature, error)
	Update(ctx context.Context, f *model.Feature) error
	Delete(ctx context.Context, projectID, id uuid.UUID) error
	// DetachMilestone clears the milestone reference of every feature
	// assigned to it, stamps them with at and returns how many rows changed.
	DetachMilestone(ctx context.Context, projectID, milestoneID uuid.UUID, at time.Time) (int64, error)
}

type featureRepo struct{ db *gorm.DB }

func NewFeatureRepo(db *gorm.DB) FeatureRepo { return &featureRepo{db: db} }

func (r *featureRepo) Create(ctx context.Context, f *model.Feature) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *featureRepo) Get(ctx context.Context, projectID, id uuid.UUID) (*model.Feature, error) {
	var f model.Feature
	if err := r.db.WithContext(ctx).Where("id = ? AND project_id = ?", id, projectID).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *featureRepo) GetForUpdate(ctx context.Context, projectID, id uuid.UUID) (*model.Feature, error) {
	var f model.Feature
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND project_id = ?", id, projectID).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *featureRepo) ListByProject(ctx context.Context, projectID uuid.UUID, milestoneID *uuid.UUID) ([]*model.Feature, error) {
	q := r.db.WithContext(ctx).Where("project_id = ?", projectID)
	if milestoneID != nil {
		q = q.Where("milestone_id = ?", *milestoneID)
	}
	var list []*model.Feature
	err := q.Order("created_at ASC, id ASC").Find(&list).Error
	return list, err
}

func (r *featureRepo) Update(ctx context.Context, f *model.Feature) error {
	return r.db.WithContext(ctx).
		Model(f).
		Select("milestone_id", "title", "description",
			"best_case_estimate_in_days", "most_likely_estimate_in_days", "worst_case_estimate_in_days",
			"updated_at").
		Updates(f).Error
}

func (r *featureRepo) Delete(ctx context.Context, projectID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ? AND project_id = ?", id, projectID).Delete(&model.Feature{}).Error
}

func (r *featureRepo) DetachMilestone(ctx context.Context, projectID, milestoneID uuid.UUID, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Feature{}).
		Where("project_id = ? AND milestone_id = ?", projectID, milestoneID).
		Updates(map[string]any{"milestone_id": nil, "updated_at": at})
	return res.RowsAffected, res.Error
}
