package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/projcalc/estimator/internal/modules/model"
	"gorm.io/gorm"
)

type RateRepo interface {
	CreateBatch(ctx context.Context, rates []*model.Rate) error
	Get(ctx context.Context, projectID, id uuid.UUID) (*model.Rate, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Rate, error)
	Update(ctx context.Context, r *model.Rate) error
}

type rateRepo struct{ db *gorm.DB }

func NewRateRepo(db *gorm.DB) RateRepo { return &rateRepo{db: db} }

func (r *rateRepo) CreateBatch(ctx context.Context, rates []*model.Rate) error {
	if len(rates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rates).Error
}

func (r *rateRepo) Get(ctx context.Context, projectID, id uuid.UUID) (*model.Rate, error) {
	var rt model.Rate
	if err := r.db.WithContext(ctx).Where("id = ? AND project_id = ?", id, projectID).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *rateRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Rate, error) {
	var list []*model.Rate
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at ASC, id ASC").Find(&list).Error
	return list, err
}

func (r *rateRepo) Update(ctx context.Context, rt *model.Rate) error {
	return r.db.WithContext(ctx).Model(rt).Select("rubles_per_hour", "updated_at").Updates(rt).Error
}
