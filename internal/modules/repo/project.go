package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/projcalc/estimator/internal/modules/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *model.Project) error
	Get(ctx context.Context, id uuid.UUID) (*model.Project, error)
	// GetForUpdate loads the project holding a row lock until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*model.Project, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*model.Project, error)
	Update(ctx context.Context, p *model.Project) error
	// Delete removes the project and everything it owns. Call it inside a
	// transaction.
	Delete(ctx context.Context, id uuid.UUID) error
}

type projectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) ProjectRepo { return &projectRepo{db: db} }

func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *projectRepo) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var p model.Project
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*model.Project, error) {
	var list []*model.Project
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *projectRepo) Update(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).
		Model(p).
		Select("title", "description", "client", "estimate_in_days", "pricing_version", "updated_at").
		Updates(p).Error
}

func (r *projectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	// children first; no reliance on ON DELETE CASCADE being present
	for _, child := range []any{&model.Feature{}, &model.Milestone{}, &model.Rate{}, &model.TeamMember{}} {
		if err := db.Where("project_id = ?", id).Delete(child).Error; err != nil {
			return err
		}
	}
	return db.Where("id = ?", id).Delete(&model.Project{}).Error
}
