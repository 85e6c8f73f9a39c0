package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/projcalc/estimator/internal/modules/model"
	"gorm.io/gorm"
)

type TeamMemberRepo interface {
	Create(ctx context.Context, t *model.TeamMember) error
	CreateBatch(ctx context.Context, members []*model.TeamMember) error
	Get(ctx context.Context, projectID, id uuid.UUID) (*model.TeamMember, error)
	// FindByPosition returns nil, nil when the position is not staffed.
	FindByPosition(ctx context.Context, projectID uuid.UUID, position string) (*model.TeamMember, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.TeamMember, error)
	Update(ctx context.Context, t *model.TeamMember) error
	Delete(ctx context.Context, projectID, id uuid.UUID) error
}

type teamMemberRepo struct{ db *gorm.DB }

func NewTeamMemberRepo(db *gorm.DB) TeamMemberRepo { return &teamMemberRepo{db: db} }

func (r *teamMemberRepo) Create(ctx context.Context, t *model.TeamMember) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *teamMemberRepo) CreateBatch(ctx context.Context, members []*model.TeamMember) error {
	if len(members) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&members).Error
}

func (r *teamMemberRepo) Get(ctx context.Context, projectID, id uuid.UUID) (*model.TeamMember, error) {
	var t model.TeamMember
	if err := r.db.WithContext(ctx).Where("id = ? AND project_id = ?", id, projectID).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *teamMemberRepo) FindByPosition(ctx context.Context, projectID uuid.UUID, position string) (*model.TeamMember, error) {
	var t model.TeamMember
	err := r.db.WithContext(ctx).Where("project_id = ? AND position = ?", projectID, position).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *teamMemberRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.TeamMember, error) {
	var list []*model.TeamMember
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at ASC, id ASC").Find(&list).Error
	return list, err
}

func (r *teamMemberRepo) Update(ctx context.Context, t *model.TeamMember) error {
	return r.db.WithContext(ctx).Model(t).Select("position", "number_of_team_members", "updated_at").Updates(t).Error
}

func (r *teamMemberRepo) Delete(ctx context.Context, projectID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ? AND project_id = ?", id, projectID).Delete(&model.TeamMember{}).Error
}
