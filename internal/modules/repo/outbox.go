package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/projcalc/estimator/internal/modules/model"
	"gorm.io/gorm"
)

type OutboxRepo interface {
	// Insert must run in the transaction of the change the event describes.
	Insert(ctx context.Context, e *model.OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

type outboxRepo struct{ db *gorm.DB }

func NewOutboxRepo(db *gorm.DB) OutboxRepo { return &outboxRepo{db: db} }

func (r *outboxRepo) Insert(ctx context.Context, e *model.OutboxEvent) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *outboxRepo) ListPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	q := r.db.WithContext(ctx).
		Where("status IN ?", []string{model.OutboxStatusPending, model.OutboxStatusFailed}).
		Order("created_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var list []*model.OutboxEvent
	return list, q.Find(&list).Error
}

func (r *outboxRepo) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": model.OutboxStatusSent, "sent_at": at, "last_error": ""}).Error
}

func (r *outboxRepo) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return r.db.WithContext(ctx).
		Model(&model.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      model.OutboxStatusFailed,
			"retry_count": gorm.Expr("retry_count + 1"),
			"last_error":  reason,
		}).Error
}
