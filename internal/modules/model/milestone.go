package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Milestone struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	Title       string     `gorm:"type:text;not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	StartAt     *time.Time `json:"start_date_time,omitempty"`
	EndAt       *time.Time `json:"end_date_time,omitempty"`

	// sum of the estimates of features assigned to this milestone
	EstimateInDays decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"estimate_in_days"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false;not null" json:"last_updated_at"`
}

func (Milestone) TableName() string { return "milestones" }

func (m *Milestone) BeforeCreate(tx *gorm.DB) error {
	assignID(&m.ID)
	return nil
}
