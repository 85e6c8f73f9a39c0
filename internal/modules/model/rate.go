package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Rate is the hourly amount billed for one position on one project.
type Rate struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_rates_project_position,priority:1" json:"project_id"`
	Position      string          `gorm:"type:text;not null;uniqueIndex:idx_rates_project_position,priority:2" json:"position"`
	RublesPerHour decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"rubles_per_hour"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false;not null" json:"last_updated_at"`
}

func (Rate) TableName() string { return "rates" }

func (r *Rate) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}
