package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Project is the aggregate root. EstimateInDays is the running sum of the
// estimates of its live features and is only written through the ledger.
type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Client      string    `gorm:"type:text;not null" json:"client"`
	CreatorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"creator_id"`

	EstimateInDays decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"estimate_in_days"`
	// PricingVersion changes with every rate or team write and scopes the
	// cached daily cost.
	PricingVersion int64 `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false;not null" json:"last_updated_at"`

	// Project <-> children
	Milestones  []Milestone  `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
	Features    []Feature    `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
	Rates       []Rate       `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
	TeamMembers []TeamMember `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}
