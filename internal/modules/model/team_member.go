package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TeamMember states how many people of a position work on the project.
// Fractions are allowed: 0.25 is a quarter of one person's time.
type TeamMember struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_team_members_project_position,priority:1" json:"project_id"`
	Position            string          `gorm:"type:text;not null;uniqueIndex:idx_team_members_project_position,priority:2" json:"position"`
	NumberOfTeamMembers decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"number_of_team_members"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false;not null" json:"last_updated_at"`
}

func (TeamMember) TableName() string { return "team_members" }

func (t *TeamMember) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.ID)
	return nil
}
