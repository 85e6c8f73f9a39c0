package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/projcalc/estimator/internal/pkg/estimate"
)

// Feature carries the raw three-point estimate. Its day estimate is derived
// on demand and never stored.
type Feature struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	MilestoneID *uuid.UUID `gorm:"type:uuid;index" json:"milestone_id,omitempty"`
	Title       string     `gorm:"type:text;not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`

	BestCaseEstimateInDays   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"best_case_estimate_in_days"`
	MostLikelyEstimateInDays decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"most_likely_estimate_in_days"`
	WorstCaseEstimateInDays  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"worst_case_estimate_in_days"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false;not null" json:"last_updated_at"`

	// Feature <-> Milestone, cleared when the milestone goes away
	Milestone *Milestone `gorm:"foreignKey:MilestoneID;references:ID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE;" json:"-"`
}

func (Feature) TableName() string { return "features" }

func (f *Feature) BeforeCreate(tx *gorm.DB) error {
	assignID(&f.ID)
	return nil
}

func (f *Feature) Triple() estimate.Triple {
	return estimate.Triple{
		Best:       f.BestCaseEstimateInDays,
		MostLikely: f.MostLikelyEstimateInDays,
		WorstCase:  f.WorstCaseEstimateInDays,
	}
}

// EstimateInDays is the PERT estimate of the stored triple.
func (f *Feature) EstimateInDays() decimal.Decimal {
	return estimate.PERT(f.BestCaseEstimateInDays, f.MostLikelyEstimateInDays, f.WorstCaseEstimateInDays)
}
