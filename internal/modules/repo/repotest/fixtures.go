package repotest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/projcalc/estimator/internal/modules/model"
)

// SeedUser inserts a user with a placeholder password hash.
func SeedUser(tb testing.TB, db *gorm.DB, login string) *model.User {
	tb.Helper()
	now := time.Now().UTC()
	u := &model.User{
		Login:        login + "-" + uuid.NewString()[:8],
		PasswordHash: "x",
		Email:        login + "@example.com",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedProject inserts an empty project owned by creator.
func SeedProject(tb testing.TB, db *gorm.DB, creator uuid.UUID) *model.Project {
	tb.Helper()
	now := time.Now().UTC()
	p := &model.Project{
		Title:          "Project",
		Description:    "desc",
		Client:         "client",
		CreatorID:      creator,
		EstimateInDays: decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := db.Create(p).Error; err != nil {
		tb.Fatalf("seed project: %v", err)
	}
	return p
}
