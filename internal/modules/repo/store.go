package repo

import (
	"context"

	"gorm.io/gorm"
)

// Store hands out repos bound to one connection or one transaction. Repos
// obtained from the Store passed to InTx's callback all share that
// transaction.
type Store interface {
	Projects() ProjectRepo
	Milestones() MilestoneRepo
	Features() FeatureRepo
	Rates() RateRepo
	TeamMembers() TeamMemberRepo
	Users() UserRepo
	Outbox() OutboxRepo

	// InTx runs fn in a transaction. fn returning an error rolls back.
	InTx(ctx context.Context, fn func(tx Store) error) error
}

type store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) Store { return &store{db: db} }

func (s *store) Projects() ProjectRepo       { return NewProjectRepo(s.db) }
func (s *store) Milestones() MilestoneRepo   { return NewMilestoneRepo(s.db) }
func (s *store) Features() FeatureRepo       { return NewFeatureRepo(s.db) }
func (s *store) Rates() RateRepo             { return NewRateRepo(s.db) }
func (s *store) TeamMembers() TeamMemberRepo { return NewTeamMemberRepo(s.db) }
func (s *store) Users() UserRepo             { return NewUserRepo(s.db) }
func (s *store) Outbox() OutboxRepo          { return NewOutboxRepo(s.db) }

func (s *store) InTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}
