package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/projcalc/estimator/internal/modules/model"
	"github.com/projcalc/estimator/internal/modules/repo"
	"github.com/projcalc/estimator/internal/modules/repo/repotest"
	"github.com/projcalc/estimator/internal/pkg/pricing"
)

const testCatalog = `
positions:
  - name: REGULAR_DEVELOPER
    default_rate: "1600"
  - name: QA_ENGINEER
    default_rate: "2000"
default_team:
  - position: REGULAR_DEVELOPER
    involvement: "1"
`

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type recordingHooks struct {
	mu        sync.Mutex
	ops       map[string][]string
	conflicts map[string]int
}

func newRecordingHooks() *recordingHooks {
	return &recordingHooks{ops: map[string][]string{}, conflicts: map[string]int{}}
}

func (h *recordingHooks) ObserveOperation(_ context.Context, op, status string, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ops[op] = append(h.ops[op], status)
}

func (h *recordingHooks) IncConflict(_ context.Context, op string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conflicts[op]++
}

type fixture struct {
	t     *testing.T
	ctx   context.Context
	db    *gorm.DB
	deps  BaseDeps
	hooks *recordingHooks

	projects   ProjectService
	milestones MilestoneService
	features   FeatureService
	rates      RateService
	team       TeamMemberService

	owner *model.User
}

func newFixture(t *testing.T, opts ...func(*BaseDeps)) *fixture {
	t.Helper()
	return newFixtureOn(t, repotest.SQLite(t), opts...)
}

// newFixtureOn wires the services to db, which must already be migrated.
func newFixtureOn(t *testing.T, db *gorm.DB, opts ...func(*BaseDeps)) *fixture {
	t.Helper()
	catalog, err := pricing.ParseCatalog([]byte(testCatalog))
	require.NoError(t, err)

	hooks := newRecordingHooks()
	deps := BaseDeps{
		Store: repo.NewStore(db),
		Log:   zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel)),
		Calc:  pricing.NewCalculator(catalog),
		Now:   func() time.Time { return testNow },
		Hooks: hooks,
	}
	for _, o := range opts {
		o(&deps)
	}
	return &fixture{
		t:          t,
		ctx:        context.Background(),
		db:         db,
		deps:       deps,
		hooks:      hooks,
		projects:   NewProjectService(deps),
		milestones: NewMilestoneService(deps),
		features:   NewFeatureService(deps),
		rates:      NewRateService(deps),
		team:       NewTeamMemberService(deps),
		owner:      repotest.SeedUser(t, db, "owner"),
	}
}

func (f *fixture) project() *ProjectOutput {
	f.t.Helper()
	p, err := f.projects.Create(f.ctx, CreateProjectInput{
		UserID:        f.owner.ID,
		ProjectFields: ProjectFields{Title: "Billing", Description: "Self-service billing", Client: "ACME"},
	})
	require.NoError(f.t, err)
	return p
}

func (f *fixture) milestone(projectID uuid.UUID, title string) *MilestoneOutput {
	f.t.Helper()
	m, err := f.milestones.Create(f.ctx, CreateMilestoneInput{
		UserID:          f.owner.ID,
		ProjectID:       projectID,
		MilestoneFields: MilestoneFields{Title: title, Description: title + " scope"},
	})
	require.NoError(f.t, err)
	return m
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func estimates(best, likely, worst string) FeatureFields {
	return FeatureFields{
		Title:                    "Feature",
		Description:              "Something to build",
		BestCaseEstimateInDays:   dec(best),
		MostLikelyEstimateInDays: dec(likely),
		WorstCaseEstimateInDays:  dec(worst),
	}
}

func (f *fixture) feature(projectID uuid.UUID, milestoneID *uuid.UUID, fields FeatureFields) *FeatureOutput {
	f.t.Helper()
	out, err := f.features.Create(f.ctx, CreateFeatureInput{
		UserID:        f.owner.ID,
		ProjectID:     projectID,
		MilestoneID:   milestoneID,
		FeatureFields: fields,
	})
	require.NoError(f.t, err)
	return out
}

// stored reads the persisted running totals straight from the database.
func (f *fixture) storedProjectEstimate(projectID uuid.UUID) string {
	f.t.Helper()
	var p model.Project
	require.NoError(f.t, f.db.First(&p, "id = ?", projectID).Error)
	return p.EstimateInDays.StringFixed(2)
}

func (f *fixture) storedMilestoneEstimate(milestoneID uuid.UUID) string {
	f.t.Helper()
	var m model.Milestone
	require.NoError(f.t, f.db.First(&m, "id = ?", milestoneID).Error)
	return m.EstimateInDays.StringFixed(2)
}

func ptr[T any](v T) *T { return &v }
