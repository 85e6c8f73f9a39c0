package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projcalc/estimator/internal/modules/model"
	"github.com/projcalc/estimator/internal/modules/repo/repotest"
)

func TestProjectService_CreateSeedsRatesAndTeam(t *testing.T) {
	f := newFixture(t)
	p := f.project()

	assert.Equal(t, "0.00", p.EstimateInDays.String())
	assert.Equal(t, "0.00", p.PriceInRubles.String())
	assert.Equal(t, f.owner.ID, p.CreatorID)

	rates, err := f.rates.List(f.ctx, f.owner.ID, p.ID)
	require.NoError(t, err)
	require.Len(t, rates, 2)
	byPosition := map[string]string{}
	for _, r := range rates {
		byPosition[r.Position] = r.RublesPerHour.String()
	}
	assert.Equal(t, map[string]string{"REGULAR_DEVELOPER": "1600.00", "QA_ENGINEER": "2000.00"}, byPosition)

	team, err := f.team.List(f.ctx, f.owner.ID, p.ID)
	require.NoError(t, err)
	require.Len(t, team, 1)
	assert.Equal(t, "REGULAR_DEVELOPER", team[0].Position)
	assert.Equal(t, "1.00", team[0].NumberOfTeamMembers.String())
}

func TestProjectService_CreateValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		fields  ProjectFields
		wantErr error
		field   string
	}{
		{"blank title", ProjectFields{Title: "", Description: "d", Client: "c"}, ErrBlankField, "title"},
		{"blank description", ProjectFields{Title: "t", Description: "  ", Client: "c"}, ErrBlankField, "description"},
		{"blank client", ProjectFields{Title: "t", Description: "d", Client: ""}, ErrBlankField, "client"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.projects.Create(f.ctx, CreateProjectInput{UserID: f.owner.ID, ProjectFields: tt.fields})
			require.ErrorIs(t, err, tt.wantErr)
			var se *Error
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.field, se.Field)
		})
	}

	_, err := f.projects.Create(f.ctx, CreateProjectInput{
		UserID:        uuid.New(),
		ProjectFields: ProjectFields{Title: "t", Description: "d", Client: "c"},
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestProjectService_ListOnlyOwnProjects(t *testing.T) {
	f := newFixture(t)
	first := f.project()
	second := f.project()
	f.feature(second.ID, nil, estimates("2", "4", "8"))

	other := repotest.SeedUser(t, f.db, "other")
	repotest.SeedProject(t, f.db, other.ID)

	list, err := f.projects.List(f.ctx, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	prices := map[uuid.UUID]string{}
	for _, p := range list {
		prices[p.ID] = p.PriceInRubles.String()
	}
	assert.Equal(t, "0.00", prices[first.ID])
	assert.Equal(t, "55424.00", prices[second.ID])
}

func TestProjectService_UpdateKeepsEstimate(t *testing.T) {
	f := newFixture(t)
	p := f.project()
	f.feature(p.ID, nil, estimates("1", "1", "1"))

	later := testNow.Add(48 * time.Hour)
	f.deps.Now = func() time.Time { return later }
	projects := NewProjectService(f.deps)

	out, err := projects.Update(f.ctx, UpdateProjectInput{
		UserID:        f.owner.ID,
		ProjectID:     p.ID,
		ProjectFields: ProjectFields{Title: "Renamed", Description: "d", Client: "Globex"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", out.Title)
	assert.Equal(t, "Globex", out.Client)
	assert.Equal(t, "1.00", out.EstimateInDays.String())
	assert.Equal(t, later, out.LastUpdatedAt.UTC())

	_, err = projects.Update(f.ctx, UpdateProjectInput{
		UserID:        uuid.New(),
		ProjectID:     p.ID,
		ProjectFields: ProjectFields{Title: "x", Description: "d", Client: "c"},
	})
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestProjectService_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	p := f.project()
	a := f.milestone(p.ID, "A")
	f.feature(p.ID, &a.ID, estimates("1", "1", "1"))

	assert.ErrorIs(t, f.projects.Delete(f.ctx, uuid.New(), p.ID), ErrProjectNotFound)
	require.NoError(t, f.projects.Delete(f.ctx, f.owner.ID, p.ID))

	_, err := f.projects.Get(f.ctx, f.owner.ID, p.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	for _, m := range []any{&model.Milestone{}, &model.Feature{}, &model.Rate{}, &model.TeamMember{}} {
		var count int64
		require.NoError(t, f.db.Model(m).Where("project_id = ?", p.ID).Count(&count).Error)
		assert.Zero(t, count, "%T rows left behind", m)
	}
}

func TestProjectService_AuditDetectsDrift(t *testing.T) {
	f := newFixture(t)
	p := f.project()
	a := f.milestone(p.ID, "A")
	f.feature(p.ID, &a.ID, estimates("2", "4", "8"))

	report, err := f.projects.Audit(f.ctx, f.owner.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	require.Len(t, report.Entries, 2)

	require.NoError(t, f.db.Model(&model.Project{}).Where("id = ?", p.ID).
		Update("estimate_in_days", dec("9")).Error)

	report, err = f.projects.Audit(f.ctx, f.owner.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, report.Consistent)
	project := report.Entries[0]
	assert.Equal(t, "project", project.Kind)
	assert.Equal(t, "9.00", project.Stored.String())
	assert.Equal(t, "4.33", project.Recomputed.String())
	assert.False(t, project.Consistent)
	assert.True(t, report.Entries[1].Consistent)

	_, err = f.projects.Audit(f.ctx, uuid.New(), p.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}
