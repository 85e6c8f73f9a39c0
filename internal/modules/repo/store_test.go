package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/projcalc/estimator/internal/modules/model"
	"github.com/projcalc/estimator/internal/modules/repo/repotest"
)

func TestStore_InTxRollsBack(t *testing.T) {
	db := repotest.SQLite(t)
	st := NewStore(db)
	ctx := context.Background()
	user := repotest.SeedUser(t, db, "owner")
	project := repotest.SeedProject(t, db, user.ID)

	boom := errors.New("boom")
	err := st.InTx(ctx, func(tx Store) error {
		p, err := tx.Projects().GetForUpdate(ctx, project.ID)
		require.NoError(t, err)
		p.EstimateInDays = decimal.NewFromInt(42)
		require.NoError(t, tx.Projects().Update(ctx, p))
		require.NoError(t, tx.Milestones().Create(ctx, &model.Milestone{ProjectID: project.ID, Title: "m", Description: "d", UpdatedAt: time.Now()}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := st.Projects().Get(ctx, project.ID)
	require.NoError(t, err)
	assert.True(t, got.EstimateInDays.IsZero())

	ms, err := st.Milestones().ListByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, ms)
}

func TestProjectRepo_DeleteRemovesChildren(t *testing.T) {
	db := repotest.SQLite(t)
	st := NewStore(db)
	ctx := context.Background()
	user := repotest.SeedUser(t, db, "owner")
	project := repotest.SeedProject(t, db, user.ID)
	other := repotest.SeedProject(t, db, user.ID)

	m := &model.Milestone{ProjectID: project.ID, Title: "m", Description: "d", UpdatedAt: time.Now()}
	require.NoError(t, st.Milestones().Create(ctx, m))
	require.NoError(t, st.Features().Create(ctx, &model.Feature{ProjectID: project.ID, MilestoneID: &m.ID, Title: "f", Description: "d"}))
	require.NoError(t, st.Features().Create(ctx, &model.Feature{ProjectID: other.ID, Title: "keep", Description: "d"}))
	require.NoError(t, st.Rates().CreateBatch(ctx, []*model.Rate{{ProjectID: project.ID, Position: "A", RublesPerHour: decimal.NewFromInt(10)}}))
	require.NoError(t, st.TeamMembers().Create(ctx, &model.TeamMember{ProjectID: project.ID, Position: "A", NumberOfTeamMembers: decimal.NewFromInt(1)}))

	require.NoError(t, st.InTx(ctx, func(tx Store) error {
		return tx.Projects().Delete(ctx, project.ID)
	}))

	_, err := st.Projects().Get(ctx, project.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	features, err := st.Features().ListByProject(ctx, project.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, features)
	rates, err := st.Rates().ListByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, rates)
	members, err := st.TeamMembers().ListByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, members)

	kept, err := st.Features().ListByProject(ctx, other.ID, nil)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestFeatureRepo_ListAndDetach(t *testing.T) {
	db := repotest.SQLite(t)
	st := NewStore(db)
	ctx := context.Background()
	user := repotest.SeedUser(t, db, "owner")
	project := repotest.SeedProject(t, db, user.ID)

	m := &model.Milestone{ProjectID: project.ID, Title: "m", Description: "d", UpdatedAt: time.Now()}
	require.NoError(t, st.Milestones().Create(ctx, m))
	for i := 0; i < 3; i++ {
		f := &model.Feature{ProjectID: project.ID, Title: "f", Description: "d"}
		if i < 2 {
			f.MilestoneID = &m.ID
		}
		require.NoError(t, st.Features().Create(ctx, f))
	}

	inMilestone, err := st.Features().ListByProject(ctx, project.ID, &m.ID)
	require.NoError(t, err)
	assert.Len(t, inMilestone, 2)

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	n, err := st.Features().DetachMilestone(ctx, project.ID, m.ID, at)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	inMilestone, err = st.Features().ListByProject(ctx, project.ID, &m.ID)
	require.NoError(t, err)
	assert.Empty(t, inMilestone)

	all, err := st.Features().ListByProject(ctx, project.ID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	stamped := 0
	for _, f := range all {
		assert.Nil(t, f.MilestoneID)
		if f.UpdatedAt.Equal(at) {
			stamped++
		}
	}
	assert.Equal(t, 2, stamped, "only detached features carry the given timestamp")
}

func TestScopedGetsRejectForeignProject(t *testing.T) {
	db := repotest.SQLite(t)
	st := NewStore(db)
	ctx := context.Background()
	user := repotest.SeedUser(t, db, "owner")
	a := repotest.SeedProject(t, db, user.ID)
	b := repotest.SeedProject(t, db, user.ID)

	m := &model.Milestone{ProjectID: a.ID, Title: "m", Description: "d", UpdatedAt: time.Now()}
	require.NoError(t, st.Milestones().Create(ctx, m))

	_, err := st.Milestones().Get(ctx, b.ID, m.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = st.Milestones().GetForUpdate(ctx, b.ID, m.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = st.Milestones().Get(ctx, a.ID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTeamMemberRepo_FindByPosition(t *testing.T) {
	db := repotest.SQLite(t)
	st := NewStore(db)
	ctx := context.Background()
	user := repotest.SeedUser(t, db, "owner")
	project := repotest.SeedProject(t, db, user.ID)

	got, err := st.TeamMembers().FindByPosition(ctx, project.ID, "ARCHITECT")
	require.NoError(t, err)
	assert.Nil(t, got)

	tm := &model.TeamMember{ProjectID: project.ID, Position: "ARCHITECT", NumberOfTeamMembers: decimal.RequireFromString("0.5")}
	require.NoError(t, st.TeamMembers().Create(ctx, tm))

	got, err = st.TeamMembers().FindByPosition(ctx, project.ID, "ARCHITECT")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, tm.ID, got.ID)
	assert.Equal(t, "0.50", got.NumberOfTeamMembers.StringFixed(2))

	// second row for the same position violates the unique index
	err = st.TeamMembers().Create(ctx, &model.TeamMember{ProjectID: project.ID, Position: "ARCHITECT", NumberOfTeamMembers: decimal.NewFromInt(1)})
	assert.Error(t, err)
}

func TestOutboxRepo_Lifecycle(t *testing.T) {
	db := repotest.SQLite(t)
	st := NewStore(db)
	ctx := context.Background()

	e := &model.OutboxEvent{
		AggregateType: "project",
		AggregateID:   uuid.New(),
		EventType:     "feature.created",
		RoutingKey:    "estimate.changed",
		Payload:       []byte(`{"estimate_in_days":"4.33"}`),
	}
	require.NoError(t, st.Outbox().Insert(ctx, e))
	assert.Equal(t, model.OutboxStatusPending, e.Status)

	pending, err := st.Outbox().ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, st.Outbox().MarkFailed(ctx, e.ID, "broker down"))
	pending, err = st.Outbox().ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].RetryCount)
	assert.Equal(t, "broker down", pending[0].LastError)

	require.NoError(t, st.Outbox().MarkSent(ctx, e.ID, time.Now()))
	pending, err = st.Outbox().ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestProjectRepo_GetForUpdateBlocksSecondLocker(t *testing.T) {
	db := repotest.Postgres(t)
	st := NewStore(db)
	ctx := context.Background()
	user := repotest.SeedUser(t, db, "locker")
	project := repotest.SeedProject(t, db, user.ID)
	t.Cleanup(func() { _ = st.InTx(ctx, func(tx Store) error { return tx.Projects().Delete(ctx, project.ID) }) })

	locked := make(chan struct{})
	release := make(chan struct{})
	first := make(chan error, 1)
	go func() {
		first <- st.InTx(ctx, func(tx Store) error {
			if _, err := tx.Projects().GetForUpdate(ctx, project.ID); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	acquired := make(chan error, 1)
	go func() {
		acquired <- st.InTx(ctx, func(tx Store) error {
			_, err := tx.Projects().GetForUpdate(ctx, project.ID)
			return err
		})
	}()

	select {
	case err := <-acquired:
		t.Fatalf("second locker got the row while the first still held it (err=%v)", err)
	case <-time.After(300 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-first)
	select {
	case err := <-acquired:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("second locker never got the row")
	}
}
