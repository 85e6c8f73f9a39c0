package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/projcalc/estimator/internal/modules/model"
	"github.com/projcalc/estimator/internal/modules/repo"
	"github.com/projcalc/estimator/internal/pkg/estimate"
)

// AuditEntry compares a stored running total with the sum recomputed from
// the features it covers.
type AuditEntry struct {
	ID         uuid.UUID      `json:"id"`
	Kind       string         `json:"kind"`
	Stored     estimate.Fixed `json:"stored_estimate_in_days" swaggertype:"string"`
	Recomputed estimate.Fixed `json:"recomputed_estimate_in_days" swaggertype:"string"`
	Consistent bool           `json:"consistent"`
}

type AuditReport struct {
	ProjectID  uuid.UUID     `json:"project_id"`
	Consistent bool          `json:"consistent"`
	Entries    []*AuditEntry `json:"entries"`
}

func newAuditEntry(id uuid.UUID, kind string, stored, recomputed estimate.Fixed) *AuditEntry {
	return &AuditEntry{
		ID:         id,
		Kind:       kind,
		Stored:     stored,
		Recomputed: recomputed,
		Consistent: stored.Equal(recomputed.Decimal),
	}
}

// Audit recomputes every running total of the project from its features.
// Reads happen under the project lock so the snapshot is consistent.
func (s *projectService) Audit(ctx context.Context, userID, projectID uuid.UUID) (*AuditReport, error) {
	var report *AuditReport
	err := s.deps.Store.InTx(ctx, func(tx repo.Store) error {
		l, err := OpenLedger(ctx, tx, projectID, userID, s.deps.Now())
		if err != nil {
			return err
		}
		features, err := tx.Features().ListByProject(ctx, projectID, nil)
		if err != nil {
			return MapError("project.audit", err)
		}
		milestones, err := tx.Milestones().ListByProject(ctx, projectID)
		if err != nil {
			return MapError("project.audit", err)
		}
		report = buildAudit(l.Project(), milestones, features)
		return nil
	})
	if err != nil {
		return nil, MapError("project.audit", err)
	}
	if !report.Consistent {
		s.deps.Log.Error("running totals drifted", zap.String("project_id", projectID.String()))
	}
	return report, nil
}

func buildAudit(p *model.Project, milestones []*model.Milestone, features []*model.Feature) *AuditReport {
	byMilestone := make(map[uuid.UUID][]*model.Feature, len(milestones))
	for _, f := range features {
		if f.MilestoneID != nil {
			byMilestone[*f.MilestoneID] = append(byMilestone[*f.MilestoneID], f)
		}
	}

	report := &AuditReport{ProjectID: p.ID, Consistent: true}
	add := func(e *AuditEntry) {
		report.Entries = append(report.Entries, e)
		report.Consistent = report.Consistent && e.Consistent
	}
	add(newAuditEntry(p.ID, "project", estimate.NewFixed(p.EstimateInDays), estimate.NewFixed(sumEstimates(features))))
	for _, m := range milestones {
		add(newAuditEntry(m.ID, "milestone", estimate.NewFixed(m.EstimateInDays), estimate.NewFixed(sumEstimates(byMilestone[m.ID]))))
	}
	return report
}
