package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/projcalc/estimator/internal/modules/model"
)

// ownedProject loads a project for reading. Projects of other users are
// reported as missing.
func ownedProject(ctx context.Context, deps BaseDeps, userID, projectID uuid.UUID) (*model.Project, error) {
	p, err := deps.Store.Projects().Get(ctx, projectID)
	if err != nil {
		return nil, notFound("project.get", err, ErrProjectNotFound)
	}
	if p.CreatorID != userID {
		return nil, ErrProjectNotFound
	}
	return p, nil
}
