// Package store provides the run session cache. Implementations enforce the
// TTL themselves; callers never see an expired run.
package store

import (
	"context"

	"dedupe/internal/run/models"
	"dedupe/pkg/domain"
	dErrors "dedupe/pkg/domain-errors"
)

// ErrNotFound covers both unknown and expired runs so the two are
// indistinguishable to callers.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "run not found")

// Store is interface-driven so the in-memory and Redis implementations swap
// without rewiring services.
type Store interface {
	Save(ctx context.Context, run *models.Run) error
	Find(ctx context.Context, id domain.RunID) (*models.Run, error)
	MarkPaid(ctx context.Context, id domain.RunID) error
	Delete(ctx context.Context, id domain.RunID) error
}
