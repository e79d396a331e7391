package bed

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrVersionConflict is returned by UpdateStatusCAS when the bed row changed
// since it was read. Callers reload the bed and retry or surface Conflict.
var ErrVersionConflict = errors.New("bed version conflict")

type Repository interface {
	Create(ctx context.Context, b *Bed) error
	GetByID(ctx context.Context, id uuid.UUID) (*Bed, error)
	List(ctx context.Context, limit, offset int) ([]*Bed, int, error)
	ListByWard(ctx context.Context, wardID uuid.UUID, limit, offset int) ([]*Bed, int, error)
	// UpdateStatusCAS sets the status (and notes, when non-nil) of the bed
	// iff its version still equals expectedVersion, bumping the version.
	// Returns ErrVersionConflict when the row was changed concurrently.
	UpdateStatusCAS(ctx context.Context, id uuid.UUID, expectedVersion int, status Status, notes *string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
