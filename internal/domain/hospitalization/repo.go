package hospitalization

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, h *Hospitalization) error
	GetByID(ctx context.Context, id uuid.UUID) (*Hospitalization, error)
	Update(ctx context.Context, h *Hospitalization) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetView(ctx context.Context, id uuid.UUID) (*View, error)
	ListViews(ctx context.Context, limit, offset int) ([]*View, int, error)
	ListViewsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*View, int, error)
	// HasActiveForBed reports whether an Active hospitalization references
	// the bed. Also serves as the bed deletion guard.
	HasActiveForBed(ctx context.Context, bedID uuid.UUID) (bool, error)
}
