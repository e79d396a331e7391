package bedaudit

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Append writes one entry. It must be called inside the transaction
	// that performs the bed mutation the entry describes; there is no
	// standalone write path.
	Append(ctx context.Context, e *Entry) error
	ListByBed(ctx context.Context, bedID uuid.UUID, limit, offset int) ([]*View, int, error)
}
