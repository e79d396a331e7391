package bedaudit

import (
	"context"

	"github.com/google/uuid"
)

// Service exposes the read side of the occupancy audit log. Writes happen
// only through Repository.Append from within bed and hospitalization
// transactions.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListByBed returns the audit trail of a bed, newest first.
func (s *Service) ListByBed(ctx context.Context, bedID uuid.UUID, limit, offset int) ([]*View, int, error) {
	return s.repo.ListByBed(ctx, bedID, limit, offset)
}
