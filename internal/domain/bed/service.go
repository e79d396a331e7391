package bed

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/wardops/wardops/internal/domain/bedaudit"
	"github.com/wardops/wardops/internal/platform/apperror"
	"github.com/wardops/wardops/internal/platform/db"
)

// maxTransitionRetries bounds the optimistic retry loop on a lost race.
const maxTransitionRetries = 3

// WardDirectory resolves ward display data and existence.
type WardDirectory interface {
	Info(ctx context.Context, id uuid.UUID) (number, departmentName string, err error)
}

// ActiveStayChecker reports whether a bed has an active hospitalization.
type ActiveStayChecker interface {
	HasActiveForBed(ctx context.Context, bedID uuid.UUID) (bool, error)
}

type Service struct {
	repo  Repository
	audit bedaudit.Repository
	wards WardDirectory
	stays ActiveStayChecker
	tx    db.TxRunner
}

func NewService(repo Repository, audit bedaudit.Repository, wards WardDirectory, stays ActiveStayChecker, tx db.TxRunner) *Service {
	return &Service{repo: repo, audit: audit, wards: wards, stays: stays, tx: tx}
}

// Create registers a bed. A non-Available starting status is itself a
// transition and gets one audit entry in the same unit as the insert.
func (s *Service) Create(ctx context.Context, b *Bed) error {
	fields := map[string]string{}
	if b.WardID == uuid.Nil {
		fields["ward_id"] = "is required"
	}
	if b.Number == "" {
		fields["number"] = "is required"
	}
	if len(fields) > 0 {
		return apperror.Validation(fields)
	}
	if b.Status == "" {
		b.Status = StatusAvailable
	}

	tr, err := Compute("", b.Status, CauseInitialCreate)
	if err != nil {
		return err
	}
	if _, _, err := s.wards.Info(ctx, b.WardID); err != nil {
		return err
	}

	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, b); err != nil {
			return err
		}
		if tr.NoOp {
			return nil
		}
		return s.audit.Append(ctx, s.newEntry(ctx, b.ID, tr, nil))
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Bed, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Bed, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByWard(ctx context.Context, wardID uuid.UUID, limit, offset int) ([]*Bed, int, error) {
	return s.repo.ListByWard(ctx, wardID, limit, offset)
}

// ChangeStatus applies a manual status change. The read-validate-write cycle
// retries on a lost optimistic race; exhausting the retries surfaces
// Conflict rather than overwriting a concurrent transition.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, requested Status, notes *string) (*Bed, error) {
	for attempt := 0; attempt < maxTransitionRetries; attempt++ {
		b, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		tr, err := Compute(b.Status, requested, CauseManualChange)
		if err != nil {
			return nil, err
		}
		if tr.NoOp {
			return b, nil
		}

		err = s.tx.InTx(ctx, func(ctx context.Context) error {
			if err := s.repo.UpdateStatusCAS(ctx, b.ID, b.Version, tr.NewStatus, notes); err != nil {
				return err
			}
			return s.audit.Append(ctx, s.newEntry(ctx, b.ID, tr, nil))
		})
		if errors.Is(err, ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		b.Status = tr.NewStatus
		b.Version++
		if notes != nil {
			b.Notes = notes
		}
		return b, nil
	}
	return nil, apperror.Conflict("bed was changed concurrently, retry the operation")
}

// Delete removes a bed unless an active hospitalization still references it.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	active, err := s.stays.HasActiveForBed(ctx, id)
	if err != nil {
		return err
	}
	if active {
		return apperror.Conflict("bed has an active hospitalization and cannot be deleted")
	}
	return s.repo.Delete(ctx, id)
}

// ToView resolves ward display data for a bed.
func (s *Service) ToView(ctx context.Context, b *Bed) (*View, error) {
	wardNumber, _, err := s.wards.Info(ctx, b.WardID)
	if err != nil {
		return nil, err
	}
	return &View{
		ID:         b.ID,
		WardID:     b.WardID,
		WardNumber: wardNumber,
		BedNumber:  b.Number,
		Status:     b.Status,
		Notes:      b.Notes,
	}, nil
}

func (s *Service) newEntry(ctx context.Context, bedID uuid.UUID, tr Transition, patientID *uuid.UUID) *bedaudit.Entry {
	return bedaudit.NewEntry(ctx, bedID, string(tr.EventKind), tr.Description, patientID)
}
