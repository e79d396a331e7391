package hospitalization

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/wardops/wardops/internal/domain/bed"
	"github.com/wardops/wardops/internal/domain/bedaudit"
	"github.com/wardops/wardops/internal/platform/apperror"
	"github.com/wardops/wardops/internal/platform/db"
)

// maxClaimRetries bounds the optimistic retry loop on a contested bed.
const maxClaimRetries = 3

// PatientDirectory resolves patient existence for admission.
type PatientDirectory interface {
	FullName(ctx context.Context, id uuid.UUID) (string, error)
}

// AdmitCommand creates a new Active hospitalization on an Available bed.
type AdmitCommand struct {
	PatientID          uuid.UUID  `json:"patient_id"`
	BedID              uuid.UUID  `json:"bed_id"`
	AdmittedAt         time.Time  `json:"admitted_at"`
	PlannedDischargeAt *time.Time `json:"planned_discharge_at"`
	AdmissionReason    *string    `json:"admission_reason"`
}

// UpdateCommand rewrites the mutable fields of a hospitalization. A changed
// bed reference is a reassignment; an Active to Discharged status change
// applies the discharge effect on the (possibly new) bed in the same unit.
type UpdateCommand struct {
	BedID              uuid.UUID  `json:"bed_id"`
	AdmittedAt         time.Time  `json:"admitted_at"`
	PlannedDischargeAt *time.Time `json:"planned_discharge_at"`
	DischargedAt       *time.Time `json:"discharged_at"`
	AdmissionReason    *string    `json:"admission_reason"`
	DischargeReason    *string    `json:"discharge_reason"`
	Status             Status     `json:"status"`
}

type DischargeCommand struct {
	DischargedAt    *time.Time `json:"discharged_at"`
	DischargeReason *string    `json:"discharge_reason"`
}

// Service orchestrates the hospitalization lifecycle. Every path that
// touches a bed goes through bed.Compute and commits the bed write, the
// hospitalization write and the audit entry as one transaction; a failed
// audit append rolls back the whole unit.
type Service struct {
	repo     Repository
	beds     bed.Repository
	audit    bedaudit.Repository
	patients PatientDirectory
	tx       db.TxRunner
}

func NewService(repo Repository, beds bed.Repository, audit bedaudit.Repository, patients PatientDirectory, tx db.TxRunner) *Service {
	return &Service{repo: repo, beds: beds, audit: audit, patients: patients, tx: tx}
}

// Admit places a patient on an Available bed and opens an Active
// hospitalization. Two admissions racing for the same bed are decided by the
// bed's version: the loser re-reads an Occupied bed and gets Conflict.
func (s *Service) Admit(ctx context.Context, cmd AdmitCommand) (*View, error) {
	fields := map[string]string{}
	if cmd.PatientID == uuid.Nil {
		fields["patient_id"] = "is required"
	}
	if cmd.BedID == uuid.Nil {
		fields["bed_id"] = "is required"
	}
	validateTimes(fields, cmd.AdmittedAt, cmd.PlannedDischargeAt, nil)
	if len(fields) > 0 {
		return nil, apperror.Validation(fields)
	}
	if _, err := s.patients.FullName(ctx, cmd.PatientID); err != nil {
		return nil, err
	}

	var h *Hospitalization
	err := s.withBedClaim(ctx, cmd.BedID, bed.CauseAdmission, func(ctx context.Context, b *bed.Bed, tr bed.Transition) error {
		h = &Hospitalization{
			PatientID:          cmd.PatientID,
			BedID:              cmd.BedID,
			AdmittedAt:         cmd.AdmittedAt,
			PlannedDischargeAt: cmd.PlannedDischargeAt,
			AdmissionReason:    cmd.AdmissionReason,
			Status:             StatusActive,
		}
		if err := s.repo.Create(ctx, h); err != nil {
			return err
		}
		return s.audit.Append(ctx, bedaudit.NewEntry(ctx, b.ID, string(tr.EventKind), tr.Description, &h.PatientID))
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetView(ctx, h.ID)
}

// Discharge closes an Active hospitalization and sends the bed to Cleaning.
func (s *Service) Discharge(ctx context.Context, id uuid.UUID, cmd DischargeCommand) (*View, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if h.Status != StatusActive {
		return nil, apperror.Conflict("hospitalization is already discharged")
	}

	when := time.Now()
	if cmd.DischargedAt != nil {
		when = *cmd.DischargedAt
	}
	if !when.After(h.AdmittedAt) {
		return nil, apperror.ValidationField("discharged_at", "must be after admission")
	}

	err = s.withBedClaim(ctx, h.BedID, bed.CauseDischarge, func(ctx context.Context, b *bed.Bed, tr bed.Transition) error {
		h.Status = StatusDischarged
		h.DischargedAt = &when
		if cmd.DischargeReason != nil {
			h.DischargeReason = cmd.DischargeReason
		}
		if err := s.repo.Update(ctx, h); err != nil {
			return err
		}
		return s.audit.Append(ctx, bedaudit.NewEntry(ctx, b.ID, string(tr.EventKind), tr.Description, &h.PatientID))
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetView(ctx, h.ID)
}

// Update rewrites a hospitalization's mutable fields, moving it to another
// bed and/or discharging it when the command says so.
func (s *Service) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*View, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	newStatus := h.Status
	if cmd.Status != "" {
		if cmd.Status != StatusActive && cmd.Status != StatusDischarged {
			fields["status"] = "must be Active or Discharged"
		} else {
			newStatus = cmd.Status
		}
	}
	validateTimes(fields, cmd.AdmittedAt, cmd.PlannedDischargeAt, cmd.DischargedAt)
	if cmd.DischargedAt != nil && newStatus == StatusActive {
		fields["discharged_at"] = "requires status Discharged"
	}
	if len(fields) > 0 {
		return nil, apperror.Validation(fields)
	}
	if h.Status == StatusDischarged && newStatus == StatusActive {
		return nil, apperror.Conflict("cannot reactivate a discharged hospitalization")
	}

	bedChanged := cmd.BedID != uuid.Nil && cmd.BedID != h.BedID
	if bedChanged && h.Status != StatusActive {
		return nil, apperror.Conflict("cannot move a discharged hospitalization")
	}
	discharging := h.Status == StatusActive && newStatus == StatusDischarged

	switch {
	case bedChanged:
		err = s.reassign(ctx, h, cmd, discharging)
	case discharging:
		err = s.withBedClaim(ctx, h.BedID, bed.CauseDischarge, func(ctx context.Context, b *bed.Bed, tr bed.Transition) error {
			applyUpdate(h, cmd, discharging)
			if err := s.repo.Update(ctx, h); err != nil {
				return err
			}
			return s.audit.Append(ctx, bedaudit.NewEntry(ctx, b.ID, string(tr.EventKind), tr.Description, &h.PatientID))
		})
	default:
		applyUpdate(h, cmd, false)
		err = s.repo.Update(ctx, h)
	}
	if err != nil {
		return nil, err
	}
	return s.repo.GetView(ctx, h.ID)
}

// reassign moves an Active hospitalization to another bed: the old bed is
// freed to Available, the new one claimed as an admission. The new bed is
// validated before either bed is touched, and both writes share one
// transaction.
func (s *Service) reassign(ctx context.Context, h *Hospitalization, cmd UpdateCommand, discharging bool) error {
	for attempt := 0; attempt < maxClaimRetries; attempt++ {
		newBed, err := s.beds.GetByID(ctx, cmd.BedID)
		if err != nil {
			return err
		}
		claimTr, err := bed.Compute(newBed.Status, "", bed.CauseAdmission)
		if err != nil {
			return err
		}
		oldBed, err := s.beds.GetByID(ctx, h.BedID)
		if err != nil {
			return err
		}
		releaseTr, err := bed.Compute(oldBed.Status, "", bed.CauseReassignRelease)
		if err != nil {
			return err
		}

		err = s.tx.InTx(ctx, func(ctx context.Context) error {
			if err := s.beds.UpdateStatusCAS(ctx, oldBed.ID, oldBed.Version, releaseTr.NewStatus, nil); err != nil {
				return err
			}
			if err := s.audit.Append(ctx, bedaudit.NewEntry(ctx, oldBed.ID, string(releaseTr.EventKind), releaseTr.Description, &h.PatientID)); err != nil {
				return err
			}
			if err := s.beds.UpdateStatusCAS(ctx, newBed.ID, newBed.Version, claimTr.NewStatus, nil); err != nil {
				return err
			}
			if err := s.audit.Append(ctx, bedaudit.NewEntry(ctx, newBed.ID, string(claimTr.EventKind), claimTr.Description, &h.PatientID)); err != nil {
				return err
			}
			if discharging {
				dischargeTr, err := bed.Compute(bed.StatusOccupied, "", bed.CauseDischarge)
				if err != nil {
					return err
				}
				if err := s.beds.UpdateStatusCAS(ctx, newBed.ID, newBed.Version+1, dischargeTr.NewStatus, nil); err != nil {
					return err
				}
				if err := s.audit.Append(ctx, bedaudit.NewEntry(ctx, newBed.ID, string(dischargeTr.EventKind), dischargeTr.Description, &h.PatientID)); err != nil {
					return err
				}
			}
			applyUpdate(h, cmd, discharging)
			return s.repo.Update(ctx, h)
		})
		if errors.Is(err, bed.ErrVersionConflict) {
			continue
		}
		return err
	}
	return apperror.Conflict("bed was changed concurrently, retry the operation")
}

// Delete removes a hospitalization record. Deleting an Active one first
// releases its bed to Available so no occupied bed is left orphaned.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if h.Status != StatusActive {
		return s.repo.Delete(ctx, id)
	}
	return s.withBedClaim(ctx, h.BedID, bed.CauseRecordRemoval, func(ctx context.Context, b *bed.Bed, tr bed.Transition) error {
		if err := s.repo.Delete(ctx, h.ID); err != nil {
			return err
		}
		return s.audit.Append(ctx, bedaudit.NewEntry(ctx, b.ID, string(tr.EventKind), tr.Description, &h.PatientID))
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	return s.repo.GetView(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*View, int, error) {
	return s.repo.ListViews(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*View, int, error) {
	return s.repo.ListViewsByPatient(ctx, patientID, limit, offset)
}

// HasActiveForBed is the bed deletion guard.
func (s *Service) HasActiveForBed(ctx context.Context, bedID uuid.UUID) (bool, error) {
	return s.repo.HasActiveForBed(ctx, bedID)
}

// withBedClaim runs one read-validate-write cycle against a bed: load it,
// compute the transition for the cause, then commit the compare-and-swap
// status write together with fn in a single transaction. A lost race reloads
// the bed, so a claim that is no longer valid fails with the transition's
// own Conflict rather than overwriting the winner.
func (s *Service) withBedClaim(ctx context.Context, bedID uuid.UUID, cause bed.Cause, fn func(ctx context.Context, b *bed.Bed, tr bed.Transition) error) error {
	for attempt := 0; attempt < maxClaimRetries; attempt++ {
		b, err := s.beds.GetByID(ctx, bedID)
		if err != nil {
			return err
		}
		tr, err := bed.Compute(b.Status, "", cause)
		if err != nil {
			return err
		}
		err = s.tx.InTx(ctx, func(ctx context.Context) error {
			if err := s.beds.UpdateStatusCAS(ctx, b.ID, b.Version, tr.NewStatus, nil); err != nil {
				return err
			}
			return fn(ctx, b, tr)
		})
		if errors.Is(err, bed.ErrVersionConflict) {
			continue
		}
		return err
	}
	return apperror.Conflict("bed was changed concurrently, retry the operation")
}

func applyUpdate(h *Hospitalization, cmd UpdateCommand, discharging bool) {
	if cmd.BedID != uuid.Nil {
		h.BedID = cmd.BedID
	}
	h.AdmittedAt = cmd.AdmittedAt
	h.PlannedDischargeAt = cmd.PlannedDischargeAt
	if cmd.AdmissionReason != nil {
		h.AdmissionReason = cmd.AdmissionReason
	}
	if cmd.DischargeReason != nil {
		h.DischargeReason = cmd.DischargeReason
	}
	if discharging {
		h.Status = StatusDischarged
		if cmd.DischargedAt != nil {
			h.DischargedAt = cmd.DischargedAt
		} else {
			now := time.Now()
			h.DischargedAt = &now
		}
	} else if cmd.DischargedAt != nil {
		h.DischargedAt = cmd.DischargedAt
	}
}

func validateTimes(fields map[string]string, admitted time.Time, planned, discharged *time.Time) {
	if admitted.IsZero() {
		fields["admitted_at"] = "is required"
		return
	}
	if admitted.After(time.Now()) {
		fields["admitted_at"] = "must not be in the future"
	}
	if planned != nil && !planned.After(admitted) {
		fields["planned_discharge_at"] = "must be after admission"
	}
	if discharged != nil && !discharged.After(admitted) {
		fields["discharged_at"] = "must be after admission"
	}
}
