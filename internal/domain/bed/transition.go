package bed

import (
	"fmt"

	"github.com/wardops/wardops/internal/platform/apperror"
)

// Cause is the reason a bed status change was requested.
type Cause int

const (
	CauseAdmission Cause = iota
	CauseDischarge
	CauseManualChange
	CauseInitialCreate
	// CauseReassignRelease frees the old bed when a patient is moved.
	CauseReassignRelease
	// CauseRecordRemoval releases the bed when an active hospitalization
	// record is deleted by an administrator.
	CauseRecordRemoval
)

// Transition is an accepted status change together with the audit entry it
// mandates. NoOp transitions leave the bed untouched and write no entry.
type Transition struct {
	NewStatus   Status
	EventKind   EventKind
	Description string
	NoOp        bool
}

// manualEventKinds maps the destination status of a manual change to its
// audit event kind. Keyed by destination only: Maintenance→Available and
// Cleaning→Available both log CleaningFinished. The vocabulary matches the
// existing audit history and must not fork.
var manualEventKinds = map[Status]EventKind{
	StatusCleaning:    EventCleaningStarted,
	StatusMaintenance: EventMaintenanceScheduled,
	StatusAvailable:   EventCleaningFinished,
	StatusReserved:    EventReservationCreated,
}

// Compute validates a requested transition and returns the new status and
// the audit entry to write, or a typed rejection. It is pure: callers apply
// the result and append the entry in one transaction, so no code path can
// change a status without auditing it.
//
// The requested status is only consulted for CauseManualChange and
// CauseInitialCreate; the other causes fully determine the destination.
func Compute(current, requested Status, cause Cause) (Transition, error) {
	switch cause {
	case CauseAdmission:
		if current != StatusAvailable {
			return Transition{}, apperror.Conflict("Bed is not available. Current status: %s", current)
		}
		return Transition{
			NewStatus:   StatusOccupied,
			EventKind:   EventOccupied,
			Description: "Patient admitted to bed",
		}, nil

	case CauseDischarge:
		if current != StatusOccupied {
			return Transition{}, apperror.Conflict("Bed is not occupied. Current status: %s", current)
		}
		return Transition{
			NewStatus:   StatusCleaning,
			EventKind:   EventFreed,
			Description: "Patient discharged, bed sent for cleaning",
		}, nil

	case CauseManualChange:
		if !ValidStatuses[requested] {
			return Transition{}, apperror.ValidationField("status", fmt.Sprintf("unknown status %q", requested))
		}
		if requested == current {
			return Transition{NewStatus: current, NoOp: true}, nil
		}
		kind, ok := manualEventKinds[requested]
		if !ok {
			kind = EventStatusManuallyChanged
		}
		return Transition{
			NewStatus:   requested,
			EventKind:   kind,
			Description: fmt.Sprintf("Status changed from %s to %s", current, requested),
		}, nil

	case CauseInitialCreate:
		if !ValidStatuses[requested] {
			return Transition{}, apperror.ValidationField("status", fmt.Sprintf("unknown status %q", requested))
		}
		if requested == StatusAvailable {
			return Transition{NewStatus: StatusAvailable, NoOp: true}, nil
		}
		return Transition{
			NewStatus:   requested,
			EventKind:   EventStatusManuallyChanged,
			Description: fmt.Sprintf("Bed created with status %s", requested),
		}, nil

	case CauseReassignRelease:
		if current != StatusOccupied {
			return Transition{}, apperror.Conflict("Bed is not occupied. Current status: %s", current)
		}
		return Transition{
			NewStatus:   StatusAvailable,
			EventKind:   EventFreed,
			Description: "Bed freed by patient transfer",
		}, nil

	case CauseRecordRemoval:
		return Transition{
			NewStatus:   StatusAvailable,
			EventKind:   EventStatusManuallyChanged,
			Description: "Hospitalization record removed, bed released",
		}, nil

	default:
		return Transition{}, fmt.Errorf("unknown transition cause %d", cause)
	}
}
