package bed

import (
	"strings"
	"testing"

	"github.com/wardops/wardops/internal/platform/apperror"
)

func TestCompute_Admission(t *testing.T) {
	tr, err := Compute(StatusAvailable, "", CauseAdmission)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.NewStatus != StatusOccupied {
		t.Errorf("expected Occupied, got %s", tr.NewStatus)
	}
	if tr.EventKind != EventOccupied {
		t.Errorf("expected Occupied event, got %s", tr.EventKind)
	}
}

func TestCompute_Admission_NotAvailable(t *testing.T) {
	for _, current := range []Status{StatusOccupied, StatusCleaning, StatusMaintenance, StatusReserved, StatusUnavailable} {
		_, err := Compute(current, "", CauseAdmission)
		if err == nil {
			t.Fatalf("expected conflict admitting to %s bed", current)
		}
		if !apperror.IsConflict(err) {
			t.Errorf("expected Conflict kind for %s, got %v", current, err)
		}
		want := "Bed is not available. Current status: " + string(current)
		if err.Error() != want {
			t.Errorf("expected %q, got %q", want, err.Error())
		}
	}
}

func TestCompute_Discharge(t *testing.T) {
	tr, err := Compute(StatusOccupied, "", CauseDischarge)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.NewStatus != StatusCleaning {
		t.Errorf("expected Cleaning, got %s", tr.NewStatus)
	}
	if tr.EventKind != EventFreed {
		t.Errorf("expected Freed event, got %s", tr.EventKind)
	}
}

func TestCompute_Discharge_NotOccupied(t *testing.T) {
	_, err := Compute(StatusAvailable, "", CauseDischarge)
	if !apperror.IsConflict(err) {
		t.Errorf("expected Conflict, got %v", err)
	}
}

func TestCompute_ManualChange_DestinationKinds(t *testing.T) {
	cases := []struct {
		from, to Status
		kind     EventKind
	}{
		{StatusAvailable, StatusCleaning, EventCleaningStarted},
		{StatusAvailable, StatusMaintenance, EventMaintenanceScheduled},
		{StatusAvailable, StatusReserved, EventReservationCreated},
		{StatusCleaning, StatusAvailable, EventCleaningFinished},
		// Destination-keyed: Maintenance→Available logs the same kind as
		// Cleaning→Available.
		{StatusMaintenance, StatusAvailable, EventCleaningFinished},
		{StatusAvailable, StatusOccupied, EventStatusManuallyChanged},
		{StatusAvailable, StatusUnavailable, EventStatusManuallyChanged},
	}
	for _, tc := range cases {
		tr, err := Compute(tc.from, tc.to, CauseManualChange)
		if err != nil {
			t.Fatalf("%s→%s: unexpected error: %v", tc.from, tc.to, err)
		}
		if tr.NewStatus != tc.to {
			t.Errorf("%s→%s: expected status %s, got %s", tc.from, tc.to, tc.to, tr.NewStatus)
		}
		if tr.EventKind != tc.kind {
			t.Errorf("%s→%s: expected kind %s, got %s", tc.from, tc.to, tc.kind, tr.EventKind)
		}
		if tr.NoOp {
			t.Errorf("%s→%s: unexpected no-op", tc.from, tc.to)
		}
	}
}

func TestCompute_ManualChange_NoOp(t *testing.T) {
	tr, err := Compute(StatusReserved, StatusReserved, CauseManualChange)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tr.NoOp {
		t.Error("expected no-op for same-status request")
	}
}

func TestCompute_ManualChange_UnknownStatus(t *testing.T) {
	_, err := Compute(StatusAvailable, "Broken", CauseManualChange)
	if err == nil {
		t.Fatal("expected validation error")
	}
	e, ok := apperror.As(err)
	if !ok || e.Kind != apperror.KindValidation {
		t.Errorf("expected Validation kind, got %v", err)
	}
}

func TestCompute_InitialCreate(t *testing.T) {
	tr, err := Compute("", StatusMaintenance, CauseInitialCreate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.EventKind != EventStatusManuallyChanged {
		t.Errorf("expected StatusManuallyChanged, got %s", tr.EventKind)
	}
	if !strings.Contains(tr.Description, "Maintenance") {
		t.Errorf("expected description to name the status, got %q", tr.Description)
	}
}

func TestCompute_InitialCreate_Available_NoEntry(t *testing.T) {
	tr, err := Compute("", StatusAvailable, CauseInitialCreate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tr.NoOp {
		t.Error("expected no audit entry for Available-start creation")
	}
}

func TestCompute_ReassignRelease(t *testing.T) {
	tr, err := Compute(StatusOccupied, "", CauseReassignRelease)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.NewStatus != StatusAvailable {
		t.Errorf("expected Available, got %s", tr.NewStatus)
	}
	if tr.EventKind != EventFreed {
		t.Errorf("expected Freed, got %s", tr.EventKind)
	}
}

func TestCompute_RecordRemoval(t *testing.T) {
	tr, err := Compute(StatusOccupied, "", CauseRecordRemoval)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.NewStatus != StatusAvailable {
		t.Errorf("expected Available, got %s", tr.NewStatus)
	}
	if tr.EventKind != EventStatusManuallyChanged {
		t.Errorf("expected StatusManuallyChanged, got %s", tr.EventKind)
	}
}
