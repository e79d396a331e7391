package bedaudit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wardops/wardops/internal/platform/auth"
)

// Entry maps to the bed_audit_entry table. Rows are immutable once written
// and are only ever created alongside the bed mutation they describe, inside
// the same transaction.
type Entry struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	BedID       uuid.UUID  `db:"bed_id" json:"bed_id"`
	EventKind   string     `db:"event_kind" json:"event_kind"`
	OccurredAt  time.Time  `db:"occurred_at" json:"occurred_at"`
	UserID      *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	UserName    *string    `db:"user_name" json:"user_name,omitempty"`
	PatientID   *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`
	Description string     `db:"description" json:"description"`
}

// NewEntry builds an entry attributed to the request actor, if any.
func NewEntry(ctx context.Context, bedID uuid.UUID, kind, description string, patientID *uuid.UUID) *Entry {
	e := &Entry{
		BedID:       bedID,
		EventKind:   kind,
		PatientID:   patientID,
		Description: description,
	}
	if actor := auth.ActorFromContext(ctx); actor != nil {
		e.UserID = actor.ID
		if actor.Name != "" {
			name := actor.Name
			e.UserName = &name
		}
	}
	return e
}

// View is an audit entry joined with display names for the audit endpoint.
type View struct {
	ID              uuid.UUID  `json:"id"`
	BedID           uuid.UUID  `json:"bed_id"`
	BedNumber       string     `json:"bed_number"`
	EventKind       string     `json:"event_kind"`
	OccurredAt      time.Time  `json:"occurred_at"`
	UserID          *uuid.UUID `json:"user_id,omitempty"`
	UserName        *string    `json:"user_name,omitempty"`
	PatientID       *uuid.UUID `json:"patient_id,omitempty"`
	PatientFullName *string    `json:"patient_full_name,omitempty"`
	Description     string     `json:"description"`
}
