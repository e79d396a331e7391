package hospitalization

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a hospitalization.
type Status string

const (
	StatusActive     Status = "Active"
	StatusDischarged Status = "Discharged"
)

// Hospitalization maps to the hospitalization table. The patient reference
// is immutable for the lifetime of the record; the bed reference changes on
// reassignment. At most one Active row may reference a given bed, enforced
// by a partial unique index.
type Hospitalization struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	PatientID          uuid.UUID  `db:"patient_id" json:"patient_id"`
	BedID              uuid.UUID  `db:"bed_id" json:"bed_id"`
	AdmittedAt         time.Time  `db:"admitted_at" json:"admitted_at"`
	PlannedDischargeAt *time.Time `db:"planned_discharge_at" json:"planned_discharge_at,omitempty"`
	DischargedAt       *time.Time `db:"discharged_at" json:"discharged_at,omitempty"`
	AdmissionReason    *string    `db:"admission_reason" json:"admission_reason,omitempty"`
	DischargeReason    *string    `db:"discharge_reason" json:"discharge_reason,omitempty"`
	Status             Status     `db:"status" json:"status"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// View is the hospitalization representation returned by the HTTP surface,
// joined with patient and placement display data.
type View struct {
	ID                 uuid.UUID  `json:"id"`
	PatientID          uuid.UUID  `json:"patient_id"`
	PatientFullName    string     `json:"patient_full_name"`
	BedID              uuid.UUID  `json:"bed_id"`
	BedNumber          string     `json:"bed_number"`
	WardNumber         string     `json:"ward_number"`
	DepartmentName     string     `json:"department_name"`
	AdmittedAt         time.Time  `json:"admitted_at"`
	PlannedDischargeAt *time.Time `json:"planned_discharge_at,omitempty"`
	DischargedAt       *time.Time `json:"discharged_at,omitempty"`
	AdmissionReason    *string    `json:"admission_reason,omitempty"`
	DischargeReason    *string    `json:"discharge_reason,omitempty"`
	Status             Status     `json:"status"`
}
