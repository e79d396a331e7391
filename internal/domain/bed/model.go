package bed

import (
	"time"

	"github.com/google/uuid"
)

// Status is the occupancy status of a bed.
type Status string

const (
	StatusAvailable   Status = "Available"
	StatusOccupied    Status = "Occupied"
	StatusCleaning    Status = "Cleaning"
	StatusMaintenance Status = "Maintenance"
	StatusReserved    Status = "Reserved"
	StatusUnavailable Status = "Unavailable"
)

// ValidStatuses is the set of accepted bed statuses.
var ValidStatuses = map[Status]bool{
	StatusAvailable:   true,
	StatusOccupied:    true,
	StatusCleaning:    true,
	StatusMaintenance: true,
	StatusReserved:    true,
	StatusUnavailable: true,
}

// EventKind labels one audit log entry. The vocabulary is keyed by the
// destination status of the transition (see transition.go).
type EventKind string

const (
	EventOccupied              EventKind = "Occupied"
	EventFreed                 EventKind = "Freed"
	EventCleaningStarted       EventKind = "CleaningStarted"
	EventCleaningFinished      EventKind = "CleaningFinished"
	EventMaintenanceScheduled  EventKind = "MaintenanceScheduled"
	EventReservationCreated    EventKind = "ReservationCreated"
	EventStatusManuallyChanged EventKind = "StatusManuallyChanged"
)

// Bed maps to the bed table. Version is the optimistic concurrency token:
// every status write goes through a compare-and-swap on it.
type Bed struct {
	ID        uuid.UUID `db:"id" json:"id"`
	WardID    uuid.UUID `db:"ward_id" json:"ward_id"`
	Number    string    `db:"number" json:"number"`
	Status    Status    `db:"status" json:"status"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	Version   int       `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// View is the bed representation returned by the HTTP surface.
type View struct {
	ID         uuid.UUID `json:"id"`
	WardID     uuid.UUID `json:"ward_id"`
	WardNumber string    `json:"ward_number"`
	BedNumber  string    `json:"bed_number"`
	Status     Status    `json:"status"`
	Notes      *string   `json:"notes,omitempty"`
}
