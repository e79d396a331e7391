package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table.
type Patient struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	FirstName  string     `db:"first_name" json:"first_name"`
	LastName   string     `db:"last_name" json:"last_name"`
	MiddleName *string    `db:"middle_name" json:"middle_name,omitempty"`
	BirthDate  *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	// IsolationRequired flags patients who need a single-occupancy placement.
	IsolationRequired bool      `db:"isolation_required" json:"isolation_required"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// FullName renders the display name used in views and the audit log.
func (p *Patient) FullName() string {
	parts := []string{p.LastName, p.FirstName}
	if p.MiddleName != nil && *p.MiddleName != "" {
		parts = append(parts, *p.MiddleName)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
