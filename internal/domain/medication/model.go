package medication

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Medication maps to the medication table. The anchor time, frequency and
// duration columns together form the medication's dosing schedule.
type Medication struct {
	ID             uuid.UUID `db:"id" json:"id"`
	TreatmentID    uuid.UUID `db:"treatment_id" json:"treatment_id"`
	Name           string    `db:"name" json:"name"`
	DoseQuantity   *float64  `db:"dose_quantity" json:"dose_quantity,omitempty"`
	DoseUnit       *string   `db:"dose_unit" json:"dose_unit,omitempty"`
	Form           *string   `db:"form" json:"form,omitempty"`
	Notes          *string   `db:"notes" json:"notes,omitempty"`
	AnchorTime     time.Time `db:"anchor_time" json:"anchor_time"`
	FrequencyHours int       `db:"frequency_hours" json:"frequency_hours"`
	DurationDays   int       `db:"duration_days" json:"duration_days"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Schedule returns the medication's dosing schedule.
func (m *Medication) Schedule() Schedule {
	return NewSchedule(m.AnchorTime, m.FrequencyHours, m.DurationDays)
}

// DoseText renders the dose as a human-readable string ("500 mg"), or an
// empty string when no quantity is recorded.
func (m *Medication) DoseText() string {
	if m.DoseQuantity == nil {
		return ""
	}
	unit := ""
	if m.DoseUnit != nil {
		unit = *m.DoseUnit
	}
	if unit == "" {
		return fmt.Sprintf("%g", *m.DoseQuantity)
	}
	return fmt.Sprintf("%g %s", *m.DoseQuantity, unit)
}
