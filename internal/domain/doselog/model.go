package doselog

import (
	"time"

	"github.com/google/uuid"
)

// Entry statuses. Missed and upcoming are never persisted: they are derived
// from the current time when doses are read back.
const (
	StatusPending = "pending"
	StatusTaken   = "taken"
	StatusSkipped = "skipped"
)

// Entry is one logged dose of a medication. ScheduledTime is truncated to the
// minute and, together with the medication, uniquely identifies the dose slot.
type Entry struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	MedicationID  uuid.UUID  `db:"medication_id" json:"medication_id"`
	ScheduledTime time.Time  `db:"scheduled_time" json:"scheduled_time"`
	TakenTime     *time.Time `db:"taken_time" json:"taken_time,omitempty"`
	Status        string     `db:"status" json:"status"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// ValidStatus reports whether s is a status a client may record.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusTaken, StatusSkipped:
		return true
	}
	return false
}
