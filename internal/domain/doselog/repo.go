package doselog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("dose entry not found")

// Repository persists dose log entries. Upsert writes by (medication, minute
// slot): recording the same slot twice updates the existing row instead of
// creating a duplicate.
type Repository interface {
	Upsert(ctx context.Context, e *Entry) error
	FindBySlot(ctx context.Context, medicationID uuid.UUID, scheduledTime time.Time) (*Entry, error)
	ListByMedication(ctx context.Context, medicationID uuid.UUID, from, to time.Time) ([]*Entry, error)
	// ListAllByMedication returns the medication's entire recorded history,
	// unwindowed. Re-anchoring can move the schedule past old entries, so
	// consumers that must never lose history (progress) read through this.
	ListAllByMedication(ctx context.Context, medicationID uuid.UUID) ([]*Entry, error)
}
