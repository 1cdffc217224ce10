package medication

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a medication does not exist.
var ErrNotFound = errors.New("medication not found")

type Repository interface {
	Create(ctx context.Context, m *Medication) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medication, error)
	Update(ctx context.Context, m *Medication) error
	// UpdateAnchor replaces only the schedule anchor. Used by the re-anchor
	// transaction so a dose log write and the anchor shift commit together.
	UpdateAnchor(ctx context.Context, id uuid.UUID, anchor time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByTreatment(ctx context.Context, treatmentID uuid.UUID) ([]*Medication, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*Medication, error)
	ListAll(ctx context.Context) ([]*Medication, error)
}
