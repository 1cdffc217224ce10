// Package ownership resolves which account owns a record. Every sub-resource
// route (treatments, medications, doses, progress) checks here before acting,
// so a valid token can never read or write another account's records.
package ownership

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrDenied is returned when the record exists but belongs to another
	// account. Handlers map it to 404 so record ids are not probeable.
	ErrDenied = errors.New("record belongs to another account")
)

// Resolver walks a record up to the profile's owning account.
type Resolver interface {
	ProfileOwner(ctx context.Context, profileID uuid.UUID) (string, error)
	TreatmentOwner(ctx context.Context, treatmentID uuid.UUID) (string, error)
	MedicationOwner(ctx context.Context, medicationID uuid.UUID) (string, error)
}

// Guard verifies that a record belongs to the given account.
type Guard struct {
	owners Resolver
}

func NewGuard(owners Resolver) *Guard {
	return &Guard{owners: owners}
}

func (g *Guard) check(owner string, err error, ownerUserID string) error {
	if err != nil {
		return err
	}
	if owner != ownerUserID {
		return ErrDenied
	}
	return nil
}

func (g *Guard) Profile(ctx context.Context, ownerUserID string, profileID uuid.UUID) error {
	owner, err := g.owners.ProfileOwner(ctx, profileID)
	return g.check(owner, err, ownerUserID)
}

func (g *Guard) Treatment(ctx context.Context, ownerUserID string, treatmentID uuid.UUID) error {
	owner, err := g.owners.TreatmentOwner(ctx, treatmentID)
	return g.check(owner, err, ownerUserID)
}

func (g *Guard) Medication(ctx context.Context, ownerUserID string, medicationID uuid.UUID) error {
	owner, err := g.owners.MedicationOwner(ctx, medicationID)
	return g.check(owner, err, ownerUserID)
}
