package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medtrack/medtrack/internal/domain/medication"
)

// ErrForbidden is returned when a profile exists but belongs to another
// account. Handlers map it to 404 so profile ids are not probeable.
var ErrForbidden = errors.New("profile belongs to another account")

// MedicationLister resolves the medications under a profile, so that
// deleting the profile can cancel their reminders.
type MedicationLister interface {
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*medication.Medication, error)
}

// ReminderCanceller removes all pending reminder triggers of a medication.
type ReminderCanceller interface {
	Cancel(ctx context.Context, medicationID uuid.UUID) error
}

type Service struct {
	repo      Repository
	meds      MedicationLister
	reminders ReminderCanceller
	log       zerolog.Logger
}

func NewService(repo Repository, meds MedicationLister, reminders ReminderCanceller, log zerolog.Logger) *Service {
	return &Service{repo: repo, meds: meds, reminders: reminders, log: log}
}

func (s *Service) Create(ctx context.Context, ownerUserID string, p *Profile) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	p.Name = strings.TrimSpace(p.Name)
	p.OwnerUserID = ownerUserID
	return s.repo.Create(ctx, p)
}

// GetOwned resolves a profile and verifies it belongs to ownerUserID.
func (s *Service) GetOwned(ctx context.Context, ownerUserID string, id uuid.UUID) (*Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerUserID != ownerUserID {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, ownerUserID string, p *Profile) error {
	existing, err := s.GetOwned(ctx, ownerUserID, p.ID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	p.Name = strings.TrimSpace(p.Name)
	p.OwnerUserID = existing.OwnerUserID
	return s.repo.Update(ctx, p)
}

// Delete removes the profile. The database cascades to treatments,
// medications and dose logs; reminder triggers live outside the database, so
// they are cancelled here first, best-effort.
func (s *Service) Delete(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	if _, err := s.GetOwned(ctx, ownerUserID, id); err != nil {
		return err
	}
	if s.meds != nil && s.reminders != nil {
		meds, err := s.meds.ListByProfile(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Str("profile_id", id.String()).Msg("listing medications before profile delete failed")
		}
		for _, med := range meds {
			if err := s.reminders.Cancel(ctx, med.ID); err != nil {
				s.log.Warn().Err(err).Str("medication_id", med.ID.String()).Msg("cancelling reminders before profile delete failed")
			}
		}
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]*Profile, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}
