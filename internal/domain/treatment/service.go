package treatment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medtrack/medtrack/internal/domain/medication"
)

// MedicationLister resolves the medications under a treatment, so that
// deleting the treatment can cancel their reminders.
type MedicationLister interface {
	ListByTreatment(ctx context.Context, treatmentID uuid.UUID) ([]*medication.Medication, error)
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

func (s *Service) validate(t *Treatment) error {
	if t.ProfileID == uuid.Nil {
		return fmt.Errorf("profile_id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, t *Treatment) error {
	if err := s.validate(t); err != nil {
		return err
	}
	t.Name = strings.TrimSpace(t.Name)
	return s.repo.Create(ctx, t)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Treatment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, t *Treatment) error {
	if err := s.validate(t); err != nil {
		return err
	}
	t.Name = strings.TrimSpace(t.Name)
	return s.repo.Update(ctx, t)
}

// Delete removes the treatment. Medications and dose logs cascade in the
// database; their reminder triggers are cancelled here first, best-effort.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if s.meds != nil && s.reminders != nil {
		meds, err := s.meds.ListByTreatment(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Str("treatment_id", id.String()).Msg("listing medications before treatment delete failed")
		}
		for _, med := range meds {
			if err := s.reminders.Cancel(ctx, med.ID); err != nil {
				s.log.Warn().Err(err).Str("medication_id", med.ID.String()).Msg("cancelling reminders before treatment delete failed")
			}
		}
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*Treatment, error) {
	return s.repo.ListByProfile(ctx, profileID)
}
