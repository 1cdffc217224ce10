package medication

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medtrack/medtrack/internal/platform/medlookup"
)

// Resyncer re-synchronizes the reminder triggers of one medication. Wired to
// the reminder scheduler in main; nil when reminders are disabled.
type Resyncer interface {
	Resync(ctx context.Context, medicationID uuid.UUID) ([]string, error)
	Cancel(ctx context.Context, medicationID uuid.UUID) error
}

type Service struct {
	repo   Repository
	lookup medlookup.Searcher
	resync Resyncer
	log    zerolog.Logger
}

func NewService(repo Repository, lookup medlookup.Searcher, resync Resyncer, log zerolog.Logger) *Service {
	return &Service{repo: repo, lookup: lookup, resync: resync, log: log}
}

func (s *Service) validate(m *Medication) error {
	if m.TreatmentID == uuid.Nil {
		return fmt.Errorf("treatment_id is required")
	}
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("name is required")
	}
	// Non-positive frequency or duration is allowed: such a schedule simply
	// generates no doses.
	return nil
}

func (s *Service) Create(ctx context.Context, m *Medication) error {
	if err := s.validate(m); err != nil {
		return err
	}
	m.Name = strings.TrimSpace(m.Name)
	m.AnchorTime = MinuteOf(m.AnchorTime)
	if err := s.repo.Create(ctx, m); err != nil {
		return err
	}
	s.resyncReminders(ctx, m.ID)
	return nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, m *Medication) error {
	if err := s.validate(m); err != nil {
		return err
	}
	m.Name = strings.TrimSpace(m.Name)
	m.AnchorTime = MinuteOf(m.AnchorTime)
	if err := s.repo.Update(ctx, m); err != nil {
		return err
	}
	s.resyncReminders(ctx, m.ID)
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.resync != nil {
		if err := s.resync.Cancel(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("medication_id", id.String()).Msg("cancelling reminders after delete failed")
		}
	}
	return nil
}

func (s *Service) ListByTreatment(ctx context.Context, treatmentID uuid.UUID) ([]*Medication, error) {
	return s.repo.ListByTreatment(ctx, treatmentID)
}

// SuggestNames proxies the external medication-name lookup. Lookup failures
// degrade to an empty list inside the client; this never returns an error.
func (s *Service) SuggestNames(ctx context.Context, query string) []medlookup.Suggestion {
	if s.lookup == nil {
		return nil
	}
	return s.lookup.Search(ctx, query)
}

// resyncReminders is best-effort: a reminder sync failure never fails the
// write that triggered it.
func (s *Service) resyncReminders(ctx context.Context, id uuid.UUID) {
	if s.resync == nil {
		return
	}
	if _, err := s.resync.Resync(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("medication_id", id.String()).Msg("reminder resync failed")
	}
}
