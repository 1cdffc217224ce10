package reconcile

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/domain/doselog"
	"github.com/medtrack/medtrack/internal/domain/medication"
	"github.com/medtrack/medtrack/internal/platform/clock"
)

// MedicationStore is the slice of the medication repository the reconciler
// reads from.
type MedicationStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*medication.Medication, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*medication.Medication, error)
}

// LedgerReader reads logged dose entries for a medication and window.
type LedgerReader interface {
	ListByMedication(ctx context.Context, medicationID uuid.UUID, from, to time.Time) ([]*doselog.Entry, error)
}

// DoseView is one reconciled dose decorated with its display state at the
// time of the request.
type DoseView struct {
	Instance
	State      string `json:"state"`
	Actionable bool   `json:"actionable"`
}

type Service struct {
	meds         MedicationStore
	ledger       LedgerReader
	clock        clock.Clock
	actionWindow time.Duration
}

func NewService(meds MedicationStore, ledger LedgerReader, clk clock.Clock, actionWindow time.Duration) *Service {
	if clk == nil {
		clk = clock.New()
	}
	return &Service{meds: meds, ledger: ledger, clock: clk, actionWindow: actionWindow}
}

func (s *Service) view(insts []Instance, now time.Time) []DoseView {
	views := make([]DoseView, 0, len(insts))
	for _, inst := range insts {
		views = append(views, DoseView{
			Instance:   inst,
			State:      ViewStatus(inst, now, s.actionWindow),
			Actionable: Actionable(inst, now, s.actionWindow),
		})
	}
	return views
}

// MedicationDoses reconciles one medication's doses over [from, to).
func (s *Service) MedicationDoses(ctx context.Context, medicationID uuid.UUID, from, to time.Time) ([]DoseView, error) {
	med, err := s.meds.GetByID(ctx, medicationID)
	if err != nil {
		return nil, err
	}
	entries, err := s.ledger.ListByMedication(ctx, medicationID, from, to)
	if err != nil {
		return nil, err
	}
	insts := Classify(med.ID, med.Schedule(), entries, from, to)
	return s.view(insts, s.clock.Now()), nil
}

// DayView reconciles every medication of a profile over one calendar day and
// returns the merged, time-ordered timeline.
func (s *Service) DayView(ctx context.Context, profileID uuid.UUID, day time.Time) ([]DoseView, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)

	meds, err := s.meds.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	views := []DoseView{}
	for _, med := range meds {
		entries, err := s.ledger.ListByMedication(ctx, med.ID, from, to)
		if err != nil {
			return nil, err
		}
		views = append(views, s.view(Classify(med.ID, med.Schedule(), entries, from, to), now)...)
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].ScheduledTime.Before(views[j].ScheduledTime)
	})
	return views, nil
}
