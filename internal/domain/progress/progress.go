// Package progress computes treatment adherence from the dose ledger: how
// much of a medication's full course has been acted on, and the rollup of
// those figures across a treatment.
package progress

import (
	"context"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/domain/doselog"
	"github.com/medtrack/medtrack/internal/domain/medication"
)

// Report is the adherence summary for one medication's full course.
type Report struct {
	MedicationID uuid.UUID `json:"medication_id"`
	Expected     int       `json:"expected"`
	Logged       int       `json:"logged"`
	Taken        int       `json:"taken"`
	Skipped      int       `json:"skipped"`
	Progress     float64   `json:"progress"`
	IsCompleted  bool      `json:"is_completed"`
}

// Compute derives the adherence report for one medication. Expected counts
// every instance of the full course; logged counts entries acted on (taken or
// skipped), clamped so late extra logs never push progress past 1. A schedule
// that generates no instances reports zero progress and is never completed.
func Compute(medicationID uuid.UUID, sched medication.Schedule, entries []*doselog.Entry) Report {
	r := Report{MedicationID: medicationID, Expected: len(sched.Instances())}
	for _, e := range entries {
		switch e.Status {
		case doselog.StatusTaken:
			r.Taken++
		case doselog.StatusSkipped:
			r.Skipped++
		}
	}
	r.Logged = r.Taken + r.Skipped
	if r.Expected > 0 {
		r.Progress = float64(r.Logged) / float64(r.Expected)
		if r.Progress > 1 {
			r.Progress = 1
		}
		r.IsCompleted = r.Logged >= r.Expected
	}
	return r
}

// Rollup is the aggregate across a treatment's medications: mean progress,
// completion only when every course is complete.
type Rollup struct {
	TreatmentID uuid.UUID `json:"treatment_id"`
	Medications []Report  `json:"medications"`
	Expected    int       `json:"expected"`
	Logged      int       `json:"logged"`
	Progress    float64   `json:"progress"`
	IsCompleted bool      `json:"is_completed"`
}

// Aggregate rolls per-medication reports up to the treatment. An empty
// treatment has zero progress and is not completed.
func Aggregate(treatmentID uuid.UUID, reports []Report) Rollup {
	ru := Rollup{TreatmentID: treatmentID, Medications: reports}
	if len(reports) == 0 {
		ru.Medications = []Report{}
		return ru
	}
	ru.IsCompleted = true
	var sum float64
	for _, r := range reports {
		ru.Expected += r.Expected
		ru.Logged += r.Logged
		sum += r.Progress
		if !r.IsCompleted {
			ru.IsCompleted = false
		}
	}
	ru.Progress = sum / float64(len(reports))
	return ru
}

// MedicationStore is the slice of the medication repository progress reads.
type MedicationStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*medication.Medication, error)
	ListByTreatment(ctx context.Context, treatmentID uuid.UUID) ([]*medication.Medication, error)
}

// LedgerReader reads a medication's full recorded history. Progress must use
// the unwindowed read: re-anchoring can move the schedule past entries that
// were logged against the old grid, and those still count as acted-on doses.
type LedgerReader interface {
	ListAllByMedication(ctx context.Context, medicationID uuid.UUID) ([]*doselog.Entry, error)
}

type Service struct {
	meds   MedicationStore
	ledger LedgerReader
}

func NewService(meds MedicationStore, ledger LedgerReader) *Service {
	return &Service{meds: meds, ledger: ledger}
}

func (s *Service) report(ctx context.Context, med *medication.Medication) (Report, error) {
	entries, err := s.ledger.ListAllByMedication(ctx, med.ID)
	if err != nil {
		return Report{}, err
	}
	return Compute(med.ID, med.Schedule(), entries), nil
}

// Medication computes the adherence report for one medication.
func (s *Service) Medication(ctx context.Context, medicationID uuid.UUID) (Report, error) {
	med, err := s.meds.GetByID(ctx, medicationID)
	if err != nil {
		return Report{}, err
	}
	return s.report(ctx, med)
}

// Treatment rolls up adherence across all medications of a treatment.
func (s *Service) Treatment(ctx context.Context, treatmentID uuid.UUID) (Rollup, error) {
	meds, err := s.meds.ListByTreatment(ctx, treatmentID)
	if err != nil {
		return Rollup{}, err
	}
	reports := make([]Report, 0, len(meds))
	for _, med := range meds {
		r, err := s.report(ctx, med)
		if err != nil {
			return Rollup{}, err
		}
		reports = append(reports, r)
	}
	return Aggregate(treatmentID, reports), nil
}
