package doselog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medtrack/medtrack/internal/domain/medication"
	"github.com/medtrack/medtrack/internal/platform/clock"
)

// Deviations at or below this threshold leave the schedule anchor alone even
// when the client asked to shift future doses.
const ReanchorThreshold = 20 * time.Minute

// TxRunner executes fn inside a database transaction. The dose upsert and the
// anchor update of a re-anchoring record go through it together.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ScheduleStore is the slice of the medication repository the dose service
// needs: resolving a schedule and shifting its anchor.
type ScheduleStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*medication.Medication, error)
	UpdateAnchor(ctx context.Context, id uuid.UUID, anchor time.Time) error
}

// Resyncer keeps reminder triggers in step with the ledger. Recording a dose
// cancels the slot's own trigger right away, then re-synchronizes the rest of
// the horizon.
type Resyncer interface {
	CancelOne(ctx context.Context, medicationID uuid.UUID, slot time.Time) error
	Resync(ctx context.Context, medicationID uuid.UUID) ([]string, error)
}

type Service struct {
	repo   Repository
	meds   ScheduleStore
	tx     TxRunner
	resync Resyncer
	clock  clock.Clock
	log    zerolog.Logger
}

func NewService(repo Repository, meds ScheduleStore, tx TxRunner, resync Resyncer, clk clock.Clock, log zerolog.Logger) *Service {
	if clk == nil {
		clk = clock.New()
	}
	return &Service{repo: repo, meds: meds, tx: tx, resync: resync, clock: clk, log: log}
}

// RecordInput is one dose action against a schedule slot.
type RecordInput struct {
	ScheduledTime time.Time  `json:"scheduled_time"`
	Status        string     `json:"status"`
	TakenTime     *time.Time `json:"taken_time,omitempty"`
	UpdateFuture  bool       `json:"update_future,omitempty"`
}

// Record upserts the dose entry for the slot at in.ScheduledTime. When the
// dose was taken off-schedule by more than ReanchorThreshold and the client
// set update_future, the medication anchor moves to the actual taken time so
// that all future doses shift by the same offset. Entry and anchor are
// written in one transaction.
func (s *Service) Record(ctx context.Context, medicationID uuid.UUID, in RecordInput) (*Entry, error) {
	if !ValidStatus(in.Status) {
		return nil, fmt.Errorf("invalid status %q", in.Status)
	}
	if in.ScheduledTime.IsZero() {
		return nil, fmt.Errorf("scheduled_time is required")
	}
	if _, err := s.meds.GetByID(ctx, medicationID); err != nil {
		return nil, err
	}

	entry := &Entry{
		MedicationID:  medicationID,
		ScheduledTime: medication.MinuteOf(in.ScheduledTime),
		Status:        in.Status,
	}
	if in.Status == StatusTaken {
		taken := s.clock.Now()
		if in.TakenTime != nil {
			taken = *in.TakenTime
		}
		entry.TakenTime = &taken
	}

	newAnchor, reanchor := s.reanchorTarget(entry, in.UpdateFuture)

	write := func(ctx context.Context) error {
		if err := s.repo.Upsert(ctx, entry); err != nil {
			return err
		}
		if reanchor {
			return s.meds.UpdateAnchor(ctx, medicationID, newAnchor)
		}
		return nil
	}

	var err error
	if reanchor && s.tx != nil {
		err = s.tx.WithTx(ctx, write)
	} else {
		err = write(ctx)
	}
	if err != nil {
		return nil, err
	}

	if s.resync != nil {
		if cerr := s.resync.CancelOne(ctx, medicationID, entry.ScheduledTime); cerr != nil {
			s.log.Warn().Err(cerr).Str("medication_id", medicationID.String()).Msg("cancelling slot reminder failed")
		}
		if _, rerr := s.resync.Resync(ctx, medicationID); rerr != nil {
			s.log.Warn().Err(rerr).Str("medication_id", medicationID.String()).Msg("reminder resync after dose record failed")
		}
	}
	return entry, nil
}

// reanchorTarget decides whether recording this entry shifts the schedule.
// Only taken doses with update_future re-anchor, and only when the actual
// time deviates from the slot by more than the threshold.
func (s *Service) reanchorTarget(e *Entry, updateFuture bool) (time.Time, bool) {
	if !updateFuture || e.Status != StatusTaken || e.TakenTime == nil {
		return time.Time{}, false
	}
	dev := e.TakenTime.Sub(e.ScheduledTime)
	if dev < 0 {
		dev = -dev
	}
	if dev <= ReanchorThreshold {
		return time.Time{}, false
	}
	return medication.MinuteOf(*e.TakenTime), true
}

func (s *Service) ListByMedication(ctx context.Context, medicationID uuid.UUID, from, to time.Time) ([]*Entry, error) {
	return s.repo.ListByMedication(ctx, medicationID, from, to)
}
