package reminder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medtrack/medtrack/internal/domain/doselog"
	"github.com/medtrack/medtrack/internal/domain/medication"
	"github.com/medtrack/medtrack/internal/platform/clock"
	"github.com/medtrack/medtrack/internal/platform/notification"
)

// catchupDelay is how far into the future a reminder is pushed when its
// normal fire time has already passed by the time of the resync.
const catchupDelay = 10 * time.Second

// MedicationStore is the slice of the medication repository the scheduler
// reads from.
type MedicationStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*medication.Medication, error)
	ListAll(ctx context.Context) ([]*medication.Medication, error)
}

// LedgerReader reads logged dose entries for a medication and window.
type LedgerReader interface {
	ListByMedication(ctx context.Context, medicationID uuid.UUID, from, to time.Time) ([]*doselog.Entry, error)
}

// Options tune the scheduler's horizon and timing.
type Options struct {
	Enabled     bool
	HorizonDays int
	Lead        time.Duration
}

// Scheduler keeps the notification store in sync with the dose schedules.
// The trigger store is the only state it owns: a resync reads the pending
// trigger ids back, cancels the medication's stale ones and recreates the
// current set, so a crashed or interrupted sync heals on the next run.
type Scheduler struct {
	store     notification.TriggerStore
	templates *notification.TemplateEngine
	meds      MedicationStore
	ledger    LedgerReader
	clock     clock.Clock
	opts      Options
	log       zerolog.Logger

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewScheduler(store notification.TriggerStore, templates *notification.TemplateEngine, meds MedicationStore, ledger LedgerReader, clk clock.Clock, opts Options, log zerolog.Logger) *Scheduler {
	if clk == nil {
		clk = clock.New()
	}
	if opts.HorizonDays <= 0 {
		opts.HorizonDays = 7
	}
	if opts.Lead <= 0 {
		opts.Lead = 5 * time.Minute
	}
	return &Scheduler{
		store:     store,
		templates: templates,
		meds:      meds,
		ledger:    ledger,
		clock:     clk,
		opts:      opts,
		log:       log,
		locks:     make(map[uuid.UUID]*sync.Mutex),
	}
}

// lockFor serializes resyncs per medication so concurrent dose records on the
// same schedule cannot interleave cancel and create phases.
func (s *Scheduler) lockFor(medicationID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[medicationID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[medicationID] = l
	}
	return l
}

// Resync rebuilds the trigger set of one medication: cancel everything that
// carries the medication's id prefix, then create one trigger per unlogged
// dose slot within the horizon. Individual trigger failures are logged and
// skipped so one bad slot cannot block the rest. Returns the created ids.
func (s *Scheduler) Resync(ctx context.Context, medicationID uuid.UUID) ([]string, error) {
	if !s.opts.Enabled {
		return nil, nil
	}
	l := s.lockFor(medicationID)
	l.Lock()
	defer l.Unlock()

	if err := s.cancelPrefixed(ctx, medicationID); err != nil {
		return nil, err
	}

	med, err := s.meds.GetByID(ctx, medicationID)
	if err != nil {
		if errors.Is(err, medication.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	now := s.clock.Now()
	horizon := now.AddDate(0, 0, s.opts.HorizonDays)
	slots := med.Schedule().Expand(now, horizon)
	if len(slots) == 0 {
		return nil, nil
	}

	logged, err := s.loggedSlots(ctx, medicationID, now, horizon)
	if err != nil {
		return nil, err
	}

	var created []string
	for _, slot := range slots {
		if logged[slot.Unix()] {
			continue
		}
		// Slots whose lead time already passed fire shortly after the sync
		// with the catch-up wording instead of the standard reminder.
		template := "dose-reminder"
		fireAt := slot.Add(-s.opts.Lead)
		if !fireAt.After(now) {
			fireAt = now.Add(catchupDelay)
			template = "dose-catchup"
		}
		trig := notification.Trigger{
			ID:     TriggerID(medicationID, slot),
			FireAt: fireAt,
		}
		trig.Title, trig.Body, err = s.templates.Render(template, map[string]string{
			"medication": med.Name,
			"dose":       med.DoseText(),
			"time":       slot.Format("15:04"),
		})
		if err != nil {
			return created, err
		}
		if err := s.store.Create(ctx, trig); err != nil {
			s.log.Warn().Err(err).Str("trigger_id", trig.ID).Msg("creating dose reminder failed")
			continue
		}
		created = append(created, trig.ID)
	}
	return created, nil
}

// Cancel removes every pending trigger belonging to one medication.
func (s *Scheduler) Cancel(ctx context.Context, medicationID uuid.UUID) error {
	l := s.lockFor(medicationID)
	l.Lock()
	defer l.Unlock()
	return s.cancelPrefixed(ctx, medicationID)
}

// CancelOne removes the trigger for a single dose slot, typically right after
// that dose was recorded.
func (s *Scheduler) CancelOne(ctx context.Context, medicationID uuid.UUID, slot time.Time) error {
	return s.store.Cancel(ctx, []string{TriggerID(medicationID, slot)})
}

func (s *Scheduler) cancelPrefixed(ctx context.Context, medicationID uuid.UUID) error {
	pending, err := s.store.PendingIDs(ctx)
	if err != nil {
		return fmt.Errorf("reading pending triggers: %w", err)
	}
	prefix := TriggerPrefix(medicationID)
	var stale []string
	for _, id := range pending {
		if strings.HasPrefix(id, prefix) {
			stale = append(stale, id)
		}
	}
	if len(stale) == 0 {
		return nil
	}
	return s.store.Cancel(ctx, stale)
}

func (s *Scheduler) loggedSlots(ctx context.Context, medicationID uuid.UUID, from, to time.Time) (map[int64]bool, error) {
	entries, err := s.ledger.ListByMedication(ctx, medicationID, from, to)
	if err != nil {
		return nil, err
	}
	logged := make(map[int64]bool, len(entries))
	for _, e := range entries {
		if e.Status == doselog.StatusTaken || e.Status == doselog.StatusSkipped {
			logged[medication.MinuteOf(e.ScheduledTime).Unix()] = true
		}
	}
	return logged, nil
}

// ResyncAll resyncs every medication. Failures are per-medication: one broken
// schedule does not stop the sweep.
func (s *Scheduler) ResyncAll(ctx context.Context) error {
	if !s.opts.Enabled {
		return nil
	}
	meds, err := s.meds.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, med := range meds {
		if _, err := s.Resync(ctx, med.ID); err != nil {
			s.log.Error().Err(err).Str("medication_id", med.ID.String()).Msg("reminder resync failed")
		}
	}
	return nil
}
