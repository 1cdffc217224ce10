// Package reconcile joins generated schedule instances with logged dose
// entries into a single dose timeline, and derives the display state of each
// dose from the current time.
package reconcile

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/domain/doselog"
	"github.com/medtrack/medtrack/internal/domain/medication"
)

// Display states. Stored statuses pass through unchanged; pending doses are
// further split by ViewStatus into upcoming, due or missed depending on now.
const (
	StatePending  = doselog.StatusPending
	StateTaken    = doselog.StatusTaken
	StateSkipped  = doselog.StatusSkipped
	StateUpcoming = "upcoming"
	StateDue      = "due"
	StateMissed   = "missed"
)

// Instance is one dose slot in the reconciled timeline.
type Instance struct {
	MedicationID  uuid.UUID  `json:"medication_id"`
	ScheduledTime time.Time  `json:"scheduled_time"`
	Status        string     `json:"status"`
	TakenTime     *time.Time `json:"taken_time,omitempty"`
}

// Classify merges the schedule's instances in [from, to) with the logged
// entries for the same window. A slot with a matching entry takes the entry's
// stored status; a slot with no entry is pending. Entries whose minute slot
// no longer falls on the schedule grid (the schedule was re-anchored after
// they were logged) are kept, so recorded history never disappears. The
// result is sorted by time with at most one instance per minute.
func Classify(medicationID uuid.UUID, sched medication.Schedule, entries []*doselog.Entry, from, to time.Time) []Instance {
	// Keyed by unix seconds, not time.Time: equal instants in different
	// locations must land on the same slot.
	bySlot := make(map[int64]*doselog.Entry, len(entries))
	for _, e := range entries {
		bySlot[medication.MinuteOf(e.ScheduledTime).Unix()] = e
	}

	var out []Instance
	seen := make(map[int64]bool)
	for _, t := range sched.Expand(from, to) {
		inst := Instance{MedicationID: medicationID, ScheduledTime: t, Status: StatePending}
		if e, ok := bySlot[t.Unix()]; ok {
			inst.Status = e.Status
			inst.TakenTime = e.TakenTime
		}
		out = append(out, inst)
		seen[t.Unix()] = true
	}

	for _, e := range entries {
		slot := medication.MinuteOf(e.ScheduledTime)
		if seen[slot.Unix()] || slot.Before(from) || !slot.Before(to) {
			continue
		}
		out = append(out, Instance{
			MedicationID:  medicationID,
			ScheduledTime: slot,
			Status:        e.Status,
			TakenTime:     e.TakenTime,
		})
		seen[slot.Unix()] = true
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledTime.Before(out[j].ScheduledTime)
	})
	return out
}

// ViewStatus maps a stored status to its display state at now. Pending doses
// in the past are missed; pending doses within actionWindow before their slot
// are due; pending doses further out are upcoming.
func ViewStatus(inst Instance, now time.Time, actionWindow time.Duration) string {
	if inst.Status != StatePending {
		return inst.Status
	}
	if inst.ScheduledTime.Before(now) {
		return StateMissed
	}
	if !inst.ScheduledTime.After(now.Add(actionWindow)) {
		return StateDue
	}
	return StateUpcoming
}

// Actionable reports whether a dose may be acted on at now: from actionWindow
// before its slot until 24 hours after it.
func Actionable(inst Instance, now time.Time, actionWindow time.Duration) bool {
	start := inst.ScheduledTime.Add(-actionWindow)
	end := inst.ScheduledTime.Add(24 * time.Hour)
	return !now.Before(start) && now.Before(end)
}
