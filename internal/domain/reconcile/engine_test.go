package reconcile

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/domain/doselog"
	"github.com/medtrack/medtrack/internal/domain/medication"
)

var anchor = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func sched(freqHours, days int) medication.Schedule {
	return medication.Schedule{Anchor: anchor, FrequencyHours: freqHours, DurationDays: days}
}

func entry(medID uuid.UUID, at time.Time, status string, taken *time.Time) *doselog.Entry {
	return &doselog.Entry{ID: uuid.New(), MedicationID: medID, ScheduledTime: at, Status: status, TakenTime: taken}
}

func TestClassify_UnloggedSlotsArePending(t *testing.T) {
	medID := uuid.New()
	got := Classify(medID, sched(8, 1), nil, anchor, anchor.AddDate(0, 0, 1))
	if len(got) != 3 {
		t.Fatalf("expected 3 instances, got %d", len(got))
	}
	for _, inst := range got {
		if inst.Status != StatePending {
			t.Errorf("instance at %v: expected pending, got %s", inst.ScheduledTime, inst.Status)
		}
	}
}

func TestClassify_MatchedEntryKeepsStoredStatus(t *testing.T) {
	medID := uuid.New()
	takenAt := anchor.Add(8*time.Hour + 3*time.Minute)
	entries := []*doselog.Entry{
		entry(medID, anchor.Add(8*time.Hour), doselog.StatusTaken, &takenAt),
		entry(medID, anchor.Add(16*time.Hour), doselog.StatusSkipped, nil),
	}
	got := Classify(medID, sched(8, 1), entries, anchor, anchor.AddDate(0, 0, 1))
	if len(got) != 3 {
		t.Fatalf("expected 3 instances, got %d", len(got))
	}
	if got[0].Status != StatePending || got[1].Status != StateTaken || got[2].Status != StateSkipped {
		t.Errorf("unexpected statuses: %s %s %s", got[0].Status, got[1].Status, got[2].Status)
	}
	if got[1].TakenTime == nil || !got[1].TakenTime.Equal(takenAt) {
		t.Errorf("taken time not carried through: %v", got[1].TakenTime)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	medID := uuid.New()
	entries := []*doselog.Entry{entry(medID, anchor, doselog.StatusTaken, &anchor)}
	from, to := anchor, anchor.AddDate(0, 0, 1)

	first := Classify(medID, sched(8, 1), entries, from, to)
	second := Classify(medID, sched(8, 1), entries, from, to)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("instance %d differs between runs", i)
		}
	}
}

func TestClassify_SubMinuteEntryMatchesSlot(t *testing.T) {
	medID := uuid.New()
	offGrid := anchor.Add(8*time.Hour + 42*time.Second)
	entries := []*doselog.Entry{entry(medID, offGrid, doselog.StatusTaken, nil)}

	got := Classify(medID, sched(8, 1), entries, anchor, anchor.AddDate(0, 0, 1))
	if len(got) != 3 {
		t.Fatalf("expected 3 instances, got %d", len(got))
	}
	if got[1].Status != StateTaken {
		t.Errorf("sub-minute entry did not match its slot: %s", got[1].Status)
	}
}

func TestClassify_OrphanEntrySurvivesReanchor(t *testing.T) {
	medID := uuid.New()
	// Entry was logged against the original 08:00 slot; the schedule has
	// since been re-anchored to 08:25, so 08:00 is no longer on the grid.
	entries := []*doselog.Entry{entry(medID, anchor, doselog.StatusTaken, nil)}
	shifted := medication.Schedule{Anchor: anchor.Add(25 * time.Minute), FrequencyHours: 8, DurationDays: 1}

	got := Classify(medID, shifted, entries, anchor, anchor.AddDate(0, 0, 1))
	if len(got) != 4 {
		t.Fatalf("expected 3 grid slots plus 1 orphan, got %d", len(got))
	}
	if !got[0].ScheduledTime.Equal(anchor) || got[0].Status != StateTaken {
		t.Errorf("orphan entry missing or misplaced: %+v", got[0])
	}
	for i := 1; i < len(got); i++ {
		if got[i].ScheduledTime.Before(got[i-1].ScheduledTime) {
			t.Errorf("output not sorted at index %d", i)
		}
	}
}

func TestClassify_AtMostOnePerSlot(t *testing.T) {
	medID := uuid.New()
	entries := []*doselog.Entry{entry(medID, anchor.Add(30*time.Second), doselog.StatusSkipped, nil)}
	got := Classify(medID, sched(8, 1), entries, anchor, anchor.AddDate(0, 0, 1))

	seen := map[int64]bool{}
	for _, inst := range got {
		key := inst.ScheduledTime.Unix()
		if seen[key] {
			t.Fatalf("duplicate slot at %v", inst.ScheduledTime)
		}
		seen[key] = true
	}
}

func TestViewStatus_PendingSplitsByNow(t *testing.T) {
	window := 4 * time.Hour
	inst := Instance{ScheduledTime: anchor, Status: StatePending}

	cases := []struct {
		name string
		now  time.Time
		want string
	}{
		{"long before", anchor.Add(-5 * time.Hour), StateUpcoming},
		{"window opens", anchor.Add(-window), StateDue},
		{"just inside", anchor.Add(-time.Minute), StateDue},
		{"at slot", anchor, StateDue},
		{"after slot", anchor.Add(time.Minute), StateMissed},
	}
	for _, tc := range cases {
		if got := ViewStatus(inst, tc.now, window); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestViewStatus_StoredStatusWins(t *testing.T) {
	inst := Instance{ScheduledTime: anchor, Status: StateTaken}
	if got := ViewStatus(inst, anchor.Add(48*time.Hour), 4*time.Hour); got != StateTaken {
		t.Errorf("expected taken regardless of now, got %s", got)
	}
}

func TestActionable_WindowBounds(t *testing.T) {
	window := 4 * time.Hour
	inst := Instance{ScheduledTime: anchor, Status: StatePending}

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before window", anchor.Add(-window - time.Minute), false},
		{"window start", anchor.Add(-window), true},
		{"at slot", anchor, true},
		{"23h59m after", anchor.Add(24*time.Hour - time.Minute), true},
		{"24h after", anchor.Add(24 * time.Hour), false},
	}
	for _, tc := range cases {
		if got := Actionable(inst, tc.now, window); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
