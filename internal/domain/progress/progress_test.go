package progress

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/domain/doselog"
	"github.com/medtrack/medtrack/internal/domain/medication"
)

var anchor = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func entries(medID uuid.UUID, statuses ...string) []*doselog.Entry {
	out := make([]*doselog.Entry, len(statuses))
	for i, s := range statuses {
		out[i] = &doselog.Entry{
			ID:            uuid.New(),
			MedicationID:  medID,
			ScheduledTime: anchor.Add(time.Duration(i) * 8 * time.Hour),
			Status:        s,
		}
	}
	return out
}

func TestCompute_PartialCourse(t *testing.T) {
	medID := uuid.New()
	sched := medication.Schedule{Anchor: anchor, FrequencyHours: 8, DurationDays: 1}

	r := Compute(medID, sched, entries(medID, doselog.StatusTaken, doselog.StatusSkipped))
	if r.Expected != 3 {
		t.Fatalf("expected 3 instances, got %d", r.Expected)
	}
	if r.Logged != 2 || r.Taken != 1 || r.Skipped != 1 {
		t.Errorf("unexpected counts: logged=%d taken=%d skipped=%d", r.Logged, r.Taken, r.Skipped)
	}
	if math.Abs(r.Progress-2.0/3.0) > 1e-9 {
		t.Errorf("expected progress 2/3, got %f", r.Progress)
	}
	if r.IsCompleted {
		t.Error("partial course reported as completed")
	}
}

func TestCompute_PendingDoesNotCount(t *testing.T) {
	medID := uuid.New()
	sched := medication.Schedule{Anchor: anchor, FrequencyHours: 8, DurationDays: 1}

	r := Compute(medID, sched, entries(medID, doselog.StatusPending, doselog.StatusPending))
	if r.Logged != 0 || r.Progress != 0 {
		t.Errorf("pending entries counted toward progress: logged=%d progress=%f", r.Logged, r.Progress)
	}
}

func TestCompute_NoInstances(t *testing.T) {
	medID := uuid.New()
	r := Compute(medID, medication.Schedule{}, nil)
	if r.Expected != 0 || r.Progress != 0 || r.IsCompleted {
		t.Errorf("empty schedule should report zero progress and not be completed: %+v", r)
	}
}

func TestCompute_ClampsOverlogging(t *testing.T) {
	medID := uuid.New()
	sched := medication.Schedule{Anchor: anchor, FrequencyHours: 8, DurationDays: 1}

	r := Compute(medID, sched, entries(medID,
		doselog.StatusTaken, doselog.StatusTaken, doselog.StatusTaken, doselog.StatusTaken))
	if r.Progress != 1 {
		t.Errorf("expected progress clamped to 1, got %f", r.Progress)
	}
	if !r.IsCompleted {
		t.Error("over-logged course should be completed")
	}
}

func TestCompute_FullCourse(t *testing.T) {
	medID := uuid.New()
	sched := medication.Schedule{Anchor: anchor, FrequencyHours: 8, DurationDays: 1}

	r := Compute(medID, sched, entries(medID,
		doselog.StatusTaken, doselog.StatusSkipped, doselog.StatusTaken))
	if r.Progress != 1 || !r.IsCompleted {
		t.Errorf("full course should complete at progress 1: %+v", r)
	}
}

func TestAggregate_MeanAndCompletion(t *testing.T) {
	tid := uuid.New()
	ru := Aggregate(tid, []Report{
		{Expected: 4, Logged: 4, Progress: 1, IsCompleted: true},
		{Expected: 4, Logged: 2, Progress: 0.5},
	})
	if math.Abs(ru.Progress-0.75) > 1e-9 {
		t.Errorf("expected mean progress 0.75, got %f", ru.Progress)
	}
	if ru.IsCompleted {
		t.Error("rollup completed while one course is open")
	}
	if ru.Expected != 8 || ru.Logged != 6 {
		t.Errorf("unexpected totals: expected=%d logged=%d", ru.Expected, ru.Logged)
	}
}

func TestAggregate_Empty(t *testing.T) {
	ru := Aggregate(uuid.New(), nil)
	if ru.Progress != 0 || ru.IsCompleted {
		t.Errorf("empty treatment should be zero and open: %+v", ru)
	}
	if ru.Medications == nil {
		t.Error("medications should serialize as an empty list")
	}
}

type mockMedStore struct{ meds []*medication.Medication }

func (m *mockMedStore) GetByID(_ context.Context, id uuid.UUID) (*medication.Medication, error) {
	for _, med := range m.meds {
		if med.ID == id {
			return med, nil
		}
	}
	return nil, medication.ErrNotFound
}

func (m *mockMedStore) ListByTreatment(_ context.Context, tid uuid.UUID) ([]*medication.Medication, error) {
	var out []*medication.Medication
	for _, med := range m.meds {
		if med.TreatmentID == tid {
			out = append(out, med)
		}
	}
	return out, nil
}

// mockLedger mirrors the SQL repo: the unwindowed read returns everything,
// regardless of where the schedule's current window lies.
type mockLedger struct{ entries []*doselog.Entry }

func (m *mockLedger) ListAllByMedication(_ context.Context, medID uuid.UUID) ([]*doselog.Entry, error) {
	var out []*doselog.Entry
	for _, e := range m.entries {
		if e.MedicationID == medID {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestService_CountsEntriesLoggedBeforeReanchor(t *testing.T) {
	// The 08:00 dose was taken, then the schedule re-anchored to 08:25, so
	// the entry's slot now predates the anchor. It must still count.
	med := &medication.Medication{
		ID:             uuid.New(),
		TreatmentID:    uuid.New(),
		Name:           "Amoxicillin",
		AnchorTime:     anchor.Add(25 * time.Minute),
		FrequencyHours: 8,
		DurationDays:   1,
	}
	ledger := &mockLedger{entries: []*doselog.Entry{{
		ID:            uuid.New(),
		MedicationID:  med.ID,
		ScheduledTime: anchor,
		Status:        doselog.StatusTaken,
	}}}
	svc := NewService(&mockMedStore{meds: []*medication.Medication{med}}, ledger)

	r, err := svc.Medication(context.Background(), med.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Logged != 1 || r.Taken != 1 {
		t.Errorf("entry logged before the re-anchor dropped from progress: logged=%d taken=%d", r.Logged, r.Taken)
	}
	if math.Abs(r.Progress-1.0/3.0) > 1e-9 {
		t.Errorf("expected progress 1/3, got %f", r.Progress)
	}
}

func TestService_TreatmentRollsUpAllMedications(t *testing.T) {
	tid := uuid.New()
	a := &medication.Medication{ID: uuid.New(), TreatmentID: tid, Name: "Amoxicillin", AnchorTime: anchor, FrequencyHours: 8, DurationDays: 1}
	b := &medication.Medication{ID: uuid.New(), TreatmentID: tid, Name: "Ibuprofen", AnchorTime: anchor, FrequencyHours: 12, DurationDays: 1}
	ledger := &mockLedger{entries: []*doselog.Entry{
		{ID: uuid.New(), MedicationID: a.ID, ScheduledTime: anchor, Status: doselog.StatusTaken},
	}}
	svc := NewService(&mockMedStore{meds: []*medication.Medication{a, b}}, ledger)

	ru, err := svc.Treatment(context.Background(), tid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ru.Medications) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(ru.Medications))
	}
	if ru.Expected != 5 || ru.Logged != 1 {
		t.Errorf("unexpected totals: expected=%d logged=%d", ru.Expected, ru.Logged)
	}
}

func TestAggregate_AllComplete(t *testing.T) {
	ru := Aggregate(uuid.New(), []Report{
		{Expected: 2, Logged: 2, Progress: 1, IsCompleted: true},
		{Expected: 6, Logged: 6, Progress: 1, IsCompleted: true},
	})
	if !ru.IsCompleted || ru.Progress != 1 {
		t.Errorf("expected completed rollup: %+v", ru)
	}
}
