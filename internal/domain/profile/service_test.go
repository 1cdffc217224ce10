package profile

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medtrack/medtrack/internal/domain/medication"
)

type mockRepo struct{ store map[uuid.UUID]*Profile }

func newMockRepo() *mockRepo { return &mockRepo{store: make(map[uuid.UUID]*Profile)} }

func (m *mockRepo) Create(_ context.Context, p *Profile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.store[p.ID] = p
	return nil
}
func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Profile, error) {
	p, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}
func (m *mockRepo) Update(_ context.Context, p *Profile) error {
	if _, ok := m.store[p.ID]; !ok {
		return ErrNotFound
	}
	m.store[p.ID] = p
	return nil
}
func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}
func (m *mockRepo) ListByOwner(_ context.Context, owner string) ([]*Profile, error) {
	var out []*Profile
	for _, p := range m.store {
		if p.OwnerUserID == owner {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockMedLister struct{ meds []*medication.Medication }

func (m *mockMedLister) ListByProfile(_ context.Context, _ uuid.UUID) ([]*medication.Medication, error) {
	return m.meds, nil
}

type mockCanceller struct{ cancelled []uuid.UUID }

func (m *mockCanceller) Cancel(_ context.Context, id uuid.UUID) error {
	m.cancelled = append(m.cancelled, id)
	return nil
}

func discard() zerolog.Logger { return zerolog.New(os.Stderr).Level(zerolog.Disabled) }

func TestGetOwned_OtherAccountIsHidden(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil, nil, discard())

	p := &Profile{Name: "Max"}
	if err := svc.Create(context.Background(), "alice", p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetOwned(context.Background(), "bob", p.ID); err != ErrForbidden {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.GetOwned(context.Background(), "alice", p.ID); err != nil {
		t.Errorf("owner denied access: %v", err)
	}
}

func TestCreate_RequiresName(t *testing.T) {
	svc := NewService(newMockRepo(), nil, nil, discard())
	if err := svc.Create(context.Background(), "alice", &Profile{Name: "  "}); err == nil {
		t.Error("expected error for blank name")
	}
}

func TestDelete_CancelsMedicationReminders(t *testing.T) {
	repo := newMockRepo()
	meds := &mockMedLister{meds: []*medication.Medication{
		{ID: uuid.New()}, {ID: uuid.New()},
	}}
	canc := &mockCanceller{}
	svc := NewService(repo, meds, canc, discard())

	p := &Profile{Name: "Max"}
	if err := svc.Create(context.Background(), "alice", p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), "alice", p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(canc.cancelled) != 2 {
		t.Errorf("expected reminders cancelled for 2 medications, got %d", len(canc.cancelled))
	}
	if _, err := repo.GetByID(context.Background(), p.ID); err != ErrNotFound {
		t.Error("profile still present after delete")
	}
}

func TestUpdate_KeepsOwner(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil, nil, discard())

	p := &Profile{Name: "Max"}
	if err := svc.Create(context.Background(), "alice", p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	upd := &Profile{ID: p.ID, Name: "Maximilian", OwnerUserID: "mallory"}
	if err := svc.Update(context.Background(), "alice", upd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := repo.GetByID(context.Background(), p.ID)
	if got.OwnerUserID != "alice" {
		t.Errorf("owner changed to %q", got.OwnerUserID)
	}
}
