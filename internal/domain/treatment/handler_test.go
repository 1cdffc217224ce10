package treatment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medtrack/medtrack/internal/domain/ownership"
	"github.com/medtrack/medtrack/internal/platform/auth"
)

type fixedResolver struct {
	profiles   map[uuid.UUID]string
	treatments map[uuid.UUID]string
}

func (r *fixedResolver) ProfileOwner(_ context.Context, id uuid.UUID) (string, error) {
	owner, ok := r.profiles[id]
	if !ok {
		return "", ownership.ErrNotFound
	}
	return owner, nil
}
func (r *fixedResolver) TreatmentOwner(_ context.Context, id uuid.UUID) (string, error) {
	owner, ok := r.treatments[id]
	if !ok {
		return "", ownership.ErrNotFound
	}
	return owner, nil
}
func (r *fixedResolver) MedicationOwner(_ context.Context, _ uuid.UUID) (string, error) {
	return "", ownership.ErrNotFound
}

func getTreatment(h *Handler, id uuid.UUID, asUser string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/treatments/"+id.String(), nil)
	req = req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, asUser))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	if err := h.Get(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestGet_ForeignTokenGets404(t *testing.T) {
	repo := newMockRepo()
	tr := &Treatment{ProfileID: uuid.New(), Name: "Antibiotics"}
	svc := NewService(repo, nil, nil, discard())
	if err := svc.Create(context.Background(), tr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	guard := ownership.NewGuard(&fixedResolver{
		treatments: map[uuid.UUID]string{tr.ID: "alice"},
	})
	h := NewHandler(svc, guard)

	if rec := getTreatment(h, tr.ID, "bob"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for another account's treatment, got %d", rec.Code)
	}
	if rec := getTreatment(h, tr.ID, "alice"); rec.Code != http.StatusOK {
		t.Errorf("expected 200 for the owner, got %d", rec.Code)
	}
}

func TestListByProfile_UnknownProfileGets404(t *testing.T) {
	svc := NewService(newMockRepo(), nil, nil, discard())
	h := NewHandler(svc, ownership.NewGuard(&fixedResolver{}))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/profiles/x/treatments", nil)
	req = req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, "alice"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	if err := h.ListByProfile(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown profile, got %d", rec.Code)
	}
}
