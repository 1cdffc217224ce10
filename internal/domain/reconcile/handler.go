package reconcile

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medtrack/medtrack/internal/domain/ownership"
	"github.com/medtrack/medtrack/internal/platform/auth"
	"github.com/medtrack/medtrack/pkg/pagination"
)

type Handler struct {
	svc   *Service
	guard *ownership.Guard
}

func NewHandler(svc *Service, guard *ownership.Guard) *Handler {
	return &Handler{svc: svc, guard: guard}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/medications/:id/doses", h.MedicationDoses)
	api.GET("/profiles/:id/day", h.DayView)
}

// MedicationDoses serves the reconciled timeline of one medication. The
// window defaults to the current day when from/to are omitted.
func (h *Handler) MedicationDoses(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid medication id")
	}
	owner := auth.UserIDFromContext(c.Request().Context())
	if err := h.guard.Medication(c.Request().Context(), owner, id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medication not found")
	}
	from, to, err := windowParams(c, h.svc.clock.Now())
	if err != nil {
		return err
	}
	views, err := h.svc.MedicationDoses(c.Request().Context(), id, from, to)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medication not found")
	}

	p := pagination.FromContext(c)
	total := len(views)
	if p.Offset > total {
		p.Offset = total
	}
	end := p.Offset + p.Limit
	if end > total {
		end = total
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(views[p.Offset:end], total, p.Limit, p.Offset))
}

func (h *Handler) DayView(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid profile id")
	}
	owner := auth.UserIDFromContext(c.Request().Context())
	if err := h.guard.Profile(c.Request().Context(), owner, id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "profile not found")
	}
	day := h.svc.clock.Now()
	if d := c.QueryParam("date"); d != "" {
		day, err = time.Parse("2006-01-02", d)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
	}
	views, err := h.svc.DayView(c.Request().Context(), id, day)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, views)
}

func windowParams(c echo.Context, now time.Time) (time.Time, time.Time, error) {
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)

	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "from must be RFC 3339")
		}
		from = t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "to must be RFC 3339")
		}
		to = t
	}
	return from, to, nil
}
