package medication

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medtrack/medtrack/internal/domain/ownership"
	"github.com/medtrack/medtrack/internal/platform/auth"
	"github.com/medtrack/medtrack/internal/platform/medlookup"
)

type Handler struct {
	svc   *Service
	guard *ownership.Guard
}

func NewHandler(svc *Service, guard *ownership.Guard) *Handler {
	return &Handler{svc: svc, guard: guard}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/medications/search", h.SearchNames)
	api.GET("/medications/:id", h.Get)
	api.PUT("/medications/:id", h.Update)
	api.DELETE("/medications/:id", h.Delete)
	api.POST("/treatments/:id/medications", h.Create)
	api.GET("/treatments/:id/medications", h.ListByTreatment)
}

func (h *Handler) Create(c echo.Context) error {
	treatmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid treatment id")
	}
	owner := auth.UserIDFromContext(c.Request().Context())
	if err := h.guard.Treatment(c.Request().Context(), owner, treatmentID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "treatment not found")
	}
	var m Medication
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m.TreatmentID = treatmentID
	if err := h.svc.Create(c.Request().Context(), &m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	owner := auth.UserIDFromContext(c.Request().Context())
	if err := h.guard.Medication(c.Request().Context(), owner, id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medication not found")
	}
	m, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medication not found")
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	owner := auth.UserIDFromContext(c.Request().Context())
	if err := h.guard.Medication(c.Request().Context(), owner, id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medication not found")
	}
	existing, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medication not found")
	}
	var m Medication
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m.ID = id
	m.TreatmentID = existing.TreatmentID
	if err := h.svc.Update(c.Request().Context(), &m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	owner := auth.UserIDFromContext(c.Request().Context())
	if err := h.guard.Medication(c.Request().Context(), owner, id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medication not found")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medication not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListByTreatment(c echo.Context) error {
	treatmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid treatment id")
	}
	owner := auth.UserIDFromContext(c.Request().Context())
	if err := h.guard.Treatment(c.Request().Context(), owner, treatmentID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "treatment not found")
	}
	meds, err := h.svc.ListByTreatment(c.Request().Context(), treatmentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, meds)
}

func (h *Handler) SearchNames(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}
	suggestions := h.svc.SuggestNames(c.Request().Context(), q)
	if suggestions == nil {
		suggestions = []medlookup.Suggestion{}
	}
	return c.JSON(http.StatusOK, suggestions)
}
