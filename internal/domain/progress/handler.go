package progress

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medtrack/medtrack/internal/domain/ownership"
	"github.com/medtrack/medtrack/internal/platform/auth"
)

type Handler struct {
	svc   *Service
	guard *ownership.Guard
}

func NewHandler(svc *Service, guard *ownership.Guard) *Handler {
	return &Handler{svc: svc, guard: guard}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/medications/:id/progress", h.Medication)
	api.GET("/treatments/:id/progress", h.Treatment)
}

func (h *Handler) Medication(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid medication id")
	}
	owner := auth.UserIDFromContext(c.Request().Context())
	if err := h.guard.Medication(c.Request().Context(), owner, id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medication not found")
	}
	report, err := h.svc.Medication(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medication not found")
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) Treatment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid treatment id")
	}
	owner := auth.UserIDFromContext(c.Request().Context())
	if err := h.guard.Treatment(c.Request().Context(), owner, id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "treatment not found")
	}
	rollup, err := h.svc.Treatment(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rollup)
}
