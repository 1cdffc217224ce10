package doselog

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medtrack/medtrack/internal/domain/medication"
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
	api.POST("/medications/:id/doses", h.Record)
}

func (h *Handler) Record(c echo.Context) error {
	medicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid medication id")
	}
	owner := auth.UserIDFromContext(c.Request().Context())
	if err := h.guard.Medication(c.Request().Context(), owner, medicationID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medication not found")
	}
	var in RecordInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	entry, err := h.svc.Record(c.Request().Context(), medicationID, in)
	if err != nil {
		if errors.Is(err, medication.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medication not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, entry)
}
