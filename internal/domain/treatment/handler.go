package treatment

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
	api.POST("/profiles/:id/treatments", h.Create)
	api.GET("/profiles/:id/treatments", h.ListByProfile)
	api.GET("/treatments/:id", h.Get)
	api.PUT("/treatments/:id", h.Update)
	api.DELETE("/treatments/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid profile id")
	}
	owner := auth.UserIDFromContext(c.Request().Context())
	if err := h.guard.Profile(c.Request().Context(), owner, profileID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "profile not found")
	}
	var t Treatment
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t.ProfileID = profileID
	if err := h.svc.Create(c.Request().Context(), &t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) ListByProfile(c echo.Context) error {
	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid profile id")
	}
	owner := auth.UserIDFromContext(c.Request().Context())
	if err := h.guard.Profile(c.Request().Context(), owner, profileID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "profile not found")
	}
	treatments, err := h.svc.ListByProfile(c.Request().Context(), profileID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if treatments == nil {
		treatments = []*Treatment{}
	}
	return c.JSON(http.StatusOK, treatments)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	owner := auth.UserIDFromContext(c.Request().Context())
	if err := h.guard.Treatment(c.Request().Context(), owner, id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "treatment not found")
	}
	t, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "treatment not found")
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	owner := auth.UserIDFromContext(c.Request().Context())
	if err := h.guard.Treatment(c.Request().Context(), owner, id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "treatment not found")
	}
	existing, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "treatment not found")
	}
	var t Treatment
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t.ID = id
	t.ProfileID = existing.ProfileID
	if err := h.svc.Update(c.Request().Context(), &t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	owner := auth.UserIDFromContext(c.Request().Context())
	if err := h.guard.Treatment(c.Request().Context(), owner, id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "treatment not found")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "treatment not found")
	}
	return c.NoContent(http.StatusNoContent)
}
