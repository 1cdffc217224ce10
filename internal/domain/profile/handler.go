package profile

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medtrack/medtrack/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/profiles", h.Create)
	api.GET("/profiles", h.List)
	api.GET("/profiles/:id", h.Get)
	api.PUT("/profiles/:id", h.Update)
	api.DELETE("/profiles/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var p Profile
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	owner := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.Create(c.Request().Context(), owner, &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) List(c echo.Context) error {
	owner := auth.UserIDFromContext(c.Request().Context())
	profiles, err := h.svc.ListByOwner(c.Request().Context(), owner)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if profiles == nil {
		profiles = []*Profile{}
	}
	return c.JSON(http.StatusOK, profiles)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	owner := auth.UserIDFromContext(c.Request().Context())
	p, err := h.svc.GetOwned(c.Request().Context(), owner, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "profile not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p Profile
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	owner := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.Update(c.Request().Context(), owner, &p); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) {
			return echo.NewHTTPError(http.StatusNotFound, "profile not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	owner := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.Delete(c.Request().Context(), owner, id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "profile not found")
	}
	return c.NoContent(http.StatusNoContent)
}
