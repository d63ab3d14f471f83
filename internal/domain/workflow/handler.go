package workflow

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/workflow/sessions", h.StartSession)
	api.GET("/workflow/sessions/:id", h.GetSession)
	api.POST("/workflow/sessions/:id/events", h.ApplyEvent)
	api.DELETE("/workflow/sessions/:id", h.EndSession)
}

func (h *Handler) StartSession(c echo.Context) error {
	var body struct {
		UserID uuid.UUID `json:"user_id"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sess, err := h.svc.StartSession(c.Request().Context(), body.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, sess)
}

func (h *Handler) GetSession(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	sess, err := h.svc.GetSession(c.Request().Context(), id)
	if err != nil {
		return sessionError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *Handler) ApplyEvent(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var ev Event
	if err := c.Bind(&ev); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sess, err := h.svc.Apply(c.Request().Context(), id, ev)
	if err != nil {
		return sessionError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *Handler) EndSession(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.EndSession(c.Request().Context(), id); err != nil {
		return sessionError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func sessionError(err error) error {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	case errors.Is(err, ErrIllegalEvent):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
