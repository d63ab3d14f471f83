package analytics

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/admin/analytics", h.summary)
	api.GET("/admin/analytics/daily", h.daily)
	api.POST("/admin/analytics", h.record)
}

func (h *Handler) summary(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	sum, err := h.svc.Summarize(c.Request().Context(), days)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *Handler) daily(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	snaps, err := h.svc.Range(c.Request().Context(), days)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, snaps)
}

func (h *Handler) record(c echo.Context) error {
	var snap Snapshot
	if err := c.Bind(&snap); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.Record(c.Request().Context(), &snap); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, snap)
}
