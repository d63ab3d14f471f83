package consultation

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/summari/telemed/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/consultations", h.ListConsultations)
	api.POST("/consultations", h.StartConsultation)
	api.GET("/consultations/:id", h.GetConsultation)
	api.PUT("/consultations/:id", h.UpdateConsultation)
	api.POST("/consultations/:id/complete", h.CompleteConsultation)
	api.GET("/consultations/:id/detail", h.GetDetail)
	api.GET("/consultations/:id/documents", h.ListDocuments)
	api.POST("/consultations/:id/documents", h.AddDocument)
	api.DELETE("/consultations/:id/documents/:docId", h.RemoveDocument)
}

func (h *Handler) StartConsultation(c echo.Context) error {
	var body struct {
		AppointmentID uuid.UUID `json:"appointment_id"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if body.AppointmentID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "appointment_id is required")
	}
	consult, err := h.svc.StartForAppointment(c.Request().Context(), body.AppointmentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, consult)
}

func (h *Handler) GetConsultation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	ctx := c.Request().Context()
	if c.QueryParam("has_data") == "true" {
		consult, err := h.svc.GetConsultation(ctx, id)
		if err != nil {
			return notFoundOr500(err)
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"consultation": consult,
			"has_data":     consult.HasData(),
		})
	}

	consult, err := h.svc.GetConsultation(ctx, id)
	if err != nil {
		return notFoundOr500(err)
	}
	return c.JSON(http.StatusOK, consult)
}

func (h *Handler) GetDetail(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	det, err := h.svc.GetDetail(c.Request().Context(), id)
	if err != nil {
		return notFoundOr500(err)
	}
	return c.JSON(http.StatusOK, det)
}

func (h *Handler) ListConsultations(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{}
	for _, key := range []string{"doctor_id", "patient_id", "status"} {
		if v := c.QueryParam(key); v != "" {
			params[key] = v
		}
	}
	if apptID := c.QueryParam("appointment_id"); apptID != "" {
		id, err := uuid.Parse(apptID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment_id")
		}
		consult, err := h.svc.GetByAppointment(c.Request().Context(), id)
		if err != nil {
			return notFoundOr500(err)
		}
		return c.JSON(http.StatusOK, pagination.NewResponse([]*Consultation{consult}, 1, pg.Limit, pg.Offset))
	}
	items, total, err := h.svc.SearchConsultations(c.Request().Context(), params, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateConsultation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var upd UpdateFields
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	consult, err := h.svc.UpdateConsultation(c.Request().Context(), id, upd)
	if err != nil {
		return notFoundOr500(err)
	}
	return c.JSON(http.StatusOK, consult)
}

func (h *Handler) CompleteConsultation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	consult, err := h.svc.Complete(c.Request().Context(), id)
	if err != nil {
		return notFoundOr500(err)
	}
	return c.JSON(http.StatusOK, consult)
}

func (h *Handler) ListDocuments(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	docs, version, err := h.svc.ListDocuments(c.Request().Context(), id)
	if err != nil {
		return notFoundOr500(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"documents": docs,
		"version":   version,
	})
}

func (h *Handler) AddDocument(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Document Document `json:"document"`
		Version  int      `json:"version"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	consult, err := h.svc.AddDocument(c.Request().Context(), id, body.Document, body.Version)
	if err != nil {
		return documentsError(err)
	}
	return c.JSON(http.StatusOK, consult)
}

func (h *Handler) RemoveDocument(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	docID, err := uuid.Parse(c.Param("docId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid document id")
	}
	var body struct {
		Version int `json:"version"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	consult, err := h.svc.RemoveDocument(c.Request().Context(), id, docID, body.Version)
	if err != nil {
		return documentsError(err)
	}
	return c.JSON(http.StatusOK, consult)
}

func notFoundOr500(err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "consultation not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func documentsError(err error) error {
	switch {
	case errors.Is(err, ErrVersionConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
