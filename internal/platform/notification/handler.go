package notification

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Handler exposes the document delivery endpoints.
type Handler struct {
	dispatcher *Dispatcher
}

func NewHandler(dispatcher *Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/consultations/:id/send/email", h.sendEmail)
	api.POST("/consultations/:id/send/whatsapp", h.sendWhatsApp)
}

func (h *Handler) sendEmail(c echo.Context) error {
	return h.send(c, ChannelEmail)
}

func (h *Handler) sendWhatsApp(c echo.Context) error {
	return h.send(c, ChannelWhatsApp)
}

func (h *Handler) send(c echo.Context, channel string) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Destination string `json:"destination"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	msg, err := h.dispatcher.SendDocuments(c.Request().Context(), id, channel, body.Destination)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "sent",
		"channel":     msg.Channel,
		"destination": msg.Destination,
	})
}
