package blobstore

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Handler provides the upload and download endpoints.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/uploads", h.handleUpload)
	g.GET("/uploads/:consultationId", h.handleList)
	g.GET("/uploads/:consultationId/:name", h.handleDownload)
	g.DELETE("/uploads/:consultationId/:name", h.handleDelete)
}

func (h *Handler) handleUpload(c echo.Context) error {
	consultationID, err := uuid.Parse(c.FormValue("consultation_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "consultation_id is required"})
	}
	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file is required"})
	}
	if file.Size > MaxFileSize {
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": ErrFileTooLarge.Error()})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to open uploaded file"})
	}
	defer src.Close()

	meta := Metadata{
		ConsultationID: consultationID,
		FileName:       file.Filename,
		ContentType:    file.Header.Get("Content-Type"),
		DocumentType:   c.FormValue("document_type"),
	}

	result, err := h.store.Save(c.Request().Context(), meta, src)
	if err != nil {
		switch {
		case errors.Is(err, ErrFileTooLarge):
			return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": err.Error()})
		case errors.Is(err, ErrInvalidContentType):
			return c.JSON(http.StatusUnsupportedMediaType, map[string]string{"error": err.Error()})
		case errors.Is(err, ErrMissingFileName):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) handleDownload(c echo.Context) error {
	consultationID, err := uuid.Parse(c.Param("consultationId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid consultation id"})
	}
	rc, meta, err := h.store.Open(c.Request().Context(), consultationID, c.Param("name"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	defer rc.Close()

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, meta.FileName))
	return c.Stream(http.StatusOK, meta.ContentType, rc)
}

func (h *Handler) handleList(c echo.Context) error {
	consultationID, err := uuid.Parse(c.Param("consultationId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid consultation id"})
	}
	items, err := h.store.ListByConsultation(c.Request().Context(), consultationID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if items == nil {
		items = []*Metadata{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"items": items, "total": len(items)})
}

func (h *Handler) handleDelete(c echo.Context) error {
	consultationID, err := uuid.Parse(c.Param("consultationId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid consultation id"})
	}
	if err := h.store.Delete(c.Request().Context(), consultationID, c.Param("name")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
