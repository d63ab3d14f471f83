package docgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ErrNotFound is returned by Source implementations when the consultation
// does not exist.
var ErrNotFound = errors.New("consultation not found")

// Source supplies the consultation content documents are built from and
// records the generated files on the consultation.
type Source interface {
	DocumentData(ctx context.Context, consultationID uuid.UUID) (Data, error)
	AttachDocument(ctx context.Context, consultationID uuid.UUID, kind, filename, url string) error
}

// Storage persists a rendered PDF and returns its download URL.
type Storage interface {
	Store(ctx context.Context, consultationID uuid.UUID, filename string, content []byte) (string, error)
}

type Handler struct {
	source  Source
	storage Storage
}

func NewHandler(source Source, storage Storage) *Handler {
	return &Handler{source: source, storage: storage}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/consultations/:id/documents/available", h.available)
	api.POST("/consultations/:id/documents/generate", h.generate)
	api.GET("/consultations/:id/documents/:kind/pdf", h.download)
}

type generateRequest struct {
	Kinds []string `json:"kinds"`
}

type generatedDocument struct {
	Kind     string `json:"kind"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

func (h *Handler) available(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid consultation id")
	}
	data, err := h.source.DocumentData(c.Request().Context(), id)
	if err != nil {
		return sourceError(err)
	}
	kinds := Available(data)
	if kinds == nil {
		kinds = []string{}
	}
	return c.JSON(http.StatusOK, map[string][]string{"kinds": kinds})
}

// generate renders the requested document kinds, stores the PDFs, and
// attaches them to the consultation. An empty kinds list renders every kind
// the consultation has content for.
func (h *Handler) generate(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid consultation id")
	}
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	data, err := h.source.DocumentData(ctx, id)
	if err != nil {
		return sourceError(err)
	}

	kinds := req.Kinds
	if len(kinds) == 0 {
		kinds = Available(data)
	}
	if len(kinds) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "consultation has no content to generate documents from")
	}

	out := make([]generatedDocument, 0, len(kinds))
	for _, kind := range kinds {
		g, err := Generate(kind, data)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("generate %s: %v", kind, err))
		}
		url, err := h.storage.Store(ctx, id, g.Filename, g.Content)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("store %s: %v", g.Filename, err))
		}
		if err := h.source.AttachDocument(ctx, id, g.Kind, g.Filename, url); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("attach %s: %v", g.Filename, err))
		}
		out = append(out, generatedDocument{Kind: g.Kind, Filename: g.Filename, URL: url})
	}
	return c.JSON(http.StatusCreated, map[string]any{"documents": out})
}

// download renders a single document on the fly and streams the PDF back
// without storing or attaching it.
func (h *Handler) download(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid consultation id")
	}
	data, err := h.source.DocumentData(c.Request().Context(), id)
	if err != nil {
		return sourceError(err)
	}
	g, err := Generate(c.Param("kind"), data)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, g.Filename))
	return c.Blob(http.StatusOK, "application/pdf", g.Content)
}

func sourceError(err error) *echo.HTTPError {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
