package handler

import (
	"log/slog"
	"net/http"

	"pitchdeck/internal/httputil"
	"pitchdeck/internal/repository/deckstore"
	"pitchdeck/internal/service/export"
	"pitchdeck/internal/service/presentation"
	"pitchdeck/internal/themes"
)

// ExportHandler serves deck downloads: the paginated PDF and the verbatim
// JSON interchange format.
type ExportHandler struct {
	store    *deckstore.Store
	exporter presentation.Exporter
	registry *themes.Registry
	logger   *slog.Logger
}

// NewExportHandler creates a new export handler.
func NewExportHandler(store *deckstore.Store, exporter presentation.Exporter, registry *themes.Registry, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		store:    store,
		exporter: exporter,
		registry: registry,
		logger:   logger,
	}
}

// ExportPDF renders a persisted deck to PDF through a presentation
// controller, honoring the optional ?theme= query parameter.
// GET /api/decks/{id}/export/pdf
func (h *ExportHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "deck id is required")
		return
	}

	ctrl, err := presentation.NewFromStore(r.Context(), id, presentation.Deps{
		Store:    h.store,
		Exporter: h.exporter,
		Themes:   h.registry,
		Logger:   h.logger,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	defer ctrl.Close()

	if theme := r.URL.Query().Get("theme"); theme != "" {
		if err := ctrl.SetTheme(theme); err != nil {
			respondDomainError(w, err)
			return
		}
	}

	doc, err := ctrl.Export(r.Context())
	if err != nil {
		h.logger.Error("pdf export failed", "id", id, "error", err)
		respondDomainError(w, err)
		return
	}

	httputil.RespondDownload(w, doc.ContentType, doc.Filename, doc.Data)
}

// ExportJSON serves a deck serialized verbatim for interchange.
// GET /api/decks/{id}/export/json
func (h *ExportHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "deck id is required")
		return
	}

	deck, err := h.store.Get(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	doc, err := export.JSON(deck)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	httputil.RespondDownload(w, doc.ContentType, doc.Filename, doc.Data)
}

// ListThemes returns the fixed theme set in definition order.
// GET /api/themes
func (h *ExportHandler) ListThemes(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.registry.List())
}
