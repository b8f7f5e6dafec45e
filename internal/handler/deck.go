package handler

import (
	"log/slog"
	"net/http"
	"time"

	"pitchdeck/internal/domain/models"
	"pitchdeck/internal/httputil"
	"pitchdeck/internal/repository/deckstore"
	deckSvc "pitchdeck/internal/service/deck"
	"pitchdeck/internal/service/generation"
)

// DeckHandler handles deck lifecycle HTTP requests.
type DeckHandler struct {
	store     *deckstore.Store
	generator generation.Generator
	logger    *slog.Logger
}

// NewDeckHandler creates a new deck handler.
func NewDeckHandler(store *deckstore.Store, generator generation.Generator, logger *slog.Logger) *DeckHandler {
	return &DeckHandler{
		store:     store,
		generator: generator,
		logger:    logger,
	}
}

// GenerateDeck validates the form, calls the generation collaborator and
// returns an unsaved deck (id empty).
// POST /api/decks/generate
func (h *DeckHandler) GenerateDeck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FormData models.FormData `json:"formData"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := deckSvc.ValidateForm(&req.FormData); err != nil {
		respondDomainError(w, err)
		return
	}

	generated, err := h.generator.Generate(r.Context(), req.FormData)
	if err != nil {
		h.logger.Error("slide generation failed", "company", req.FormData.CompanyName, "error", err)
		respondDomainError(w, err)
		return
	}

	deck, err := deckSvc.Build(req.FormData, generated)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	h.logger.Info("deck generated",
		"company", deck.CompanyName,
		"slides", len(deck.Slides),
	)
	httputil.RespondJSON(w, http.StatusOK, deck)
}

// SaveDeck persists a deck and returns the assigned id.
// POST /api/decks
func (h *DeckHandler) SaveDeck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompanyName string          `json:"companyName"`
		Slides      []models.Slide  `json:"slides"`
		FormData    models.FormData `json:"formData"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CompanyName == "" {
		httputil.RespondError(w, http.StatusBadRequest, "companyName is required")
		return
	}
	// An absent slides field persists as an empty sequence, never null.
	if req.Slides == nil {
		req.Slides = []models.Slide{}
	}

	id, err := h.store.Save(r.Context(), req.CompanyName, req.Slides, req.FormData)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// ListDecks returns all persisted decks in insertion order.
// GET /api/decks
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := h.store.List(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, decks)
}

// GetDeck returns a single deck by id.
// GET /api/decks/{id}
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
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
	httputil.RespondJSON(w, http.StatusOK, deck)
}

// DeleteDeck removes a deck. Deleting an unknown id is a no-op.
// DELETE /api/decks/{id}
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "deck id is required")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple health check endpoint.
// GET /health
func (h *DeckHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	})
}
