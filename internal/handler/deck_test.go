package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"pitchdeck/internal/domain/models"
	"pitchdeck/internal/kv"
	"pitchdeck/internal/repository/deckstore"
	"pitchdeck/internal/service/export"
	"pitchdeck/internal/themes"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func testFormData() models.FormData {
	return models.FormData{
		CompanyName:              "Acme",
		StartupIdea:              "cheap rockets",
		ProblemStatement:         "rockets are expensive",
		Solution:                 "cheaper rockets",
		MarketDescription:        "aerospace",
		MarketSize:               "$10B",
		TargetCustomer:           "space agencies",
		Competitors:              "incumbents",
		UniqueSellingProposition: "reusability",
		RevenueModel:             "per launch",
		MarketingStrategy:        "demos",
		TeamMembers:              "two engineers",
		FundingNeeds:             "$5M",
	}
}

// stubGenerator returns a canned result or error.
type stubGenerator struct {
	result *models.GenerationResult
	err    error
}

func (s *stubGenerator) Generate(ctx context.Context, formData models.FormData) (*models.GenerationResult, error) {
	return s.result, s.err
}

func newTestRouter(t *testing.T, generator *stubGenerator) (*http.ServeMux, *deckstore.Store) {
	t.Helper()

	store := deckstore.New(kv.NewMemoryStore(), testLogger())
	registry, err := themes.NewRegistry()
	if err != nil {
		t.Fatalf("load theme registry: %v", err)
	}
	if generator == nil {
		generator = &stubGenerator{result: &models.GenerationResult{Slides: []models.GeneratedSlide{}}}
	}

	exporter := export.NewPDFExporter(nil, time.Second, testLogger())
	deckHandler := NewDeckHandler(store, generator, testLogger())
	exportHandler := NewExportHandler(store, exporter, registry, testLogger())

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/decks/generate", deckHandler.GenerateDeck)
	mux.HandleFunc("POST /api/decks", deckHandler.SaveDeck)
	mux.HandleFunc("GET /api/decks", deckHandler.ListDecks)
	mux.HandleFunc("GET /api/decks/{id}", deckHandler.GetDeck)
	mux.HandleFunc("DELETE /api/decks/{id}", deckHandler.DeleteDeck)
	mux.HandleFunc("GET /api/decks/{id}/export/pdf", exportHandler.ExportPDF)
	mux.HandleFunc("GET /api/decks/{id}/export/json", exportHandler.ExportJSON)
	mux.HandleFunc("GET /api/themes", exportHandler.ListThemes)

	return mux, store
}

func saveTestDeck(t *testing.T, store *deckstore.Store) string {
	t.Helper()
	slides := []models.Slide{
		{Title: "Market", Content: []string{"Big", "Growing"}, ImagePrompt: "chart", ImageURL: ""},
	}
	id, err := store.Save(context.Background(), "Acme", slides, testFormData())
	if err != nil {
		t.Fatalf("seed deck: %v", err)
	}
	return id
}

func TestGenerateDeck_ReturnsUnsavedDeck(t *testing.T) {
	generator := &stubGenerator{result: &models.GenerationResult{
		Slides: []models.GeneratedSlide{
			{Title: "Problem", Content: []string{"expensive"}, ImagePrompt: "chart"},
		},
	}}
	mux, _ := newTestRouter(t, generator)

	body, _ := json.Marshal(map[string]interface{}{"formData": testFormData()})
	req := httptest.NewRequest(http.MethodPost, "/api/decks/generate", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var deck models.PitchDeck
	if err := json.Unmarshal(rec.Body.Bytes(), &deck); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if deck.ID != "" {
		t.Errorf("generated deck must be unsaved, got id %q", deck.ID)
	}
	if len(deck.Slides) != 1 {
		t.Errorf("expected 1 slide, got %d", len(deck.Slides))
	}
}

func TestGenerateDeck_IncompleteFormIsRejected(t *testing.T) {
	mux, _ := newTestRouter(t, nil)

	form := testFormData()
	form.FundingNeeds = ""
	body, _ := json.Marshal(map[string]interface{}{"formData": form})
	req := httptest.NewRequest(http.MethodPost, "/api/decks/generate", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestGenerateDeck_MalformedGenerationIsBadGateway(t *testing.T) {
	mux, _ := newTestRouter(t, &stubGenerator{result: &models.GenerationResult{}})

	body, _ := json.Marshal(map[string]interface{}{"formData": testFormData()})
	req := httptest.NewRequest(http.MethodPost, "/api/decks/generate", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSaveDeck_ReturnsAssignedID(t *testing.T) {
	mux, store := newTestRouter(t, nil)

	payload := map[string]interface{}{
		"companyName": "Acme",
		"slides": []models.Slide{
			{Title: "Team", Content: []string{"Founders"}, ImagePrompt: "people"},
		},
		"formData": testFormData(),
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/decks", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["id"] == "" {
		t.Fatal("expected an assigned id")
	}

	deck, err := store.Get(context.Background(), resp["id"])
	if err != nil {
		t.Fatalf("saved deck not retrievable: %v", err)
	}
	if deck.CompanyName != "Acme" {
		t.Errorf("company: %s", deck.CompanyName)
	}
}

func TestSaveDeck_MissingSlidesPersistsEmptySequence(t *testing.T) {
	mux, _ := newTestRouter(t, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"companyName": "Acme",
		"formData":    testFormData(),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/decks", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/decks/"+resp["id"], nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	// The slides field must be an empty array, never null, so interchange
	// consumers always see an ordered sequence.
	var deck models.PitchDeck
	if err := json.Unmarshal(rec.Body.Bytes(), &deck); err != nil {
		t.Fatalf("decode deck: %v", err)
	}
	if deck.Slides == nil {
		t.Error("deck saved without slides round-trips as null")
	}
}

func TestGetDeck_UnknownIDIs404(t *testing.T) {
	mux, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/decks/no-such-id", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("expected problem+json, got %s", ct)
	}
}

func TestDeleteDeck_ThenGetIs404(t *testing.T) {
	mux, store := newTestRouter(t, nil)
	id := saveTestDeck(t, store)

	req := httptest.NewRequest(http.MethodDelete, "/api/decks/"+id, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/decks/"+id, nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestDeleteDeck_UnknownIDIsNoOp(t *testing.T) {
	mux, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/decks/no-such-id", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for unknown id, got %d", rec.Code)
	}
}

func TestListDecks_EmptyIsJSONArray(t *testing.T) {
	mux, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/decks", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected empty array, got %s", body)
	}
}

func TestExportPDF_DownloadHeaders(t *testing.T) {
	mux, store := newTestRouter(t, nil)
	id := saveTestDeck(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/decks/"+id+"/export/pdf", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type: %s", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="Acme_pitch_deck.pdf"` {
		t.Errorf("content disposition: %s", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("body is not a PDF")
	}
}

func TestExportPDF_UnknownThemeIsRejected(t *testing.T) {
	mux, store := newTestRouter(t, nil)
	id := saveTestDeck(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/decks/"+id+"/export/pdf?theme=neon", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown theme, got %d", rec.Code)
	}
}

func TestExportJSON_RoundTrip(t *testing.T) {
	mux, store := newTestRouter(t, nil)
	id := saveTestDeck(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/decks/"+id+"/export/json", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="Acme_pitch_deck.json"` {
		t.Errorf("content disposition: %s", cd)
	}

	var deck models.PitchDeck
	if err := json.Unmarshal(rec.Body.Bytes(), &deck); err != nil {
		t.Fatalf("payload is not a deck: %v", err)
	}
	if deck.ID != id {
		t.Errorf("expected id %s, got %s", id, deck.ID)
	}
}

func TestListThemes(t *testing.T) {
	mux, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/themes", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var list []themes.Theme
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode themes: %v", err)
	}
	if len(list) != 4 {
		t.Errorf("expected 4 themes, got %d", len(list))
	}
	if len(list) > 0 && list[0].Name != "default" {
		t.Errorf("first theme: %s", list[0].Name)
	}
}

var errGeneratorDown = errors.New("upstream unavailable")

func TestGenerateDeck_GeneratorFailureIs500(t *testing.T) {
	mux, _ := newTestRouter(t, &stubGenerator{err: errGeneratorDown})

	body, _ := json.Marshal(map[string]interface{}{"formData": testFormData()})
	req := httptest.NewRequest(http.MethodPost, "/api/decks/generate", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
