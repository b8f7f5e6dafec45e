package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"pitchdeck/internal/config"
	"pitchdeck/internal/handler"
	"pitchdeck/internal/kv"
	"pitchdeck/internal/middleware"
	"pitchdeck/internal/repository/deckstore"
	"pitchdeck/internal/service/export"
	"pitchdeck/internal/service/generation"
	"pitchdeck/internal/themes"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	// Pick the backing medium: postgres when configured, local file otherwise.
	ctx := context.Background()
	var backing kv.Store
	if cfg.DatabaseURL != "" {
		pool, err := kv.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		backing, err = kv.NewPostgresStore(ctx, pool, cfg.StoreTable)
		if err != nil {
			log.Fatalf("Failed to initialize postgres store: %v", err)
		}
		logger.Info("using postgres store", "table", cfg.StoreTable)
	} else {
		fileStore, err := kv.NewFileStore(cfg.DataDir, "pitchdecks.json")
		if err != nil {
			log.Fatalf("Failed to initialize file store: %v", err)
		}
		backing = fileStore
		logger.Info("using file store", "dir", cfg.DataDir)
	}

	store := deckstore.New(backing, logger)

	// Theme registry
	themeRegistry, err := themes.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load theme registry: %v", err)
	}

	// Generation collaborator
	var generator generation.Generator
	if cfg.OpenAIAPIKey != "" {
		generator, err = generation.NewOpenAIGenerator(generation.OpenAIConfig{
			APIKey:     cfg.OpenAIAPIKey,
			Model:      cfg.OpenAIModel,
			ImageModel: cfg.OpenAIImgModel,
			Timeout:    cfg.GenerateTimeout,
		}, logger)
		if err != nil {
			log.Fatalf("Failed to create generator: %v", err)
		}
	} else {
		logger.Warn("OPENAI_API_KEY not set, deck generation disabled")
		generator = generation.Unavailable{}
	}

	// Exporter
	exporter := export.NewPDFExporter(nil, cfg.ExportImageTimeout, logger)

	// Handlers
	deckHandler := handler.NewDeckHandler(store, generator, logger)
	exportHandler := handler.NewExportHandler(store, exporter, themeRegistry, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", deckHandler.HealthCheck)

	// Deck routes
	mux.HandleFunc("POST /api/decks/generate", deckHandler.GenerateDeck)
	mux.HandleFunc("POST /api/decks", deckHandler.SaveDeck)
	mux.HandleFunc("GET /api/decks", deckHandler.ListDecks)
	mux.HandleFunc("GET /api/decks/{id}", deckHandler.GetDeck)
	mux.HandleFunc("DELETE /api/decks/{id}", deckHandler.DeleteDeck)

	// Export routes
	mux.HandleFunc("GET /api/decks/{id}/export/pdf", exportHandler.ExportPDF)
	mux.HandleFunc("GET /api/decks/{id}/export/json", exportHandler.ExportJSON)

	// Theme routes
	mux.HandleFunc("GET /api/themes", exportHandler.ListThemes)

	// Build middleware chain: recovery closest to the handlers so the
	// request log records the 500 it writes.
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLog(logger)(h)

	// CORS - must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept"},
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // exports fetch remote images
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
