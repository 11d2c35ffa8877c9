package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/riandyrn/otelchi"

	fsmadapter "github.com/neomorfeo/spacebuilder/internal/adapter/fsm"
	handler "github.com/neomorfeo/spacebuilder/internal/adapter/http"
	oteladapter "github.com/neomorfeo/spacebuilder/internal/adapter/otel"
	riveradapter "github.com/neomorfeo/spacebuilder/internal/adapter/river"
	"github.com/neomorfeo/spacebuilder/internal/adapter/sqlite"
	"github.com/neomorfeo/spacebuilder/internal/adapter/storefront"
	"github.com/neomorfeo/spacebuilder/internal/app"
	"github.com/neomorfeo/spacebuilder/internal/domain"
)

const (
	serviceName    = "spacebuilder"
	serviceVersion = "0.1.0"
)

func main() {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("loading .env", "error", err)
	}

	if err := run(); err != nil {
		slog.Error("spacebuilder exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	port := envOrDefault("PORT", "8080")
	dbPath := envOrDefault("DATABASE_PATH", "spacebuilder.db")
	storeURL := envOrDefault("STOREFRONT_URL", "http://localhost:9292")

	ctx := context.Background()

	// --- Telemetry ---
	providers, err := oteladapter.Setup(ctx, oteladapter.ConfigFromEnv())
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			slog.Warn("otel shutdown", "error", err)
		}
	}()

	// --- Catalog ---
	catalog := loadCatalog(os.Getenv("CATALOG_PATH"))
	images := loadVariantImages(os.Getenv("VARIANT_IMAGES_PATH"))

	// --- Adapters (out) ---
	db, err := oteladapter.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	repo, err := sqlite.NewFromDB(db)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	store, err := storefront.New(storeURL)
	if err != nil {
		return fmt.Errorf("storefront: %w", err)
	}

	riverClient, err := riveradapter.Setup(ctx, db, store)
	if err != nil {
		return fmt.Errorf("river: %w", err)
	}
	if err := riverClient.Start(ctx); err != nil {
		return fmt.Errorf("river start: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := riverClient.Stop(stopCtx); err != nil {
			slog.Warn("river stop", "error", err)
		}
	}()

	publisher, err := oteladapter.NewTracingPublisher(riveradapter.NewPublisher(riverClient))
	if err != nil {
		return fmt.Errorf("event metrics: %w", err)
	}

	// --- Application ---
	svc := app.NewSessionService(
		catalog,
		oteladapter.NewTracingRepository(repo),
		publisher,
		fsmadapter.New(),
		store,
		riveradapter.NewMailer(riverClient),
	)

	// --- Adapters (in) ---
	router := chi.NewMux()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(router)))

	api := humachi.New(router, huma.DefaultConfig(serviceName, serviceVersion))
	handler.Register(api, svc, images)

	// --- Server ---
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("spacebuilder listening", "port", port, "docs", "http://localhost:"+port+"/docs")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-done:
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	}
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("stopped")
	return nil
}

// loadCatalog reads the catalog payload at path. Anything missing or
// malformed degrades to the empty catalog so the API still starts.
func loadCatalog(path string) domain.Catalog {
	if path == "" {
		slog.Warn("CATALOG_PATH not set, serving an empty catalog")
		return domain.EmptyCatalog()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("reading catalog, serving an empty catalog", "path", path, "error", err)
		return domain.EmptyCatalog()
	}

	catalog, err := domain.ParseCatalog(data)
	if err != nil {
		slog.Warn("parsing catalog, serving an empty catalog", "path", path, "error", err)
	}
	return catalog
}

// loadVariantImages reads the variant image payload at path. Without it
// the preload endpoint returns an empty list.
func loadVariantImages(path string) domain.VariantImages {
	if path == "" {
		return domain.VariantImages{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("reading variant images", "path", path, "error", err)
		return domain.VariantImages{}
	}

	images, err := domain.ParseVariantImages(data)
	if err != nil {
		slog.Warn("parsing variant images", "path", path, "error", err)
	}
	return images
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
