package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dialdirectory/web/internal/config"
	"github.com/dialdirectory/web/internal/handler"
	"github.com/dialdirectory/web/internal/logging"
	"github.com/dialdirectory/web/internal/repository"
	"github.com/dialdirectory/web/internal/service"
	"github.com/dialdirectory/web/internal/storage"
	"github.com/dialdirectory/web/internal/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("config load failed", "error", err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	pool, err := repository.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	pages, err := view.New()
	if err != nil {
		logging.Fatal("template parse failed", "error", err)
	}
	if err := os.MkdirAll(cfg.MediaDir, 0o755); err != nil {
		logging.Fatal("media dir unavailable", "dir", cfg.MediaDir, "error", err)
	}
	store := storage.NewLocalStorage(cfg.MediaDir, cfg.MediaURL)

	userRepo := repository.NewPgUserRepository(pool)
	sessionRepo := repository.NewPgSessionRepository(pool)
	listingRepo := repository.NewPgListingRepository(pool)
	categoryRepo := repository.NewPgCategoryRepository(pool)
	templateRepo := repository.NewPgTemplateRepository(pool)
	contactRepo := repository.NewPgContactRepository(pool)

	authService := service.NewAuthService(userRepo, cfg.StaffUsernames)
	sessionService := service.NewSessionService(sessionRepo, userRepo, cfg.SessionTTL)
	listingService := service.NewListingService(listingRepo, store)
	categoryService := service.NewCategoryService(categoryRepo, listingRepo, store)
	templateService := service.NewTemplateService(templateRepo, store)
	contactService := service.NewContactService(contactRepo)
	dashboardService := service.NewDashboardService(listingRepo, categoryRepo, contactRepo)

	limiter := handler.NewRateLimiter(cfg.RateLimitPerMinute)
	defer limiter.Close()

	routes := &handler.Routes{
		Health:     handler.New(pool, cfg.MediaDir),
		Site:       handler.NewSiteHandler(pages, listingService, categoryService, templateService),
		Listings:   handler.NewListingHandler(pages, listingService, categoryService, store),
		Categories: handler.NewCategoryHandler(pages, categoryService, templateService, store),
		Templates:  handler.NewTemplateHandler(pages, templateService),
		Contact:    handler.NewContactHandler(pages, contactService),
		Auth:       handler.NewAuthHandler(pages, authService, sessionService, cfg.SecureCookies),
		Dashboard:  handler.NewDashboardHandler(pages, dashboardService),
		Sessions:   sessionService,
		Limiter:    limiter,
		Pages:      pages,
		MediaURL:   cfg.MediaURL,
		MediaDir:   cfg.MediaDir,
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           routes.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
