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

	_ "puppaka/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"puppaka/internal/auth"
	"puppaka/internal/cache"
	"puppaka/internal/config"
	"puppaka/internal/db"
	"puppaka/internal/handler"
	"puppaka/internal/metrics"
	appmw "puppaka/internal/middleware"
	"puppaka/internal/repository"
	"puppaka/internal/router"
	"puppaka/internal/service"
	"puppaka/internal/upload"
	"puppaka/internal/view"
	"puppaka/web"
)

const shutdownTimeout = 10 * time.Second

// @title PUPPAKA API
// @version 1.0
// @description Read-only JSON API over the published posts and projects of the PUPPAKA site.
// @host localhost:3000
// @BasePath /api
// @schemes http
func main() {
	cfg := config.Load()
	slog.SetDefault(newLogger(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		fatal("invalid configuration", err)
	}

	gormDB, err := db.Open(db.OptionsFromConfig(cfg))
	if err != nil {
		fatal("database init", err)
	}

	sessionCache := newSessionCache(cfg)

	// Repositories
	postRepo := repository.NewPostRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)
	contactRepo := repository.NewContactRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)

	images, err := upload.NewLocalStore(cfg.UploadDir, cfg.UploadMaxBytes)
	if err != nil {
		fatal("upload dir", err)
	}
	renderer, err := view.New(web.FS, web.TemplateRoot)
	if err != nil {
		fatal("parse templates", err)
	}
	m := metrics.New()

	// Auth components
	tokens := auth.NewTokenService(cfg.SessionSecret, cfg.SessionTTL)
	sessions := auth.NewSessionStore(sessionCache)

	// Services
	authService := service.NewAuthService(userRepo, tokens, sessions, m)
	contentService := service.NewContentService(postRepo, projectRepo)
	adminService := service.NewAdminService(postRepo, projectRepo, contactRepo, images, m)
	contactService := service.NewContactService(contactRepo, m)

	readiness := appmw.NewReadiness(router.AlwaysOpenPaths...)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	router.Register(e, cfg, router.Handlers{
		Public: handler.NewPublicHandler(contentService, contactService),
		Auth:   handler.NewAuthHandler(authService, cfg.SecureCookies),
		Admin:  handler.NewAdminHandler(adminService, authService),
		API:    handler.NewAPIHandler(contentService),
		Health: handler.NewHealthHandler(func(ctx context.Context) error { return db.Ping(ctx, gormDB) }, readiness),
	}, router.Dependencies{
		Tokens:    tokens,
		Sessions:  authService,
		Readiness: readiness,
		Metrics:   m,
		Renderer:  renderer,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.ServerPort
	go func() {
		slog.Info("server listening", "addr", addr, "storage", cfg.StorageBackend, "swagger", "/swagger/index.html")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server start", err)
		}
	}()

	// Requests other than the health probes get 503 until the store is ready.
	go bootstrap(ctx, gormDB, cfg, readiness)

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	if closer, ok := sessionCache.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func bootstrap(ctx context.Context, gormDB *gorm.DB, cfg *config.Config, readiness *appmw.Readiness) {
	_, err := service.NewBootstrapper(gormDB, service.BootstrapOptions{
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
		AdminEmail:    cfg.AdminEmail,
		SeedExamples:  cfg.SeedExamples,
	}).Run(ctx)
	if err != nil {
		fatal("bootstrap", err)
	}
	readiness.MarkReady()
	slog.Info("ready")
}

// newSessionCache uses Redis when REDIS_ADDR is set and the in-process cache otherwise.
func newSessionCache(cfg *config.Config) cache.Store {
	if cfg.RedisAddr == "" {
		return cache.NewMemory()
	}
	client := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		fatal("redis ping", err)
	}
	return client
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
