package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "roster/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"roster/internal/auth"
	"roster/internal/cache"
	"roster/internal/config"
	"roster/internal/db"
	"roster/internal/handler"
	"roster/internal/repository"
	"roster/internal/router"
	"roster/internal/service"
)

// @title Employee Roster API
// @version 1.0
// @description Authenticated employee roster with per-row tag and project updates.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	gormDB, err := db.Open(cfg)
	if err != nil {
		logger.Error("database init", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(gormDB); err != nil {
			logger.Error("auto-migrate", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("schema migrated", slog.String("driver", cfg.DBDriver))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	pingCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		logger.Warn("redis unreachable, project cache disabled until it recovers",
			slog.String("addr", cfg.RedisAddr),
			slog.String("error", err.Error()),
		)
	}
	cancel()

	// Initialize repositories
	credentialRepo := repository.NewCredentialRepository(gormDB)
	employeeRepo := repository.NewEmployeeRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)

	// Initialize auth components
	if cfg.JWTSecret == config.DefaultJWTSecret {
		logger.Warn("JWT_SECRET is not set, using the development default")
	}
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	gate := auth.NewGate(jwtService)
	logger.Info("token issuer ready", slog.Duration("token_expiry", jwtService.Expiry()))

	// Initialize services
	authService := service.NewAuthService(credentialRepo, jwtService)
	rosterService := service.NewRosterService(employeeRepo, projectRepo, cacheClient, cfg.ProjectsTTL)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, logger)
	employeeHandler := handler.NewEmployeeHandler(rosterService, logger)
	projectHandler := handler.NewProjectHandler(rosterService, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	router.Register(e, cfg, logger, gate, authHandler, employeeHandler, projectHandler)

	logger.Info("swagger documentation available", slog.String("url", swaggerURL(cfg.SwaggerHost, cfg.ServerPort)))

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server start", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown", slog.String("error", err.Error()))
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// swaggerURL builds the docs link. host may already carry a scheme.
func swaggerURL(host, port string) string {
	if host == "" {
		return "http://localhost:" + port + "/swagger/index.html"
	}
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return strings.TrimRight(host, "/") + "/swagger/index.html"
	}
	return "http://" + host + "/swagger/index.html"
}
