package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "cleansweep/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cleansweep/internal/auth"
	"cleansweep/internal/cache"
	"cleansweep/internal/config"
	"cleansweep/internal/db"
	"cleansweep/internal/handler"
	"cleansweep/internal/logging"
	"cleansweep/internal/repository"
	"cleansweep/internal/router"
	"cleansweep/internal/service"
	"cleansweep/internal/telemetry"
	"cleansweep/internal/upload"
)

// @title CleanSweep API
// @version 1.0
// @description Citizen waste reporting with media uploads, points, rewards and admin roles.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.NewProvider(ctx, cfg.OTLPEndpoint, logger)
	if err != nil {
		logger.Fatal("telemetry init", zap.Error(err))
	}

	store, closeStore, err := repository.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("store init", zap.Error(err))
	}
	logger.Info("store connected", zap.String("driver", cfg.StoreDriver), zap.String("target", storeTarget(cfg)))

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, serving without cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	media, err := upload.NewDiskStorage(cfg.UploadDir, cfg.MaxUploadBytes, logger)
	if err != nil {
		logger.Fatal("upload dir init", zap.Error(err))
	}

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	activity := service.NewActivityRecorder(store.Activity, logger)
	userService := service.NewUserService(store.Users, store.Redemptions, cacheClient, activity, logger)
	authService := service.NewAuthService(store.Users, jwtService, activity, logger,
		service.WithRoleChanged(userService.Invalidate),
	)
	leaderboard := service.NewLeaderboardService(store.Users, cacheClient, cfg.LeaderboardSize, logger)
	reportService := service.NewReportService(store.Reports, store.Users, media, activity, logger,
		service.WithPointsPerReport(cfg.PointsPerReport),
		service.WithPointsChanged(func(ctx context.Context, userID string) {
			userService.Invalidate(ctx, userID)
			leaderboard.Invalidate(ctx)
		}),
	)
	adminService := service.NewAdminService(store.Users, store.Reports, activity, logger)

	e := echo.New()
	router.Register(e, cfg, logger, authService, router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Admin:  handler.NewAdminHandler(adminService),
		Report: handler.NewReportHandler(reportService),
		User:   handler.NewUserHandler(userService, leaderboard),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           telemetry.Wrap(e),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			zap.String("addr", server.Addr),
			zap.String("swagger", swaggerURL(cfg)),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	activity.Close()
	if err := closeStore(shutdownCtx); err != nil {
		logger.Error("store close", zap.Error(err))
	}
	if err := cacheClient.Close(); err != nil {
		logger.Warn("redis close", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("telemetry shutdown", zap.Error(err))
	}
}

func storeTarget(cfg *config.Config) string {
	if cfg.StoreDriver == config.DriverMySQL {
		return "mysql"
	}
	return db.RedactURI(cfg.MongoURI) + "/" + cfg.MongoDB
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return strings.TrimRight(host, "/") + "/swagger/index.html"
}
