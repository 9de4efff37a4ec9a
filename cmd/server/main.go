package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/vbtech/vbadmin/internal/action"
	"github.com/vbtech/vbadmin/internal/api"
	"github.com/vbtech/vbadmin/internal/cache"
	"github.com/vbtech/vbadmin/internal/config"
	"github.com/vbtech/vbadmin/internal/db"
	"github.com/vbtech/vbadmin/internal/export"
	"github.com/vbtech/vbadmin/internal/middleware"
	"github.com/vbtech/vbadmin/internal/repository"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	conn, err := db.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	if err := db.RunMigrations(cfg.Database, cfg.MigrationsPath); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis-backed view cache when configured, in-process otherwise.
	var store cache.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		store = cache.NewRedis(client)
		logger.Info("using redis view cache", zap.String("addr", cfg.RedisAddr))
	} else {
		store = cache.NewMemory()
		logger.Info("using in-process view cache")
	}

	repos := action.Repositories{
		Payers:     repository.NewPayerRepository(conn),
		Plans:      repository.NewHealthPlanRepository(conn),
		Entities:   repository.NewNetworkEntityRepository(conn),
		Physicians: repository.NewNetworkPhysicianRepository(conn),
		PerfYears:  repository.NewPerfYearRepository(conn),
		Settings:   repository.NewSettingsRepository(conn),
		Licenses:   repository.NewLicenseRepository(conn),
	}

	actions := action.New(repos, store, logger)
	rosterService := export.NewService(repos.Plans, repos.Physicians, repos.Entities)
	mux := api.NewRouter(actions, export.NewHTTPHandler(rosterService, logger), logger)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	handler := middleware.Logging(logger)(
		middleware.UserContext(corsHandler.Handler(mux)),
	)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
