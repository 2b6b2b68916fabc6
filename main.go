package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"api_sales/api"
	"api_sales/internal/config"
	"api_sales/internal/database"
	"api_sales/internal/logger"
	"api_sales/internal/sales"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sales api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logg, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logg.Sync()

	if envErr != nil {
		logg.Warn(".env file not found, relying on environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := database.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("bootstrap database: %w", err)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error("error closing database", zap.Error(err))
		}
	}()

	storage := sales.NewGormStorage(dbClient)
	if cfg.DB.AutoMigrate {
		if err := storage.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	registry := prometheus.NewRegistry()
	salesService := sales.NewService(storage, logg, sales.NewMetrics(registry))

	if cfg.App.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	api.InitRoutes(r, salesService, logg, api.Options{
		MaxUploadBytes: cfg.Import.MaxUploadBytes(),
		Gatherer:       registry,
	})

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("starting sales api", zap.String("addr", addr), zap.String("env", cfg.App.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error trying to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logg.Info("shutting down sales api")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
