package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"api_sales/internal/config"
	"api_sales/internal/database"
	"api_sales/internal/logger"
	"api_sales/internal/sales"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	count := flag.Int("n", sales.DefaultSeedCount, "number of random sales to insert")
	seed := flag.Uint64("seed", 0, "random seed, 0 picks one from the clock")
	flag.Parse()

	if err := run(*count, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(count int, seed uint64) error {
	if count <= 0 {
		return fmt.Errorf("-n must be positive, got %d", count)
	}
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logg.Sync()

	ctx := context.Background()
	dbClient, err := database.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	storage := sales.NewGormStorage(dbClient)
	if err := storage.Migrate(ctx); err != nil {
		return err
	}

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	records := sales.SeedRecords(rand.New(rand.NewPCG(seed, seed)), count, time.Now())
	n, err := storage.BulkCreate(ctx, records)
	if err != nil {
		return err
	}

	logg.Info("database seeded", zap.Int("records", n), zap.Uint64("seed", seed))
	return nil
}
