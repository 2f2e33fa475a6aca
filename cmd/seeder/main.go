package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"lightbnb/internal/adapters/fixtures"
	"lightbnb/internal/adapters/observability"
	redisad "lightbnb/internal/adapters/redis"
	"lightbnb/internal/app"
	"lightbnb/internal/shared"
	"lightbnb/internal/storage"
)

func main() {
	os.Exit(run())
}

func run() (exitCode int) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	log.Info().
		Str("dir", cfg.SeedDir).
		Str("driver", cfg.StoreDriver).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	repo, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("store init failed")
		return 1
	}
	defer closeStore()

	// Seeding bumps the search cache generation so the API stops serving stale pages.
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()

	cmd := app.NewCommandService(repo, cache)
	seed := app.NewSeedService(fixtures.New(cfg.SeedDir), cmd, cfg.SeedWorkers)

	rep, err := seed.Seed(ctx)
	if err != nil {
		log.Error().Err(err).Msg("seeding failed")
		exitCode = 1
		return
	}
	log.Info().
		Int("users", rep.Users).
		Int("properties", rep.Properties).
		Int("reviews", rep.Reviews).
		Int("skipped", rep.Skipped).
		Msg("seeding completed")
	return 0
}
