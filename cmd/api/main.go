package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	server "lightbnb/internal/adapters/http_server"
	"lightbnb/internal/adapters/observability"
	redisad "lightbnb/internal/adapters/redis"
	"lightbnb/internal/app"
	"lightbnb/internal/shared"
	"lightbnb/internal/storage"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	repo, closeStore, err := storage.Open(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("store init failed")
	}
	defer closeStore()

	// deps
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	q := app.NewQueryService(repo, cache, cfg.CacheTTL)
	c := app.NewCommandService(repo, cache)

	// http
	srv := server.New(server.Options{Timeout: 15 * time.Second, RateRPS: cfg.RateRPS, RateBurst: cfg.RateBurst})
	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, C: c})

	log.Info().Str("addr", cfg.HTTPAddr).Str("driver", cfg.StoreDriver).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
