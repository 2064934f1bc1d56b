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

	"mindbridge/backend/internal/ai"
	"mindbridge/backend/internal/api/handler"
	"mindbridge/backend/internal/auth"
	"mindbridge/backend/internal/chathub"
	"mindbridge/backend/internal/config"
	"mindbridge/backend/internal/localization"
	"mindbridge/backend/internal/logging"
	"mindbridge/backend/internal/moderation"
	"mindbridge/backend/internal/storage"
	"mindbridge/backend/internal/wellness"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func setupStore(cfg config.DatabaseConfig) storage.Storage {
	if cfg.UsesMemory() {
		log.Warn().Msg("DATABASE_URL not set, using in-memory store; data is lost on restart")
		return storage.NewMemoryStore()
	}

	db, err := storage.Open(cfg.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect PostgreSQL")
	}
	log.Info().Msg("database connection established, migrations complete")
	return storage.NewStorageService(db)
}

func setupBroker(ctx context.Context, cfg config.RedisConfig) chathub.Broker {
	if !cfg.Enabled() {
		return chathub.NewLocalBroker()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Addr).Msg("failed to connect Redis")
	}
	log.Info().Str("addr", cfg.Addr).Msg("chat fan-out through Redis Pub/Sub")
	return chathub.NewRedisBroker(rdb)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logging.Init(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	gin.SetMode(cfg.Server.Mode)

	log.Info().Msg("starting MindBridge backend")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store := setupStore(cfg.Database)

	hub := chathub.NewManagerService(nil)
	go hub.Run(ctx)

	relay := chathub.NewRelay(store, hub, setupBroker(ctx, cfg.Redis), moderation.Default())
	if err := relay.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start chat broker")
	}

	gateway := ai.FromConfig(cfg.AI, &http.Client{})
	if providers := gateway.Providers(); len(providers) == 0 {
		log.Warn().Msg("no AI provider configured; AI endpoints will answer 500")
	} else {
		log.Info().Strs("providers", providers).Msg("AI providers configured")
	}

	locales, err := localization.Default()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load message catalogues")
	}
	log.Info().Strs("languages", locales.Languages()).Msg("message catalogues loaded")

	h := handler.NewHandler(
		auth.NewService(store, cfg.JWT.Secret, cfg.JWT.TTL),
		wellness.NewService(store, gateway),
		hub,
		relay,
		locales,
	)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: handler.NewRouter(h, cfg.RateLimit.AIPerMinute),
		// Two AI attempts may run back to back.
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   2*cfg.AI.Timeout + 10*time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	// Stopping the hub closes every open socket.
	stop()
	<-hub.Done()
	log.Info().Msg("server exited")
}
