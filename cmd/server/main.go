package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/falzahrani7002-debug/gggpro/internal/blob"
	"github.com/falzahrani7002-debug/gggpro/internal/config"
	"github.com/falzahrani7002-debug/gggpro/internal/document"
	internalhttp "github.com/falzahrani7002-debug/gggpro/internal/http"
	"github.com/falzahrani7002-debug/gggpro/internal/livesync"
	"github.com/falzahrani7002-debug/gggpro/internal/session"
	"github.com/falzahrani7002-debug/gggpro/internal/store"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		docs store.DocumentStore
		ach  store.AchievementStore
	)
	if cfg.DatabaseURL != "" {
		pool, err := store.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db connection failed: %v", err)
		}
		defer pool.Close()

		if cfg.RedisAddr == "" {
			log.Fatalf("REDIS_ADDR is required when DATABASE_URL is set")
		}
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatalf("redis ping failed: %v", err)
		}
		cancel()
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Printf("redis close error: %v", err)
			}
		}()

		pgStore := store.NewPostgresStore(pool, redisClient, cfg.RedisChannel)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			log.Fatalf("schema init failed: %v", err)
		}
		docs, ach = pgStore, pgStore
	} else {
		log.Printf("no DATABASE_URL configured, using local store in %s", cfg.DataDir)
		fileStore, err := store.NewFileStore(cfg.DataDir)
		if err != nil {
			log.Fatalf("local store init failed: %v", err)
		}
		docs, ach = fileStore, fileStore
	}

	seed, err := document.SeedJSON()
	if err != nil {
		log.Fatalf("seed encode failed: %v", err)
	}

	hub := livesync.New(docs, ach, cfg.DocumentKey, seed)
	hub.Register(prometheus.DefaultRegisterer)
	if err := hub.Start(ctx); err != nil {
		log.Fatalf("live sync start failed: %v", err)
	}
	defer hub.Stop()

	blobs, err := blob.NewFSStore(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		log.Fatalf("media store init failed: %v", err)
	}

	sessions := session.NewManager(cfg.AdminPassword, cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL)
	server := internalhttp.NewServer(cfg, docs, ach, sessions, blobs, hub)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("portfolio http listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
