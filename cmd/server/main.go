package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dedupe/internal/billing"
	"dedupe/internal/engine"
	engineMetrics "dedupe/internal/engine/metrics"
	"dedupe/internal/platform/config"
	"dedupe/internal/platform/httpserver"
	"dedupe/internal/platform/logger"
	"dedupe/internal/platform/redis"
	runMetrics "dedupe/internal/run/metrics"
	"dedupe/internal/run/service"
	"dedupe/internal/run/store"
	"dedupe/internal/token"
	httptransport "dedupe/internal/transport/http"
)

// main wires dependencies and owns the server lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	rdb, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}

	var runStore store.Store
	if rdb != nil {
		runStore = store.NewRedisStore(rdb.Client)
		log.Info("using redis run store")
	} else {
		runStore = store.NewInMemoryStore()
		log.Info("using in-memory run store")
	}

	engCfg := engine.DefaultConfig()
	engCfg.NameThreshold = cfg.NameThreshold
	eng, err := engine.New(engCfg, engine.WithMetrics(engineMetrics.New()))
	if err != nil {
		log.Error("engine configuration invalid", "error", err)
		os.Exit(1)
	}

	pricing := billing.Pricing{
		FreeTierLimit:    cfg.FreeTierLimit,
		PricePerRowCents: cfg.PricePerRowCents,
	}
	runSvc, err := service.New(runStore, eng, pricing, cfg.RunTTL,
		service.WithLogger(log),
		service.WithMetrics(runMetrics.New()),
	)
	if err != nil {
		log.Error("run service configuration invalid", "error", err)
		os.Exit(1)
	}

	signer := token.NewSigner(cfg.SigningKey, cfg.DownloadTokenTTL)

	opts := []httptransport.Option{}
	if cfg.StripeSecretKey != "" {
		opts = append(opts, httptransport.WithCheckout(
			billing.NewStripeCheckout(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.BaseURL)))
	} else {
		log.Warn("stripe not configured, checkout endpoints disabled")
	}
	if rdb != nil {
		opts = append(opts, httptransport.WithHealthCheck(rdb.Health))
	}

	handler := httptransport.New(runSvc, signer, log, opts...)
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler, log))

	go func() {
		log.Info("server starting", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
