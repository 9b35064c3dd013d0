package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"premium-access-service/internal/config"
	"premium-access-service/internal/infra/adapters/push"
	pg "premium-access-service/internal/infra/db/postgres"
	"premium-access-service/internal/infra/logging"
	"premium-access-service/internal/infra/metrics"
	red "premium-access-service/internal/infra/redis"
	"premium-access-service/internal/infra/sched"
	s3store "premium-access-service/internal/infra/storage/s3"
	"premium-access-service/internal/infra/web"
	"premium-access-service/internal/infra/worker"
	"premium-access-service/internal/usecase"

	pushport "premium-access-service/internal/domain/ports/adapter"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema")
	}
	go pg.SamplePoolStats(ctx, pool, 30*time.Second)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	tokenRegistry := red.NewTokenRegistry(redisClient)
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	keyRepo := pg.NewAccessKeyRepo(pool)
	videoRepo := pg.NewVideoRepo(pool)

	// ---- Collaborator adapters ----
	var pushSender pushport.PushSender
	if cfg.Push.Endpoint == "" || cfg.Runtime.Dev {
		pushSender = push.NewNoopSender(logger)
		logger.Warn().Msg("push: no endpoint configured, using noop sender")
	} else {
		pushSender, err = push.NewHTTPSender(cfg.Push.Endpoint, cfg.Push.APIKey)
		if err != nil {
			logger.Fatal().Err(err).Msg("push")
		}
	}
	mediaStore := s3store.NewMediaStore(cfg.Media, logger)

	// ---- Worker pool ----
	workerPool := worker.NewPool(cfg.Workers.Count, logger)
	workerPool.Start(ctx)
	defer workerPool.Stop()

	// ---- Use cases ----
	keysUC := usecase.NewAccessKeyUseCase(keyRepo, logger, nil)
	tokenUC := usecase.NewDeviceTokenUseCase(tokenRegistry, logger)
	notifUC := usecase.NewNotificationUseCase(pushSender, tokenRegistry, workerPool, logger)
	videoUC := usecase.NewVideoUseCase(videoRepo, mediaStore, cfg.Media.MaxUploadMB<<20, logger)

	// ---- HTTP API ----
	auth := web.NewAuthManager(cfg.Security.JWTSecret, !cfg.Runtime.Dev, cfg.Security.SessionTTL)
	srv := web.NewServer(keysUC, tokenUC, notifUC, videoUC, auth, rateLimiter, cfg, logger)
	apiServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Listen.Host, cfg.Listen.Port),
		Handler:      srv.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", apiServer.Addr).Msg("api server listening")
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("api server stopped")
		}
	}()

	// ---- Metrics side port ----
	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())
	adminServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Admin.Port),
		Handler: adminMux,
	}
	go func() {
		logger.Info().Str("addr", adminServer.Addr).Msg("metrics server listening")
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("metrics server stopped")
		}
	}()

	// ---- Stats worker ----
	statsWorker := sched.NewStatsWorker(cfg.Workers.StatsInterval, keysUC, logger)
	go func() { _ = statsWorker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = apiServer.Shutdown(shutdownCtx)
	_ = adminServer.Shutdown(shutdownCtx)
}
