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

	"github.com/KrappRamiro/zero2prod/internal/config"
	pg "github.com/KrappRamiro/zero2prod/internal/infra/db/postgres"
	"github.com/KrappRamiro/zero2prod/internal/infra/email"
	"github.com/KrappRamiro/zero2prod/internal/infra/logging"
	"github.com/KrappRamiro/zero2prod/internal/infra/metrics"
	red "github.com/KrappRamiro/zero2prod/internal/infra/redis"
	"github.com/KrappRamiro/zero2prod/internal/infra/web"
	"github.com/KrappRamiro/zero2prod/internal/infra/worker"
	"github.com/KrappRamiro/zero2prod/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, no sampling)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, int32(cfg.Database.MaxConns))
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	idemStore := red.NewIdempotencyStore(redisClient, cfg.Redis.IdempotencyTTL)

	// ---- Repositories ----
	subscriberRepo := pg.NewPostgresSubscriberRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Email delivery ----
	emailClient, err := email.NewClient(cfg.Email.BaseURL, cfg.Email.Sender, cfg.Email.AuthorizationToken, cfg.Email.Timeout())
	if err != nil {
		logger.Fatal().Err(err).Msg("email client")
	}

	// ---- Broadcast worker pool ----
	sendPool := worker.NewPool(cfg.Publish.Workers, logger)
	sendPool.Start(ctx)
	defer sendPool.Stop()

	// ---- Use cases ----
	subscribeUC := usecase.NewSubscriptionUseCase(subscriberRepo, txManager, emailClient, cfg.Application.BaseURL, logger)
	confirmUC := usecase.NewConfirmationUseCase(subscriberRepo, txManager, logger)
	publishUC := usecase.NewPublishUseCase(subscriberRepo, emailClient, sendPool, idemStore, logger)

	// ---- HTTP server ----
	srv := web.NewServer(subscribeUC, confirmUC, publishUC, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown")
	}
	cancel()
}
