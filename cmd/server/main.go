package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sentiment-web/internal/config"
	"sentiment-web/internal/handler"
	"sentiment-web/internal/logging"
	"sentiment-web/internal/ml_client"
	"sentiment-web/internal/monitor"
	"sentiment-web/internal/repository"
	"sentiment-web/internal/server"
	"sentiment-web/internal/service"
	"sentiment-web/internal/session"
)

func main() {
	envLoaded, envErr := config.LoadEnv(".env")

	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Sentiment Web...")
	if envErr != nil {
		logger.Warn("Failed to load .env file", zap.Error(envErr))
	} else if !envLoaded {
		logger.Debug("No .env file found, using environment and config file")
	}

	// Initialize storage
	storage, err := repository.New(repository.Options{
		Driver: cfg.Database.Type,
		DSN:    cfg.Database.Path,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	// Initialize sentiment API client
	client := ml_client.NewClient(cfg.API.BaseURL, ml_client.Options{
		Timeout:       cfg.API.Timeout,
		UploadTimeout: cfg.API.UploadTimeout,
	}, logger)
	logger.Info("Sentiment API configured", zap.String("base_url", client.BaseURL()))

	// Visitor sessions
	secret := cfg.Session.Secret
	if secret == "" {
		secret, err = session.GenerateSecret()
		if err != nil {
			logger.Fatal("Failed to generate session secret", zap.Error(err))
		}
		logger.Warn("Session secret not configured, visitor history will not survive a restart")
	}
	sessions, err := session.NewManager(session.SigningKey(secret), cfg.Session.TTL, cfg.Session.Secure, logger)
	if err != nil {
		logger.Fatal("Failed to initialize sessions", zap.Error(err))
	}

	// Initialize services
	health := monitor.New(client, cfg.Monitor.Interval, logger)
	batch := service.NewBatch(client, logger)
	h := handler.NewHandler(handler.Deps{
		Predictor:      service.NewPredictor(client, storage, logger),
		Home:           service.NewHome(client, logger),
		Batch:          batch,
		Dashboard:      service.NewDashboard(client, logger),
		Storage:        storage,
		Monitor:        health,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	}, logger)

	gin.SetMode(cfg.Server.Mode)
	router, err := server.NewRouter(h, sessions, logger)
	if err != nil {
		logger.Fatal("Failed to build router", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(":"+cfg.Server.Port, router, cfg.Server.ShutdownTimeout, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(ctx) })
	g.Go(func() error { return health.Run(ctx) })
	g.Go(func() error { return batch.RunJanitor(ctx, cfg.Batch.SweepInterval, cfg.Batch.IdleTTL) })

	logger.Info("Sentiment Web is running", zap.String("port", cfg.Server.Port))

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}
