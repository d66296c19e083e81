package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"configurator-service/config"
	"configurator-service/internal/api"
	"configurator-service/internal/broker"
	"configurator-service/internal/cart"
	"configurator-service/internal/redisclient"
	"configurator-service/internal/service"
	"configurator-service/internal/store"
	"configurator-service/internal/util"
	"configurator-service/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting configurator service")

	tp, err := util.InitTracer(util.ServiceName, cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicCheckouts)
	defer producer.Close()
	logger.Info("Kafka producer initialized", zap.String("topic", cfg.Kafka.TopicCheckouts))

	eventPublisher := broker.NewEventPublisher(producer)

	var source service.CatalogSource = db
	if cfg.Catalog.File != "" {
		source = service.FileCatalogSource{Path: cfg.Catalog.File}
	}
	catalogService := service.NewCatalogService(source, redisClient, cfg.Catalog.CacheKey, cfg.Catalog.CacheTTL)

	ctx := context.Background()
	if _, err := catalogService.Load(ctx); err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}

	configuratorService := service.NewConfiguratorService(catalogService, cfg.Session.IdleTimeout)
	cartClient := cart.NewClient(cfg.Storefront, logger)
	checkoutService := service.NewCheckoutService(
		configuratorService,
		cartClient,
		redisClient,
		eventPublisher,
		cfg.Session.CheckoutLockTTL,
		cfg.Session.IdempotencyTTL,
	)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	go configuratorService.StartSweeper(workerCtx, cfg.Session.SweepInterval)

	checkoutConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicCheckouts, cfg.Kafka.ConsumerGroup)
	checkoutWorker := worker.NewCheckoutWorker(checkoutConsumer, db)
	go func() {
		if err := checkoutWorker.Start(workerCtx); err != nil && err != context.Canceled {
			logger.Error("Checkout worker error", zap.Error(err))
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(catalogService, configuratorService, checkoutService, map[string]api.ReadinessCheck{
		"postgres": db.Ping,
		"redis":    redisClient.Ping,
	})
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if err := checkoutWorker.Stop(); err != nil {
		logger.Error("Error stopping checkout worker", zap.Error(err))
	}

	logger.Info("Server exited")
}
