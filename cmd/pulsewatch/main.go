package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"pulsewatch/internal/cache"
	"pulsewatch/internal/config"
	"pulsewatch/internal/database"
	"pulsewatch/internal/httpapi"
	"pulsewatch/internal/logger"
	"pulsewatch/internal/mqttsync"
	"pulsewatch/internal/notify"
	"pulsewatch/internal/redisx"
	"pulsewatch/internal/report"
	"pulsewatch/internal/repository"
	"pulsewatch/internal/rules"
	"pulsewatch/internal/schema"
	"pulsewatch/internal/service"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "pulsewatch")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting pulsewatch",
		zap.String("addr", cfg.Server.Addr),
		zap.String("store_backend", cfg.Store.Backend),
	)

	// 3. Initialize store
	var store repository.VitalsStore
	switch cfg.Store.Backend {
	case "memory":
		store = repository.NewMemoryStore()
		log.Warn("Using in-memory store, data will not survive restarts")
	default:
		db, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer database.Close(db)
		store = repository.NewPostgresStore(db, log)
		log.Info("Connected to PostgreSQL",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Database),
		)
	}

	// 4. Initialize Redis (optional): alert stream + latest-vitals cache
	var (
		publisher service.AlertPublisher
		vitals    service.LatestCache
	)
	if cfg.Redis.Enabled {
		redisClient := redisx.NewClient(&cfg.Redis)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisx.Ping(pingCtx, redisClient); err != nil {
			cancel()
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		cancel()
		defer redisx.Close(redisClient)

		publisher = notify.NewStreamPublisher(redisClient, cfg.Sync.AlertStream, log)
		vitals = cache.NewRealtimeCache(redisClient, cfg.Sync.CacheTTL, log)
		log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 5. Build services
	validator := schema.NewValidator()
	engine := rules.NewEngine()
	webhook := notify.NewWebhookNotifier(cfg.Sync.WebhookURL, log)

	// Interface-typed nils must stay nil, not wrap a nil pointer.
	var notifier service.CriticalNotifier
	if webhook != nil {
		notifier = webhook
	}

	syncService := service.NewSyncService(store, engine, publisher, notifier, vitals, cfg.Sync.Timeout, log)
	metricsService := service.NewMetricsService(store, log)
	healthService := service.NewHealthService(store, log)
	alertService := service.NewAlertService(store, log)

	// 6. Optional MQTT ingestion
	if cfg.MQTT.Enabled {
		mqttClient, err := mqttsync.NewClient(&cfg.MQTT, log)
		if err != nil {
			log.Fatal("Failed to connect to MQTT broker", zap.Error(err))
		}
		defer mqttClient.Close()

		consumer := mqttsync.NewConsumer(validator, syncService, log)
		if err := consumer.Start(mqttClient, cfg.MQTT.Topic); err != nil {
			log.Fatal("Failed to start MQTT consumer", zap.Error(err))
		}
	}

	// 7. Wire HTTP routes
	router := httpapi.NewRouter(log)
	router.RegisterSyncRoutes(httpapi.NewSyncHandler(validator, syncService, log))
	router.RegisterHealthRoutes(httpapi.NewHealthHandler(store, metricsService, healthService, report.NewExcelExporter(), log))
	router.RegisterAlertRoutes(httpapi.NewAlertHandler(alertService, log))
	router.RegisterEmployeeRoutes(httpapi.NewEmployeeHandler(store, log))

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)

	// 8. Start HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 9. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}

	log.Info("Shutdown complete")
}
