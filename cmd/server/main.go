package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitcycle/server/internal/api"
	"fitcycle/server/internal/cache"
	"fitcycle/server/internal/config"
	"fitcycle/server/internal/logging"
	"fitcycle/server/internal/metrics"
	"fitcycle/server/internal/service"
	"fitcycle/server/internal/storage"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// @title FitCycle API
// @version 1.0
// @description API for weekly training routines, workout logging, progress statistics and body measurements.
// @contact.name API Support
// @contact.email support@example.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	hostname, _ := os.Hostname()
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.Log.File,
		LogToStdout:      cfg.Log.Stdout,
		LogLevel:         cfg.Log.Level,
		LogFormatJSON:    cfg.Log.JSON,
		Environment:      cfg.Log.Environment,
		SentryDSN:        cfg.Log.SentryDSN,
		SentryServerName: hostname,
	})
	defer sentry.Flush(2 * time.Second)

	log.Infof("Starting FitCycle server (driver=%s) ...", cfg.Database.Driver)
	gin.SetMode(cfg.Server.GinMode)

	// --- Storage backend ---
	backend, err := openBackend(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open %s backend: %v", cfg.Database.Driver, err)
	}
	store := backend.store

	// --- Exercise image storage ---
	fileStorage := storage.NewDisabledStorage()
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			log.Fatalf("Failed to initialize S3 storage: %v", err)
		}
		log.Infof("Exercise image uploads enabled (bucket=%s)", cfg.S3.BucketName)
	} else {
		log.Infoln("S3 is not configured, exercise image uploads are disabled")
	}

	// --- Services ---
	catalogCache := cache.NewCatalogCache(cfg.Cache.SizeMB, cfg.Cache.TTL)
	catalogService := service.NewCatalogService(store.MuscleGroups, store.Exercises, catalogCache, fileStorage)
	userService := service.NewUserService(store.Users)
	services := api.Services{
		Auth:         service.NewAuthService(store.Users, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.RefreshExpiration),
		Users:        userService,
		Catalog:      catalogService,
		Routines:     service.NewRoutineService(store.Routines, catalogService),
		Workouts:     service.NewWorkoutService(store.Workouts),
		Measurements: service.NewMeasurementService(store.Measurements),
	}

	bootstrapCtx, bootstrapCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if cfg.Bootstrap.SeedCatalog {
		if err := catalogService.Seed(bootstrapCtx); err != nil {
			log.Fatalf("Failed to seed exercise catalog: %v", err)
		}
	}
	if cfg.Bootstrap.SuperuserUsername != "" {
		b := cfg.Bootstrap
		if err := userService.EnsureSuperuser(bootstrapCtx, b.SuperuserUsername, b.SuperuserEmail, b.SuperuserPassword); err != nil {
			log.Fatalf("Failed to bootstrap superuser %q: %v", b.SuperuserUsername, err)
		}
	}
	bootstrapCancel()

	// --- Rate limiting ---
	var redisClient *redis.Client
	var rateLimiter api.RequestRateLimiter
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		rateLimiter = redis_rate.NewLimiter(redisClient)
		log.Infof("Auth rate limiting enabled: %d req/min", cfg.Redis.AuthRequestsPerMin)
	}

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsManager := metrics.NewManager("fitcycle", "server", registry)

	// --- HTTP server ---
	router := api.NewRouter(cfg.JWT.Secret, services, api.RouterOptions{
		Metrics:            metricsManager,
		Gatherer:           registry,
		RateLimiter:        rateLimiter,
		AuthRequestsPerMin: cfg.Redis.AuthRequestsPerMin,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("Server listening on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infoln("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	var closeErr error
	if redisClient != nil {
		closeErr = multierr.Append(closeErr, redisClient.Close())
	}
	closeErr = multierr.Append(closeErr, backend.close())
	if closeErr != nil {
		log.Errorf("Failed to release resources: %v", closeErr)
	}

	log.Infoln("Server exiting")
}
