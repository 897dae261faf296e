// API server entry point for SME-Diagnostics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/SME-Diagnostics/internal/application/diagnosis"
	"github.com/turtacn/SME-Diagnostics/internal/config"
	"github.com/turtacn/SME-Diagnostics/internal/domain/diagnostics"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/database/postgres"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/database/redis"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/SME-Diagnostics/internal/interfaces/http"
	"github.com/turtacn/SME-Diagnostics/internal/interfaces/http/handlers"
	"github.com/turtacn/SME-Diagnostics/internal/interfaces/http/middleware"
)

// version is set at build time via -ldflags.
var version = "dev"

const defaultCacheTTL = 24 * time.Hour

func main() {
	configPath := flag.String("config", "", "path to configuration file (SMEDX_* env vars when omitted)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)
	logger.Info("Starting SME-Diagnostics API server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port),
	)

	if *configPath != "" {
		config.Watch(*configPath, func(updated *config.Config) {
			logger.Info("Configuration file reloaded",
				logging.String("path", *configPath),
				logging.String("log_level", updated.Log.Level),
			)
		})
	}

	conn, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to postgres", logging.Err(err))
	}
	defer conn.Close()

	profileRepo := repositories.NewProfileRepository(conn, logger)
	runRepo := repositories.NewRunRepository(conn, logger)

	deps := diagnosis.Deps{
		Loader: profileRepo,
		Runs:   runRepo,
		Logger: logger,
	}

	checkers := []handlers.HealthChecker{
		handlers.NamedCheck("postgres", conn.HealthCheck),
	}

	// Redis is optional: without it the service recomputes instead of
	// reusing, and skips the per-business lock.
	redisClient, err := redis.NewClient(cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis unavailable, result caching and locking disabled", logging.Err(err))
	} else {
		defer redisClient.Close()
		if cfg.Engine.CacheEnabled {
			cacheTTL := cfg.Engine.CacheTTL
			if cacheTTL <= 0 {
				cacheTTL = defaultCacheTTL
			}
			deps.Cache = redis.NewDiagnosisCache(redis.NewRedisCache(redisClient, logger), cacheTTL)
		} else {
			logger.Info("Result caching disabled by configuration, every request recomputes")
		}
		deps.Locks = func(businessID string) diagnosis.Lock {
			return redis.NewMutex(redisClient, logger, "diagnosis:"+businessID)
		}
		checkers = append(checkers, handlers.NamedCheck("redis", redisClient.Ping))
	}

	// Kafka is optional: without brokers the completed/failed events are
	// simply not published.
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(kafka.ProducerConfig{
			Brokers:    cfg.Kafka.Brokers,
			Acks:       "all",
			MaxRetries: cfg.Kafka.ProducerRetries,
			BatchSize:  cfg.Kafka.BatchSize,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create kafka producer", logging.Err(err))
		}
		defer producer.Close()
		deps.Events = kafka.NewDiagnosisEvents(producer)
	}

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "smedx",
		Subsystem:            "api",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create metrics collector", logging.Err(err))
	}
	appMetrics := prometheus.NewAppMetrics(collector)
	deps.Metrics = appMetrics

	engine, err := diagnostics.NewEngine(loadRules(cfg.Engine, logger))
	if err != nil {
		logger.Fatal("Failed to build rules engine", logging.Err(err))
	}
	deps.Engine = engine

	svc, err := diagnosis.NewService(deps)
	if err != nil {
		logger.Fatal("Failed to create diagnosis service", logging.Err(err))
	}

	rlCfg := middleware.DefaultRateLimitConfig()
	limiter := middleware.NewTokenBucketLimiter(rlCfg.RequestsPerSecond, rlCfg.BurstSize, time.Minute)
	defer limiter.Stop()

	router := httpserver.NewRouter(httpserver.RouterConfig{
		DiagnosisHandler: handlers.NewDiagnosisHandler(svc, logger),
		HealthHandler:    handlers.NewHealthHandler(version, checkers...).WithMetrics(appMetrics),
		CORSMiddleware:   middleware.NewCORSMiddleware(middleware.DefaultCORSConfig()),
		RequestLogging:   middleware.RequestLogging(logger, middleware.DefaultLoggingConfig()),
		RateLimit:        middleware.RateLimit(limiter, rlCfg),
		AppMetrics:       appMetrics,
		MetricsCollector: collector,
	})

	srv := httpserver.NewServer(cfg.Server, router, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("HTTP server error", logging.Err(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down API server")
	if err := srv.Stop(context.Background()); err != nil {
		logger.Error("HTTP server shutdown error", logging.Err(err))
	}
	logger.Info("API server stopped")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}

// loadRules returns the rule set the engine runs on: the file named by
// engine.rules_path when configured, the compiled-in defaults otherwise.
// A rules file that fails to load is fatal; silently falling back to defaults
// would mask a broken deployment.
func loadRules(cfg config.EngineConfig, logger logging.Logger) diagnostics.RuleSet {
	if cfg.RulesPath == "" {
		return diagnostics.DefaultRuleSet()
	}
	rules, err := diagnostics.LoadRuleSet(cfg.RulesPath)
	if err != nil {
		logger.Fatal("Failed to load rules file",
			logging.String("path", cfg.RulesPath),
			logging.Err(err),
		)
	}
	logger.Info("Loaded rule overrides", logging.String("path", cfg.RulesPath))
	return rules
}

func newLogger(cfg config.LogConfig) (logging.Logger, error) {
	outputs := []string{"stdout"}
	if cfg.Output != "" {
		outputs = []string{cfg.Output}
	}
	return logging.NewLogger(logging.LogConfig{
		Level:       cfg.Level,
		Format:      cfg.Format,
		OutputPaths: outputs,
	})
}

//Personal.AI order the ending
