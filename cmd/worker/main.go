// Background worker entry point for SME-Diagnostics.
//
// The worker consumes diagnosis events from Kafka:
//
//	diagnosis.requested -> run the pipeline via the application service
//	diagnosis.completed -> index the run in OpenSearch and archive it in MinIO
//	profile.updated     -> invalidate the cached diagnosis for the business
//
// Undecodable or repeatedly failing messages go to the dead-letter topic.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
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
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/search/opensearch"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/storage/minio"
	"github.com/turtacn/SME-Diagnostics/internal/interfaces/http/handlers"
)

// version is set at build time via -ldflags.
var version = "dev"

const (
	defaultHealthPort = 8081
	defaultCacheTTL   = 24 * time.Hour
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (SMEDX_* env vars when omitted)")
	healthPort := flag.Int("health-port", defaultHealthPort, "health endpoint port")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if len(cfg.Kafka.Brokers) == 0 {
		fmt.Fprintln(os.Stderr, "worker requires kafka brokers")
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)
	logger = logger.Named("worker")
	logger.Info("Starting SME-Diagnostics worker", logging.String("version", version))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to postgres", logging.Err(err))
	}
	defer conn.Close()

	profileRepo := repositories.NewProfileRepository(conn, logger)
	runRepo := repositories.NewRunRepository(conn, logger)

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

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "smedx",
		Subsystem:            "worker",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create metrics collector", logging.Err(err))
	}
	appMetrics := prometheus.NewAppMetrics(collector)

	deps := diagnosis.Deps{
		Loader:  profileRepo,
		Runs:    runRepo,
		Events:  kafka.NewDiagnosisEvents(producer),
		Metrics: appMetrics,
		Logger:  logger,
	}

	var cache *redis.DiagnosisCache
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
			cache = redis.NewDiagnosisCache(redis.NewRedisCache(redisClient, logger), cacheTTL)
			deps.Cache = cache
		} else {
			logger.Info("Result caching disabled by configuration, every request recomputes")
		}
		deps.Locks = func(businessID string) diagnosis.Lock {
			return redis.NewMutex(redisClient, logger, "diagnosis:"+businessID)
		}
	}

	engine, err := diagnostics.NewEngine(loadRules(cfg.Engine, logger))
	if err != nil {
		logger.Fatal("Failed to build rules engine", logging.Err(err))
	}
	deps.Engine = engine

	svc, err := diagnosis.NewService(deps)
	if err != nil {
		logger.Fatal("Failed to create diagnosis service", logging.Err(err))
	}

	var indexer *opensearch.RunIndexer
	if len(cfg.OpenSearch.Addresses) > 0 {
		osClient, err := opensearch.NewClient(opensearch.FromPlatformConfig(cfg.OpenSearch), logger)
		if err != nil {
			logger.Fatal("Failed to connect to opensearch", logging.Err(err))
		}
		defer osClient.Close()
		indexer = opensearch.NewRunIndexer(osClient, cfg.OpenSearch.IndexPrefix, logger)
		if err := indexer.EnsureIndex(ctx); err != nil {
			logger.Fatal("Failed to ensure run index", logging.Err(err))
		}
	}

	var archiver *minio.ReportArchiver
	if cfg.MinIO.Endpoint != "" {
		mClient, err := minio.NewClient(cfg.MinIO, logger)
		if err != nil {
			logger.Fatal("Failed to connect to minio", logging.Err(err))
		}
		if err := mClient.EnsureBucket(ctx); err != nil {
			logger.Fatal("Failed to ensure report bucket", logging.Err(err))
		}
		archiver = minio.NewReportArchiver(mClient, logger)
	}

	h := &eventHandlers{
		svc:      svc,
		runs:     runRepo,
		indexer:  indexer,
		archiver: archiver,
		cache:    cache,
		metrics:  appMetrics,
		logger:   logger,
	}

	consumers := make([]*kafka.Consumer, 0, 3)
	for _, sub := range []struct {
		topic   string
		handler kafka.Handler
	}{
		{kafka.TopicDiagnosisRequested, h.handleRequested},
		{kafka.TopicDiagnosisCompleted, h.handleCompleted},
		{kafka.TopicProfileUpdated, h.handleProfileUpdated},
	} {
		c, err := kafka.NewConsumer(kafka.ConsumerConfig{
			Brokers:         cfg.Kafka.Brokers,
			GroupID:         cfg.Kafka.GroupID,
			Topic:           sub.topic,
			StartOffset:     cfg.Kafka.AutoOffsetReset,
			HandlerRetries:  cfg.Worker.MaxRetries,
			HandlerBackoff:  cfg.Worker.RetryBackoffMS,
			DeadLetterTopic: kafka.TopicDeadLetter,
		}, sub.handler, producer, logger)
		if err != nil {
			logger.Fatal("Failed to create consumer",
				logging.String("topic", sub.topic), logging.Err(err))
		}
		consumers = append(consumers, c)
	}

	var wg sync.WaitGroup
	for _, c := range consumers {
		wg.Add(1)
		go func(c *kafka.Consumer) {
			defer wg.Done()
			if err := c.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("Consumer stopped", logging.Err(err))
				cancel()
			}
		}(c)
	}

	healthSrv := newHealthServer(*healthPort, conn, collector)
	go func() {
		logger.Info("Health endpoint listening", logging.Int("port", *healthPort))
		if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Health server error", logging.Err(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	logger.Info("Shutting down worker")
	cancel()
	for _, c := range consumers {
		if err := c.Close(); err != nil {
			logger.Error("Failed to close consumer", logging.Err(err))
		}
	}
	wg.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Health server shutdown error", logging.Err(err))
	}
	logger.Info("Worker stopped")
}

func newHealthServer(port int, conn *postgres.Connection, collector prometheus.MetricsCollector) *http.Server {
	hh := handlers.NewHealthHandler(version, handlers.NamedCheck("postgres", conn.HealthCheck))
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", hh.Liveness)
	mux.HandleFunc("/readyz", hh.Readiness)
	mux.Handle("/metrics", collector.Handler())
	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}

// loadRules returns the rule set the engine runs on: the file named by
// engine.rules_path when configured, the compiled-in defaults otherwise.
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
