package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/AbsonDev/estoque-max/config"
	"github.com/AbsonDev/estoque-max/internal/cache"
	"github.com/AbsonDev/estoque-max/internal/forecast"
	"github.com/AbsonDev/estoque-max/internal/metrics"
	notifKafka "github.com/AbsonDev/estoque-max/internal/notifier/kafka"
	"github.com/AbsonDev/estoque-max/internal/schedule"
	"github.com/AbsonDev/estoque-max/migrations"

	identRepoPkg "github.com/AbsonDev/estoque-max/internal/identity/repository"
	repRepoPkg "github.com/AbsonDev/estoque-max/internal/replenish/repository"
	repUCPkg "github.com/AbsonDev/estoque-max/internal/replenish/usecase"
	stockListenerPkg "github.com/AbsonDev/estoque-max/internal/stock/listener"
	stockRepoPkg "github.com/AbsonDev/estoque-max/internal/stock/repository"
	stockUCPkg "github.com/AbsonDev/estoque-max/internal/stock/usecase"

	"github.com/AbsonDev/estoque-max/pkg/broker"
	pkgcache "github.com/AbsonDev/estoque-max/pkg/cache"
	"github.com/AbsonDev/estoque-max/pkg/logger"
	"github.com/AbsonDev/estoque-max/pkg/postgres"
)

func main() {
	// 1. Load configuration
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("APP_CONFIG_FILE"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Initialize logger
	logConfig := &logger.Config{
		IsDevelopment:     cfg.Server.AppEnv == "development",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to the database and run migrations
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("connected to postgres", zap.String("db_name", cfg.Postgres.DBName))

	if err := runMigrations(db); err != nil {
		appLogger.Fatal("migrations failed", zap.Error(err))
	}
	appLogger.Info("migrations applied")

	// 4. Redis: forecast cache + per-item retraining locks. Optional; the
	// service falls back to the in-memory cache without it.
	var (
		forecastStore cache.ForecastStore = cache.NewMemoryStore()
		locker        schedule.Locker
	)
	if cfg.Redis.Enabled {
		redisClient, err := pkgcache.NewRedisClient(&pkgcache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("could not connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		appLogger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))

		forecastStore = cache.NewRedisStore(redisClient, cfg.Scheduler.CacheMaxAge)
		locker = redisClient
	}

	// 5. Kafka: consumption event intake and pantry notifications
	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.ConsumeTopic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()

	kafkaProducer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.NotifyTopic,
	})
	defer kafkaProducer.Close()
	appLogger.Info("connected to kafka",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("consume_topic", cfg.Kafka.ConsumeTopic),
		zap.String("notify_topic", cfg.Kafka.NotifyTopic),
	)

	// 6. Repositories
	stockRepo := stockRepoPkg.NewPGRepository(db)
	listRepo := repRepoPkg.NewPGRepository(db)
	identResolver := identRepoPkg.NewPGResolver(db)

	// 7. Use cases and the forecasting engine
	pantryNotifier := notifKafka.NewNotifier(kafkaProducer, appLogger)

	replenishUC := repUCPkg.NewReplenishUseCase(
		listRepo, stockRepo, identResolver, appLogger, time.Now, cfg.Forecast.RestockMultiplier,
	)
	stockUC := stockUCPkg.NewStockUseCase(stockRepo, replenishUC, pantryNotifier, appLogger, time.Now)

	engineCfg := forecast.DefaultConfig()
	engineCfg.MinRecords = cfg.Forecast.MinRecords
	engineCfg.MinModelRecords = cfg.Forecast.MinModelRecords
	engineCfg.MediumRecords = cfg.Forecast.MediumRecords
	engineCfg.HighRecords = cfg.Forecast.HighRecords
	engine := forecast.NewEngine(engineCfg)

	// 8. Background loops: consumption listener + retraining scheduler
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumptionListener := stockListenerPkg.NewConsumptionListener(kafkaConsumer, stockUC, appLogger)
	go consumptionListener.Start(ctx)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	schedCfg := schedule.DefaultConfig()
	schedCfg.Interval = cfg.Scheduler.Interval
	schedCfg.Backoff = cfg.Scheduler.Backoff
	schedCfg.CacheMaxAge = cfg.Scheduler.CacheMaxAge
	schedCfg.LockTTL = cfg.Scheduler.LockTTL
	schedCfg.ItemPause = cfg.Scheduler.ItemPause
	schedCfg.MinRecords = cfg.Forecast.MinRecords

	retrainer := schedule.NewRetrainer(
		schedCfg, stockUC, replenishUC, engine, forecastStore, locker,
		pantryNotifier, metrics.NewRetraining(registry), appLogger, time.Now,
	)
	go retrainer.Run(ctx)

	// 9. gRPC health endpoint
	port := cfg.Server.GRPCPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	lis, err := net.Listen("tcp", port)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", port), zap.Error(err))
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	go func() {
		appLogger.Info("starting gRPC server", zap.String("port", port))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// 10. Metrics endpoint
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	metricsServer := &http.Server{
		Addr:    cfg.Server.MetricsAddr,
		Handler: mux,
	}
	go func() {
		appLogger.Info("starting metrics server", zap.String("addr", cfg.Server.MetricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("metrics server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = metricsServer.Shutdown(shutdownCtx)
	grpcServer.GracefulStop()
	appLogger.Info("server stopped")
}

func runMigrations(db *sqlx.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db.DB, ".")
}
