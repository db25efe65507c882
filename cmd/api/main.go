package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/persistence"
	analyticsUseCase "github.com/amirhossein-jamali/canteen-wallet/internal/domain/usecase/analytics"
	claimUseCase "github.com/amirhossein-jamali/canteen-wallet/internal/domain/usecase/claim"
	orderUseCase "github.com/amirhossein-jamali/canteen-wallet/internal/domain/usecase/order"
	productUseCase "github.com/amirhossein-jamali/canteen-wallet/internal/domain/usecase/product"
	userUseCase "github.com/amirhossein-jamali/canteen-wallet/internal/domain/usecase/user"
	walletUseCase "github.com/amirhossein-jamali/canteen-wallet/internal/domain/usecase/wallet"

	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/database/migration"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/idgen"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/lock"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/messaging"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/repository/memory"
	timeProvider "github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

const serviceName = "canteen-wallet"

// storage is the ledger store the use cases run against
type storage struct {
	uow     persistence.UnitOfWork
	ping    handler.PingFunc
	manager *database.Manager // nil for the memory driver
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate essential configuration
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger, err := logger.NewZapLoggerWithOptions(logger.Options{
		Production: cfg.IsProduction(),
		Level:      cfg.Logger.Level,
		Service:    serviceName,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Flush() }()

	tp := timeProvider.NewRealTimeProvider()
	ids := idgen.NewUUIDGenerator()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, err := openStorage(ctx, cfg, appLogger, tp)
	if err != nil {
		appLogger.Error("Failed to open ledger store", map[string]any{
			"driver": cfg.Database.Driver,
			"error":  err.Error(),
		})
		os.Exit(1)
	}
	if store.manager != nil {
		defer func() {
			if err := store.manager.Close(); err != nil {
				appLogger.Warn("Failed to close database", map[string]any{"error": err.Error()})
			}
		}()
	}

	locker, redisClient, err := buildLocker(ctx, cfg, store, appLogger, tp)
	if err != nil {
		appLogger.Error("Failed to create scan locker", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	publisher, err := buildPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to create event publisher", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	relay := messaging.NewOutboxRelay(store.uow, publisher, appLogger, messaging.RelayConfig{
		Interval:   cfg.Outbox.PollInterval,
		BatchSize:  cfg.Outbox.BatchSize,
		MaxRetries: cfg.Outbox.MaxRetries,
	})
	go relay.Start(ctx)

	// Initialize use cases
	orderConfig := orderUseCase.DefaultConfig()
	orderConfig.EnforceStock = cfg.Ordering.EnforceStock
	if cfg.Ordering.MaxItemsPerOrder > 0 {
		orderConfig.MaxItemsPerOrder = cfg.Ordering.MaxItemsPerOrder
	}

	lockTTL := coreport.Duration(cfg.Claim.LockTTL)
	if lockTTL <= 0 {
		lockTTL = 5 * coreport.Second
	}

	users := userUseCase.NewUserUseCase(store.uow, ids, tp, appLogger)
	wallets := walletUseCase.NewWalletUseCase(store.uow, ids, tp, appLogger)
	orders := orderUseCase.NewOrderUseCase(store.uow, ids, tp, appLogger, orderConfig)
	claims := claimUseCase.NewClaimUseCase(store.uow, locker, ids, tp, appLogger, lockTTL)
	products := productUseCase.NewProductUseCase(store.uow, ids, tp, appLogger)
	analytics := analyticsUseCase.NewAnalyticsUseCase(store.uow, loadLocation(cfg.Analytics.Timezone, appLogger), appLogger)

	if cfg.Server.SeedMenu {
		created, err := migration.CreateDefaultProducts(ctx, products)
		if err != nil {
			appLogger.Error("Failed to create default menu", map[string]any{
				"error": err.Error(),
			})
		} else if created > 0 {
			appLogger.Info("Default menu created", map[string]any{"count": created})
		}
	}

	// Initialize API handlers
	handlers := routes.Handlers{
		Health:    handler.NewHealthHandler(store.ping, appLogger),
		User:      handler.NewUserHandler(users, appLogger),
		Wallet:    handler.NewWalletHandler(wallets, appLogger),
		Order:     handler.NewOrderHandler(orders, appLogger),
		Claim:     handler.NewClaimHandler(claims, appLogger),
		Product:   handler.NewProductHandler(products, appLogger),
		Analytics: handler.NewAnalyticsHandler(analytics, appLogger),
	}

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, handlers)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr":      server.Addr,
			"env":       cfg.Environment,
			"driver":    cfg.Database.Driver,
			"log_level": appLogger.GetLevel().String(),
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		appLogger.Error("Failed to start server", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	// Deliver what is already committed before the broker connection goes away
	relay.Stop()
	if _, err := relay.RelayOnce(shutdownCtx); err != nil {
		appLogger.Warn("Final outbox relay failed", map[string]any{"error": err.Error()})
	}
	if err := publisher.Close(); err != nil {
		appLogger.Warn("Failed to close event publisher", map[string]any{"error": err.Error()})
	}
	stop()

	appLogger.Info("Server exited gracefully", nil)
}

// openStorage connects the configured ledger store and runs migrations for SQL drivers
func openStorage(ctx context.Context, cfg *config.Config, appLogger coreport.Logger, tp coreport.TimeProvider) (*storage, error) {
	dbConfig := database.CreateConfigFromAppConfig(cfg)
	if err := dbConfig.Validate(); err != nil {
		return nil, err
	}

	if dbConfig.Driver == database.DriverMemory {
		store, err := memory.NewStore(dbConfig.SnapshotPath, tp, appLogger)
		if err != nil {
			return nil, err
		}
		return &storage{
			uow:  memory.NewUnitOfWork(store, appLogger),
			ping: func(context.Context) error { return nil },
		}, nil
	}

	manager := database.NewManager(dbConfig, appLogger, tp)
	if _, err := manager.Connect(ctx); err != nil {
		return nil, err
	}

	if err := migration.NewMigrationManager(manager.DB(), appLogger, tp).MigrateAll(ctx); err != nil {
		_ = manager.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &storage{
		uow:     manager.CreateUnitOfWork(),
		ping:    manager.Ping,
		manager: manager,
	}, nil
}

// buildLocker picks the per-card lock: Redis when enabled, else the lock table of a SQL store,
// else an in-process lock for a single server
func buildLocker(
	ctx context.Context,
	cfg *config.Config,
	store *storage,
	appLogger coreport.Logger,
	tp coreport.TimeProvider,
) (coreport.Locker, *redis.Client, error) {
	opts := lock.DefaultOptions()
	if cfg.Claim.RetryInterval > 0 {
		opts.RetryInterval = cfg.Claim.RetryInterval
	}
	if cfg.Claim.MaxRetries > 0 {
		opts.MaxRetries = cfg.Claim.MaxRetries
	}

	if cfg.Redis.Enabled {
		dialCtx := ctx
		if cfg.Redis.DialTimeout > 0 {
			var cancel context.CancelFunc
			dialCtx, cancel = context.WithTimeout(ctx, cfg.Redis.DialTimeout)
			defer cancel()
		}
		client, err := lock.NewRedisClient(dialCtx, lock.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		if cfg.Redis.LockRetry > 0 {
			opts.RetryInterval = cfg.Redis.LockRetry
		}
		if cfg.Redis.LockRetries > 0 {
			opts.MaxRetries = cfg.Redis.LockRetries
		}
		appLogger.Info("Using Redis scan locks", map[string]any{"addr": cfg.Redis.Addr})
		return lock.NewRedisLocker(client, cfg.Redis.KeyPrefix, opts, appLogger), client, nil
	}

	if store.manager != nil {
		tableLocker := lock.NewTableLocker(store.manager.ScanLockRepository(), opts, appLogger)
		go tableLocker.RunSweeper(ctx, time.Minute)
		appLogger.Info("Using table scan locks", nil)
		return tableLocker, nil, nil
	}

	appLogger.Info("Using in-process scan locks", nil)
	return lock.NewLocalLocker(opts, tp, appLogger), nil, nil
}

// buildPublisher returns the Kafka publisher when enabled, else one that only logs events
func buildPublisher(cfg *config.Config, appLogger coreport.Logger) (coreport.MessagePublisher, error) {
	if !cfg.Kafka.Enabled {
		return messaging.NewLogPublisher(appLogger), nil
	}
	clientID := cfg.Kafka.ClientID
	if clientID == "" {
		clientID = serviceName
	}
	return messaging.NewKafkaPublisher(messaging.KafkaConfig{
		Brokers:     cfg.Kafka.Brokers,
		ClientID:    clientID,
		TopicPrefix: cfg.Kafka.TopicPrefix,
	}, appLogger)
}

// loadLocation resolves the reporting timezone, falling back to the server's own
func loadLocation(name string, appLogger coreport.Logger) *time.Location {
	if name == "" {
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLogger.Warn("Unknown analytics timezone, using local time", map[string]any{
			"timezone": name,
			"error":    err.Error(),
		})
		return nil
	}
	return loc
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	driver := cfg.Database.Driver
	if driver == "" {
		driver = database.DriverPostgres
	}
	if driver != database.DriverMemory {
		required := []struct {
			key   string
			value string
			env   string
		}{
			{"database.host", cfg.Database.Host, "CW_DB_HOST"},
			{"database.port", cfg.Database.Port, "CW_DB_PORT"},
			{"database.username", cfg.Database.Username, "CW_DB_USERNAME"},
			{"database.password", cfg.Database.Password, "CW_DB_PASSWORD"},
			{"database.database", cfg.Database.Database, "CW_DB_NAME"},
		}
		for _, r := range required {
			if r.value == "" {
				missingConfigs = append(missingConfigs, fmt.Sprintf("%s (or %s environment variable)", r.key, r.env))
			}
		}
	}

	if cfg.Redis.Enabled && cfg.Redis.Addr == "" {
		missingConfigs = append(missingConfigs, "redis.addr (or CW_REDIS_ADDR environment variable)")
	}
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) == 0 {
		missingConfigs = append(missingConfigs, "kafka.brokers (or CW_KAFKA_BROKERS environment variable)")
	}

	// Environment should be set with a valid value
	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	// If we're in production, do additional validation for sensitive settings
	if cfg.IsProduction() {
		var warnings []string

		if driver == database.DriverMemory {
			warnings = append(warnings, "database.driver memory keeps the ledger in a single process")
		}
		if driver == database.DriverPostgres {
			sslMode := strings.ToLower(cfg.Database.SSLMode)
			if sslMode != "require" && sslMode != "verify-ca" && sslMode != "verify-full" {
				warnings = append(warnings, "database.sslMode should be set to 'require', 'verify-ca', or 'verify-full' in production")
			}
		}
		if cfg.Server.ReadTimeout < 5*time.Second {
			warnings = append(warnings, "server.readTimeout is too low for production")
		}
		if cfg.Server.WriteTimeout < 5*time.Second {
			warnings = append(warnings, "server.writeTimeout is too low for production")
		}

		if len(warnings) > 0 {
			log.Printf("Warning: potential security issues in production configuration: %v", warnings)
		}
	}

	return nil
}
