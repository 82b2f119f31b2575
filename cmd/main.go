package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"productmanagement/internal/app/catalog/config"
	"productmanagement/internal/app/catalog/handler"
	"productmanagement/internal/app/catalog/processor"
	"productmanagement/internal/app/catalog/repository"
	"productmanagement/internal/app/catalog/service"
	"productmanagement/internal/app/catalog/util"
	"productmanagement/pkg/logger"
)

// Расписание прогрева кеша выпадающего списка категорий
const dropdownWarmupSchedule = "@every 30m"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init("catalog-service", cfg.Log.Level)

	// === ПОДКЛЮЧЕНИЕ К POSTGRESQL ===
	// Категории читаются через pgx pool, товары - через GORM.
	// Оба подключения смотрят в одну базу
	pool, err := connectPool(context.Background(), cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to PostgreSQL (pgx)")
	}
	defer pool.Close()
	logger.Info().Msg("Connected to PostgreSQL (pgx pool)")

	gormDB, err := connectGorm(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to PostgreSQL (gorm)")
	}
	logger.Info().Msg("Connected to PostgreSQL (gorm)")

	// === ПОДКЛЮЧЕНИЕ К REDIS ===
	// Redis используется для кеширования выпадающего списка категорий
	redisClient, err := util.NewRedisClient(
		cfg.Redis.Address(),
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Msg("Connected to Redis")

	// === ИНИЦИАЛИЗАЦИЯ KAFKA ===
	// Producer отправляет события PRODUCT_PRICE_CHANGED и PRODUCT_STOCK_CHANGED
	kafkaProducer := util.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().Str("topic", cfg.Kafka.Topic).Msg("Initialized Kafka producer")

	// === СЛОИ ПРИЛОЖЕНИЯ ===
	categoryRepo := repository.NewCategoryRepository(pool)
	productRepo := repository.NewProductRepository(gormDB)

	categoryService := service.NewCategoryService(categoryRepo, redisClient)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, redisClient, kafkaProducer)

	catalogHandler := handler.NewCatalogHandler(categoryService, catalogService)
	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.Secret)
	router := handler.SetupRoutes(catalogHandler, authMiddleware)

	// === ФОНОВЫЕ ПРОЦЕССЫ ===
	// Consumer журналирует события товаров из того же топика
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventConsumer := processor.NewEventConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID)
	eventConsumer.Start(ctx)

	cronScheduler := processor.NewCronScheduler(catalogService)
	if err := cronScheduler.Start(ctx, dropdownWarmupSchedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start cron scheduler")
	}

	// === HTTP СЕРВЕР ===
	// Production-ready настройки с таймаутами
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("address", cfg.Server.Address()).Msg("Starting Product Management Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// === GRACEFUL SHUTDOWN ===
	// Ожидаем сигнала завершения (SIGINT или SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Product Management Service")

	cronScheduler.Stop()
	eventConsumer.Stop()
	cancel()

	// Даем серверу 30 секунд на завершение текущих запросов
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Product Management Service stopped gracefully")
}

// connectPool устанавливает соединение с PostgreSQL через pgx connection pool
// Использует retry logic с 10 попытками для устойчивости при запуске в Docker
func connectPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = 1 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	// Пробуем подключиться с повторными попытками
	// При запуске в Docker PostgreSQL может быть еще не готов
	var pool *pgxpool.Pool
	for i := 0; i < 10; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("Failed to connect to database, retrying")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}

// connectGorm устанавливает GORM соединение с той же базой для репозитория товаров
func connectGorm(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else if pingErr := sqlDB.Ping(); pingErr != nil {
				err = pingErr
			} else {
				sqlDB.SetMaxOpenConns(25)
				sqlDB.SetMaxIdleConns(5)
				sqlDB.SetConnMaxLifetime(5 * time.Minute)
				sqlDB.SetConnMaxIdleTime(1 * time.Minute)
				return db, nil
			}
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("Failed to connect to database via gorm, retrying")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}
