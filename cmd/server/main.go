package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/saaspos/sales-service/config"
	categoryrepo "github.com/saaspos/sales-service/internal/category/repository"
	categoryuc "github.com/saaspos/sales-service/internal/category/usecase"
	"github.com/saaspos/sales-service/internal/checkout"
	inventoryrepo "github.com/saaspos/sales-service/internal/inventory/repository"
	inventoryuc "github.com/saaspos/sales-service/internal/inventory/usecase"
	productrepo "github.com/saaspos/sales-service/internal/product/repository"
	productuc "github.com/saaspos/sales-service/internal/product/usecase"
	salesrepo "github.com/saaspos/sales-service/internal/sales/repository"
	salesuc "github.com/saaspos/sales-service/internal/sales/usecase"
	"github.com/saaspos/sales-service/internal/server"
	settingsrepo "github.com/saaspos/sales-service/internal/settings/repository"
	settingsuc "github.com/saaspos/sales-service/internal/settings/usecase"
	weborderrepo "github.com/saaspos/sales-service/internal/weborder/repository"
	weborderuc "github.com/saaspos/sales-service/internal/weborder/usecase"
	"github.com/saaspos/sales-service/pkg/broker"
	"github.com/saaspos/sales-service/pkg/cache"
	"github.com/saaspos/sales-service/pkg/database/postgres"
	"github.com/saaspos/sales-service/pkg/logger"
	"github.com/saaspos/sales-service/pkg/metrics"
	"go.uber.org/zap"

	categoryhandler "github.com/saaspos/sales-service/internal/category/handler"
	checkouthandler "github.com/saaspos/sales-service/internal/checkout/handler"
	inventoryhandler "github.com/saaspos/sales-service/internal/inventory/handler"
	producthandler "github.com/saaspos/sales-service/internal/product/handler"
	saleshandler "github.com/saaspos/sales-service/internal/sales/handler"
	settingshandler "github.com/saaspos/sales-service/internal/settings/handler"
	weborderhandler "github.com/saaspos/sales-service/internal/weborder/handler"
)

const checkoutSessionTTL = 4 * time.Hour

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not found: %v", err)
	}

	cfg := config.LoadEnv()

	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv == "development",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
		appLogger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	producer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
	})
	defer producer.Close()

	salesMetrics := metrics.NewSalesMetrics("sales_service")

	productRepo := productrepo.NewPGRepository(db)
	categoryRepo := categoryrepo.NewPGRepository(db)
	salesRepo := salesrepo.NewPGRepository(db)
	webOrderRepo := weborderrepo.NewPGRepository(db)
	settingsRepo := settingsrepo.NewPGRepository(db)
	inventoryRepo := inventoryrepo.NewPGRepository(db)

	productUC := productuc.NewProductUseCase(productRepo, redisClient, appLogger)
	categoryUC := categoryuc.NewCategoryUseCase(categoryRepo, appLogger)
	settingsUC := settingsuc.NewSettingsUseCase(settingsRepo, appLogger)
	salesUC := salesuc.NewSalesUseCase(salesRepo, producer, redisClient, salesMetrics, appLogger)
	webOrderUC := weborderuc.NewWebOrderUseCase(webOrderRepo, settingsUC, salesMetrics, appLogger)
	inventoryUC := inventoryuc.NewInventoryUseCase(inventoryRepo, redisClient, appLogger)

	registry := checkout.NewRegistry(checkoutSessionTTL)

	handlers := &server.Handlers{
		Product:   producthandler.NewProductHandler(productUC, appLogger),
		Category:  categoryhandler.NewCategoryHandler(categoryUC, appLogger),
		Sales:     saleshandler.NewSalesHandler(salesUC, appLogger),
		Checkout:  checkouthandler.NewCheckoutHandler(registry, productUC, salesUC, settingsUC, appLogger),
		WebOrder:  weborderhandler.NewWebOrderHandler(webOrderUC, appLogger),
		Settings:  settingshandler.NewSettingsHandler(settingsUC, appLogger),
		Inventory: inventoryhandler.NewInventoryHandler(inventoryUC, appLogger),
	}

	app := fiber.New(fiber.Config{
		AppName:      "sales-service",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	server.RegisterRoutes(app, handlers, cfg.JWT.SecretKey)

	// Metrics are served on their own port so the scrape endpoint never
	// rides the authenticated API surface.
	metricsSrv := &http.Server{
		Addr:    cfg.Server.MetricsPort,
		Handler: metrics.Handler(),
	}
	go func() {
		appLogger.Info("metrics server listening", zap.String("addr", cfg.Server.MetricsPort))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("metrics server stopped", zap.Error(err))
		}
	}()

	go func() {
		appLogger.Info("http server listening", zap.String("addr", cfg.Server.HTTPPort))
		if err := app.Listen(cfg.Server.HTTPPort); err != nil {
			appLogger.Fatal("http server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("http shutdown failed", zap.Error(err))
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("metrics shutdown failed", zap.Error(err))
	}
}
