package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-price-compare/internal/apperror"
	"go-price-compare/internal/config"
	"go-price-compare/internal/handler"
	"go-price-compare/internal/middleware"
	"go-price-compare/internal/repository"
	"go-price-compare/internal/service"
	"go-price-compare/internal/spreadsheet"
	"go-price-compare/internal/ws"
	"go-price-compare/pkg/llm"
	"go-price-compare/pkg/logger"
	"go-price-compare/pkg/shopping"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	envErr := godotenv.Load()
	cfg := config.Load()

	// 2. Setup Logger
	logger.Initialize(cfg.AppEnv)
	defer logger.Sync()
	log := logger.Log

	if envErr != nil {
		log.Warn(".env file not found, using system env")
	}
	if cfg.SerperAPIKey == "" {
		log.Warn("SERPER_API_KEY is not set, price lookups will fail")
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub(log.Named("ws"))
	go wsHub.Run()

	// 4. Outbound clients
	shoppingClient := shopping.NewClient(shopping.Config{
		APIKey:            cfg.SerperAPIKey,
		URL:               cfg.SerperURL,
		Country:           cfg.SerperCountry,
		Language:          cfg.SerperLanguage,
		RequestsPerSecond: cfg.ShoppingRPS,
	})

	var extractor service.OfferExtractor
	if cfg.LLMEnabled() {
		extractor = service.NewLLMExtractor(llm.NewClient(llm.Config{
			APIKey:            cfg.GeminiAPIKey,
			BaseURL:           cfg.GeminiURL,
			Model:             cfg.GeminiModel,
			RequestsPerSecond: cfg.LLMRPS,
		}), cfg.RetailerName)
	} else {
		log.Warn("GEMINI_API_KEY is not set, using heuristic price extraction")
		extractor = service.NewCheapestOfferExtractor(cfg.RetailerName)
	}

	// 5. Dependency Injection (Wiring Layers)
	inventoryRepo := repository.NewInventoryRepo()
	runRepo := repository.NewRunRepo(repository.DefaultRunHistory)
	sheetReader := spreadsheet.NewReader(spreadsheet.HeaderOptions{
		ScanRows:   cfg.HeaderScanRows,
		MinMatches: cfg.HeaderMinMatches,
	}, log.Named("spreadsheet"))

	lookupService := service.NewPriceLookupService(inventoryRepo, shoppingClient, extractor, service.LookupOptions{
		RetailerName:      cfg.RetailerName,
		RetailerSearchURL: cfg.RetailerSearchURL,
		Currency:          cfg.Currency,
	}, log.Named("lookup"))
	retrying := service.NewRetryingLookup(lookupService, service.RetryOptions{
		Timeout:     cfg.LookupTimeout,
		MaxAttempts: cfg.LookupMaxAttempts,
		Backoff:     cfg.LookupBackoff,
	}, log.Named("lookup"))

	classifier := service.Classifier{
		Overpriced:  cfg.OverpricedThreshold,
		Underpriced: cfg.UnderpricedThreshold,
		Percent:     cfg.ThresholdPercent,
	}
	comparisonService := service.NewComparisonService(retrying, classifier, cfg.BatchChunkSize, wsHub, runRepo, log.Named("comparison"))
	inventoryService := service.NewInventoryService(sheetReader, inventoryRepo, comparisonService, wsHub, log.Named("inventory"))
	dashService := service.NewDashboardService(inventoryRepo, runRepo)

	invHandler := handler.NewInventoryHandler(inventoryService)
	cmpHandler := handler.NewComparisonHandler(comparisonService, retrying)
	dashHandler := handler.NewDashboardHandler(dashService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Tire Price Comparator v1.0",
		BodyLimit:    cfg.MaxUploadBytes,
		ErrorHandler: apperror.Handler(log),
	})

	limiter := middleware.NewRateLimiter(cfg.APIRatePerMin, cfg.APIRateBurst, 5*time.Minute)
	defer limiter.Stop()

	// Middleware
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log.Named("http")))
	app.Use(recover.New())
	app.Use(cors.New())

	// 7. Routes
	handler.RegisterRoutes(app, invHandler, cmpHandler, dashHandler, wsHub, limiter.Handler())

	// 8. Graceful Shutdown
	go func() {
		log.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic("server stopped", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	wsHub.Stop()

	log.Info("server exited")
}
