// @title CertPrep API
// @version 1.0
// @description Question import and test attempt API for certification exam preparation.
// @host localhost:8090
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"certprep/internal/adapter"
	"certprep/internal/adapter/blobstore"
	"certprep/internal/cache"
	"certprep/internal/config"
	"certprep/internal/database"
	"certprep/internal/domain"
	"certprep/internal/handler"
	"certprep/internal/importer"
	"certprep/internal/logger"
	"certprep/internal/media"
	"certprep/internal/middleware"
	"certprep/internal/repository"
	"certprep/internal/service"
	"certprep/internal/textproc"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Successfully connected to Oracle database")

	// Cache: Redis when configured, in-process otherwise
	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("RedisCacheAdapter initialized")
	} else {
		cacheAdapter = adapter.NewMemoryCacheAdapter()
		appLogger.Warn("Redis is not configured, using in-process cache")
	}

	// Media pipeline
	storage := blobstore.NewAzureBlobStorage(cfg.Storage)
	resolver := media.NewResolver(storage, cacheAdapter, cfg.Storage.CacheTTL, cfg.Storage.LocalBasePath)
	preprocessor := textproc.NewPreprocessor(resolver)
	builder := importer.NewBuilder(preprocessor, cfg.Import)

	// Initialize repositories
	questionRepo := repository.NewQuestionRepository(db)
	containerRepo := repository.NewContainerRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Initialize services
	importService := service.NewImportService(questionRepo, containerRepo, txManager, builder, resolver, cfg.Import.MaxRowErrors)
	attemptService := service.NewAttemptService(attemptRepo, questionRepo, containerRepo, txManager)

	// Initialize handlers
	importHandler := handler.NewImportHandler(importService)
	attemptHandler := handler.NewAttemptHandler(attemptService, containerRepo)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	// API group
	apiGroup := app.Group("/api")

	// Admin routes
	adminGroup := apiGroup.Group("/admin", middleware.Protected(cfg.Auth.JWTSecret), middleware.AdminOnly())
	adminGroup.Post("/containers/:id/questions/import", importHandler.ImportQuestions)

	// Attempt routes
	attemptGroup := apiGroup.Group("/attempts", middleware.OptionalAuth(cfg.Auth.JWTSecret))
	attemptGroup.Post("/", attemptHandler.StartAttempt)
	attemptGroup.Post("/:id/submit", attemptHandler.SubmitAttempt)
	attemptGroup.Get("/:id/result", attemptHandler.GetAttemptResult)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
