package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"assetflow/internal/config"
	"assetflow/internal/handlers"
	"assetflow/internal/middleware"
	"assetflow/internal/models"
	"assetflow/internal/repositories"
	"assetflow/internal/services"
	"assetflow/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	// --- Repositories ---
	// With a DSN configured the inventory runs against a real database;
	// without one it falls back to the in-memory repositories, which is
	// handy for local development.
	var (
		categoryRepo repositories.CategoryRepository
		assetRepo    repositories.AssetRepository
		userRepo     repositories.UserRepository
	)
	if cfg.DatabaseDSN != "" {
		db, err := openDatabase(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := db.AutoMigrate(&models.Category{}, &models.Asset{}, &models.User{}); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		categoryRepo = repositories.NewGORMCategoryRepository(db)
		assetRepo = repositories.NewGORMAssetRepository(db)
		userRepo = repositories.NewGORMUserRepository(db)
	} else {
		log.Println("No DB_DSN configured, using in-memory repositories")
		memCategories, memAssets := repositories.NewMemoryRepositories()
		categoryRepo = memCategories
		assetRepo = memAssets
		userRepo = repositories.NewMemoryUserRepository()
	}

	// --- RabbitMQ ---
	// The broker is optional: without it asset lifecycle events are simply
	// not published.
	var events services.EventPublisher
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Printf("Warning: RabbitMQ unavailable, asset events disabled: %v", err)
	} else {
		defer mqClient.Close()
		events = mqClient

		go func() {
			if consumeErr := mqClient.ConsumeAssetEvents(func(msg amqp.Delivery) error {
				log.Printf("Asset event (%s): %s", msg.Type, string(msg.Body))
				return nil
			}); consumeErr != nil {
				log.Printf("Failed to start asset event consumer: %v", consumeErr)
			}
		}()
	}

	// --- Services ---
	categoryService := services.NewCategoryService(categoryRepo, assetRepo)
	assetService := services.NewAssetService(assetRepo, categoryRepo, events)
	reportService := services.NewReportService(assetRepo, categoryRepo)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenDuration)

	// --- Handlers ---
	categoryHandler := handlers.NewCategoryHandler(categoryService, reportService)
	assetHandler := handlers.NewAssetHandler(assetService, reportService)
	authHandler := handlers.NewAuthHandler(authService)

	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	categoryHandler.RegisterRoutes(protected)
	assetHandler.RegisterRoutes(protected)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP server with graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", cfg.AppPort)
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// openDatabase opens the configured database. DB_TYPE selects the driver:
// "postgres" or "sqlite".
func openDatabase(cfg config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{TranslateError: true}
	if cfg.DatabaseType == "postgres" {
		return gorm.Open(postgres.Open(cfg.DatabaseDSN), gormConfig)
	}
	return gorm.Open(sqlite.Open(cfg.DatabaseDSN), gormConfig)
}
