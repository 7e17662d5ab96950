package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"shopgate/internal/graphql"
	"shopgate/internal/handlers"
	"shopgate/internal/middleware"
	"shopgate/internal/repositories"
	"shopgate/internal/services"
	"shopgate/internal/shopify"
	"shopgate/internal/storage"
	"shopgate/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("CATALOG_BACKEND", "file")
	viper.SetDefault("CATALOG_FILE", "data.json")
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_DSN", "catalog.db")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("JWT_SECRET", "change-me")
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_PASSWORD_HASH", "")
	viper.SetDefault("SHOPIFY_STORE_DOMAIN", "")
	viper.SetDefault("SHOPIFY_ACCESS_TOKEN", "")
	viper.SetDefault("SHOPIFY_API_VERSION", "2023-04")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Catalog backend ---
	var productRepo repositories.ProductRepository
	var store *storage.Store

	switch backend := viper.GetString("CATALOG_BACKEND"); backend {
	case "file":
		var err error
		store, err = storage.Open(viper.GetString("CATALOG_FILE"))
		if err != nil {
			log.Fatalf("Failed to open catalog store: %v", err)
		}
		productRepo = repositories.NewStoreProductRepository(store)
	case "gorm":
		db, err := openDatabase()
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		productRepo, err = repositories.NewGORMProductRepository(db)
		if err != nil {
			log.Fatalf("Failed to initialize product repository: %v", err)
		}
	default:
		log.Fatalf("Unknown CATALOG_BACKEND %q (want file or gorm)", backend)
	}

	// --- RabbitMQ (optional) ---
	var events services.EventPublisher
	var mqClient *rabbitmq.Client
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		var err error
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		events = mqClient
	} else {
		log.Println("RABBITMQ_URL not set, catalog events disabled")
	}

	// --- Services ---
	productService := services.NewProductService(productRepo, events)
	authService := services.NewAuthService(
		viper.GetString("ADMIN_USERNAME"),
		viper.GetString("ADMIN_PASSWORD_HASH"),
		viper.GetString("JWT_SECRET"),
	)

	shopifyClient := shopify.NewClient(shopify.Config{
		StoreDomain: viper.GetString("SHOPIFY_STORE_DOMAIN"),
		AccessToken: viper.GetString("SHOPIFY_ACCESS_TOKEN"),
		APIVersion:  viper.GetString("SHOPIFY_API_VERSION"),
	})

	// --- GraphQL schema ---
	schema, err := graphql.NewSchema(productService)
	if err != nil {
		log.Fatalf("Failed to build GraphQL schema: %v", err)
	}

	// --- Handlers ---
	authRequired := middleware.AuthRequired(authService)

	productHandler := handlers.NewProductHandler(productService)
	authHandler := handlers.NewAuthHandler(authService)
	graphqlHandler := handlers.NewGraphQLHandler(schema)
	orderHandler := handlers.NewShopifyOrderHandler(shopify.NewOrderService(shopifyClient))
	draftOrderHandler := handlers.NewShopifyDraftOrderHandler(shopify.NewDraftOrderService(shopifyClient))
	variantHandler := handlers.NewShopifyVariantHandler(shopify.NewVariantService(shopifyClient))
	optionHandler := handlers.NewShopifyOptionHandler(shopify.NewOptionService(shopifyClient))
	remoteProductHandler := handlers.NewShopifyProductHandler(shopify.NewProductProxyService(shopifyClient))

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1, authRequired)
	orderHandler.RegisterRoutes(apiV1, authRequired)
	draftOrderHandler.RegisterRoutes(apiV1, authRequired)
	variantHandler.RegisterRoutes(apiV1, authRequired)
	optionHandler.RegisterRoutes(apiV1, authRequired)
	remoteProductHandler.RegisterRoutes(apiV1, authRequired)
	graphqlHandler.RegisterRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	// Flush the catalog one last time so an in-flight mutation that was
	// interrupted between memory and disk leaves a consistent file.
	if store != nil {
		if err := store.Persist(); err != nil {
			log.Printf("Error flushing catalog store: %v", err)
		}
	}

	log.Println("Server gracefully stopped")
}

// openDatabase connects GORM using the configured driver.
func openDatabase() (*gorm.DB, error) {
	dsn := viper.GetString("DATABASE_DSN")
	switch driver := viper.GetString("DATABASE_DRIVER"); driver {
	case "postgres":
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}
}
