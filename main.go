package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"

	"productapi/internal/config"
	"productapi/internal/handlers"
	"productapi/internal/middleware"
	"productapi/internal/models"
	"productapi/internal/repositories"
	"productapi/internal/services"
	"productapi/pkg/logger"
	"productapi/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	if err := config.LoadDotEnv(); err != nil {
		logger.Fatal().Err(err).Msg("failed to load .env")
	}
	cfg, err := config.Load(viper.New())
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(logger.Options{Environment: logger.ParseEnvironment(cfg.Environment)})

	// --- Repository ---
	productRepo, closeRepo, err := newProductRepository(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize product repository")
	}
	defer closeRepo()

	if err := repositories.SeedProducts(productRepo); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed products")
	}
	logger.Info().Int("count", len(repositories.SeedData())).Str("driver", cfg.StoreDriver).Msg("seeded products")

	// --- Product events (optional) ---
	var serviceOpts []services.ProductServiceOption
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize RabbitMQ client")
		}
		defer mqClient.Close()

		serviceOpts = append(serviceOpts, services.WithEventPublisher(mqClient))
		err = mqClient.ConsumeProductEvents(func(event models.ProductEvent) error {
			logger.Info().
				Str("event", string(event.Type)).
				Str("product_id", event.Product.ID).
				Time("occurred_at", event.OccurredAt).
				Msg("received product event")
			return nil
		})
		if err != nil {
			logger.Error().Err(err).Msg("failed to start RabbitMQ consumer")
		}
	}

	// --- Services and app ---
	productService := services.NewProductService(productRepo, serviceOpts...)
	verifier := services.NewTokenVerifier(cfg.JWTSecret)
	app := newApp(productService, verifier)

	// --- Start HTTP Server ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := app.Listen(cfg.Addr()); err != nil {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	logger.Info().Msg("shutting down server")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		logger.Error().Err(err).Msg("error during fiber shutdown")
	}
	logger.Info().Msg("server gracefully stopped")
}

// newApp wires the request pipeline: request logger, bearer gate on
// mutating routes, handlers, and the terminal error formatter.
func newApp(productService *services.ProductService, verifier services.TokenVerifier) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "${time} ${method} ${path} ${status}\n",
		TimeFormat: time.RFC3339,
	}))

	app.Get("/", handlers.HandleWelcome)
	app.Get("/health", handlers.HandleHealth)

	productHandler := handlers.NewProductHandler(productService)
	productHandler.RegisterRoutes(app.Group("/api"), middleware.BearerRequired(verifier))

	return app
}

// newProductRepository builds the repository selected by STORE_DRIVER. The
// returned func releases any resources it holds.
func newProductRepository(cfg config.Config) (repositories.ProductRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		db, err := repositories.OpenSQLite(cfg.SQLiteDSN)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		return repositories.NewGORMProductRepository(db), closeDB, nil
	default:
		return repositories.NewMemoryProductRepository(), func() {}, nil
	}
}
