package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"userapi/internal/config"
	"userapi/internal/database"
	"userapi/internal/handlers"
	"userapi/internal/middleware"
	"userapi/internal/repositories"
	"userapi/internal/services"
	"userapi/pkg/logger"
	"userapi/pkg/rabbitmq"
)

const version = "1.0.0"

// shutdownTimeout bounds graceful connection drain; after it the server
// gives up and closes remaining connections.
const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logg := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.IsDevelopment(),
	})

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to connect to database")
	}

	// The broker is optional: without it the API runs with event publishing
	// disabled rather than refusing to start.
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			logg.Warn().Err(err).Msg("rabbitmq unavailable, user events disabled")
			mqClient = nil
		}
	}

	app := newApp(cfg, db, mqClient)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logg.Info().
			Str("port", cfg.Port).
			Str("env", cfg.AppEnv).
			Str("api_version", cfg.APIVersion).
			Msg("server listening")
		if err := app.Listen(cfg.Port); err != nil {
			logg.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	logg.Info().Msg("shutting down server")

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logg.Error().Err(err).Msg("forced shutdown after drain timeout")
	}
	if err := mqClient.Close(); err != nil {
		logg.Error().Err(err).Msg("error closing rabbitmq client")
	}
	logg.Info().Msg("server stopped")
}

// newApp wires repositories, services, handlers and middleware into a Fiber
// app ready to listen.
func newApp(cfg *config.Config, db *gorm.DB, mqClient *rabbitmq.Client) *fiber.App {
	userRepo := repositories.NewGORMUserRepository(db)
	userService := services.NewUserService(userRepo, mqClient)
	userHandler := handlers.NewUserHandler(userService)
	healthHandler := handlers.NewHealthHandler(db, version)

	app := fiber.New(fiber.Config{
		AppName:      "userapi",
		ErrorHandler: middleware.ErrorHandler(cfg.IsDevelopment()),
	})
	middleware.Register(app, cfg)

	healthHandler.RegisterRoutes(app)

	api := app.Group("/api/" + cfg.APIVersion)
	userHandler.RegisterRoutes(api)

	app.Use(middleware.NotFoundHandler)
	return app
}
