package main

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/example/kethai/internal/config"
	"github.com/example/kethai/internal/database"
	"github.com/example/kethai/internal/handlers"
	"github.com/example/kethai/internal/routes"
)

func main() {
	cfg := config.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database setup failed")
	}

	app := fiber.New(fiber.Config{
		AppName:      "KethAI Backend",
		ErrorHandler: handlers.NewErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool { return true },
		AllowCredentials: true,
	}))

	if err := routes.Register(app, db, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("route setup failed")
	}

	log.Info().Str("port", cfg.AppPort).Msg("starting server")
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal().Err(err).Msg("fiber.Listen error")
	}
}
