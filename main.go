package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"faq-bot/config"
	"faq-bot/handlers"
	"faq-bot/services"
	"faq-bot/webhooks"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	// Initialize structured logger
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(logHandler))

	// Load configuration
	cfg := config.LoadConfig()

	// Optional transcript archive
	var archive *services.Archive
	if cfg.MongoURI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		db, err := services.InitMongoDB(ctx, cfg.MongoURI)
		cancel()
		if err != nil {
			slog.Error("Failed to connect to MongoDB, archive disabled", "error", err)
		} else {
			defer db.Disconnect(context.Background())
			archive = services.NewArchive(db, cfg.DatabaseName)
		}
	}

	// Wire the bot
	trainer := services.NewTrainer(cfg.LogDir)
	defer trainer.Close()

	bot := services.NewBot(
		config.DefaultPhrases(),
		services.NewFileStore(cfg.DataPath),
		services.NewSessionStore(cfg.InactivityTimeout),
		services.NewOllamaClient(cfg),
		trainer,
		archive,
	)

	// Periodic inactive-session sweep
	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	defer cancelSweep()
	services.StartSessionCleanup(sweepCtx, bot.Sessions(), cfg.SweepInterval)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("Request error", "error", err, "status", code)
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path}\n",
	}))

	// Messenger webhook routes
	webhooks.RegisterRoutes(app, cfg, bot)

	// Web chat endpoints
	app.Post("/chat", handlers.WebChat(bot))
	app.Get("/chat/history", handlers.ChatHistory(archive))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "faq-bot",
		})
	})

	slog.Info("Server starting", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}
