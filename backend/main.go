package main

import (
	"context"
	"log"

	"gigworks/backend/config"
	"gigworks/backend/middleware"
	"gigworks/backend/routes"
	"gigworks/backend/services/advisor"
	"gigworks/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Initialize the LLM backend. Without an API key the server still
	// runs; advisor endpoints answer 503.
	var llm advisor.LLMClient
	if cfg.GeminiAPIKey != "" {
		gemini, err := advisor.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("Error initializing gemini client: %v", err)
		}
		llm = gemini
	} else {
		logger.Println("GEMINI_API_KEY not set, AI advisor disabled")
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: 11 << 20, // keep above the ingest cap so ingest reports the limit, not fasthttp
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))
	app.Use(middleware.MetricsMiddleware())

	// Setup routes
	routes.SetupRoutes(app, db, cfg, llm)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
