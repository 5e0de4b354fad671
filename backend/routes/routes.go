package routes

import (
	"gigworks/backend/config"
	"gigworks/backend/controllers"
	"gigworks/backend/middleware"
	"gigworks/backend/services/advisor"
	"gigworks/backend/utils"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, llm advisor.LLMClient) {
	advisorService := advisor.NewService(llm)

	// Public endpoints
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	healthController := controllers.NewHealthController(db)
	app.Get("/healthz", healthController.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)

	// Dataset routes. The sample routes must be registered before /:id
	// so "sample" is not captured as a dataset ID.
	datasetsController := controllers.NewDatasetsController(db, cfg)
	datasets := app.Group("/api/datasets", authMiddleware)
	datasets.Get("/", datasetsController.List)
	datasets.Post("/", datasetsController.Upload)
	datasets.Get("/sample.csv", datasetsController.DownloadSampleCSV)
	datasets.Post("/sample", datasetsController.LoadSample)
	datasets.Get("/:id", datasetsController.Get)
	datasets.Delete("/:id", datasetsController.Delete)

	// Analytics routes
	analyticsController := controllers.NewAnalyticsController(db, cfg)
	analyticsGroup := app.Group("/api/datasets/:id/analytics", authMiddleware)
	analyticsGroup.Get("/summary", analyticsController.GetSummary)
	analyticsGroup.Get("/trend", analyticsController.GetWeeklyTrend)
	analyticsGroup.Get("/platforms", analyticsController.GetPlatformBreakdown)
	analyticsGroup.Get("/weekdays", analyticsController.GetWeekdayProfile)

	// Advisor routes. The websocket route authenticates with a query
	// parameter because the browser websocket API cannot set an
	// Authorization header, so the header auth middleware is attached
	// per route rather than on the /api/advisor prefix.
	advisorController := controllers.NewAdvisorController(db, cfg, advisorService)
	advisorGroup := app.Group("/api/advisor")
	advisorGroup.Post("/report", authMiddleware, advisorController.GenerateReport)
	advisorGroup.Get("/reports", authMiddleware, advisorController.ListReports)
	advisorGroup.Post("/chat", authMiddleware, advisorController.Chat)
	advisorGroup.Get("/chat", authMiddleware, advisorController.ChatHistory)
	advisorGroup.Get("/chat/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		userID, err := utils.ParseToken(c.Query("token"), cfg)
		if err != nil {
			return fiber.ErrUnauthorized
		}
		c.Locals("user_id", userID)
		return c.Next()
	}, websocket.New(advisorController.ChatSocket))

	// Admin routes
	app.Get("/api/admin/stats", authMiddleware, adminMiddleware, analyticsController.GetPlatformStats)
}
