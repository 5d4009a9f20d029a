package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/selin/goaltrack-api/internal/handlers"
	"github.com/selin/goaltrack-api/internal/metrics"
	"github.com/selin/goaltrack-api/internal/middleware"
)

func Setup(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "hit check!"})
	})
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/signup", handlers.Signup)
	auth.Post("/signin", handlers.Signin)
	auth.Post("/google/login", handlers.GoogleLogin)
	auth.Get("/google/callback", handlers.GoogleCallback)
	auth.Post("/google", handlers.GoogleTokenLogin)

	// Leaderboard is public; registered before the protected goal routes.
	api.Get("/goals/public", handlers.ListPublicGoals)

	protected := api.Group("/", middleware.Protected())

	user := protected.Group("/user")
	user.Get("/profile", handlers.Profile)
	user.Put("/username", handlers.UpdateUsername)

	protected.Post("/device-token", handlers.RegisterDeviceToken)

	goals := protected.Group("/goals")
	goals.Post("/", handlers.CreateGoal)
	goals.Get("/", handlers.ListUserGoals)
	goals.Put("/:id", handlers.UpdateGoal)
	goals.Delete("/:id", handlers.DeleteGoal)
	goals.Put("/:id/complete", handlers.MarkGoalCompleted)
}
