package v1

import (
	"github.com/Ibrarkhan125/time-manager/internal/api/v1/handlers"
	"github.com/Ibrarkhan125/time-manager/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", handlers.Register)
	authRoutes.Post("/login", handlers.Login)

	// Profile
	userRoutes := api.Group("/user", middleware.UseToken)
	userRoutes.Get("/profile", handlers.GetProfile)
	userRoutes.Put("/profile", handlers.UpdateProfile)

	// Tasks; summary is registered before :id so it is not captured
	taskRoutes := api.Group("/tasks", middleware.UseToken)
	taskRoutes.Get("/summary", handlers.GetTaskSummary)
	taskRoutes.Post("/", handlers.CreateTask)
	taskRoutes.Get("/", handlers.ListTasks)
	taskRoutes.Get("/:id", handlers.GetTask)
	taskRoutes.Put("/:id", handlers.UpdateTask)
	taskRoutes.Delete("/:id", handlers.DeleteTask)
	taskRoutes.Post("/:id/pomodoro", handlers.LogPomodoroSession)
}
