package test

import (
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/Ibrarkhan125/time-manager/internal/api/v1/handlers"
	"github.com/Ibrarkhan125/time-manager/internal/config"

	"github.com/gofiber/fiber/v2"
)

// A failing store must surface as 500, never as 404: the resource may
// well exist, we just could not look.
func TestStoreFailureIsServerError(t *testing.T) {
	realDB := config.DB
	defer func() { config.DB = realDB }()

	brokenDB, err := sql.Open("postgres", "host=localhost port=1 user=none dbname=none sslmode=disable")
	if err != nil {
		t.Fatalf("Error opening placeholder connection: %v", err)
	}
	brokenDB.Close()
	config.DB = brokenDB

	// The auth middleware needs a working database, so the handlers are
	// mounted directly with the user id pre-set.
	app := fiber.New()
	app.Get("/profile", func(c *fiber.Ctx) error {
		c.Locals("userID", 999999)
		return handlers.GetProfile(c)
	})
	app.Post("/tasks/:id/pomodoro", func(c *fiber.Ctx) error {
		c.Locals("userID", 999999)
		return handlers.LogPomodoroSession(c)
	})

	resp := Request(t, app, "GET", "/profile", "", nil)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected 500 fetching profile with a failing store, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	start := time.Now()
	resp = Request(t, app, "POST", "/tasks/1/pomodoro", "", map[string]interface{}{
		"start_time": start,
		"end_time":   start.Add(25 * time.Minute),
		"completed":  true,
	})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected 500 logging session with a failing store, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
