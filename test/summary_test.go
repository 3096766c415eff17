package test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/Ibrarkhan125/time-manager/internal/config"
)

func TestSummaryDailyEmpty(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterAndLogin(t, app, "emptysummary")

	// Two open tasks, nothing completed
	for _, title := range []string{"One", "Two"} {
		resp := Request(t, app, "POST", "/api/tasks/", token, map[string]interface{}{
			"title":    title,
			"priority": "Low",
		})
		resp.Body.Close()
	}

	resp := Request(t, app, "GET", "/api/tasks/summary?range=daily", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	summary := Decode(t, resp)["data"].(map[string]interface{})
	if summary["range"] != "daily" {
		t.Errorf("Expected range daily, got %v", summary["range"])
	}
	if int(summary["completed"].(float64)) != 0 {
		t.Errorf("Expected 0 completed, got %v", summary["completed"])
	}
	// Total is the all-time task count, not scoped to the window
	if int(summary["total"].(float64)) != 2 {
		t.Errorf("Expected total 2, got %v", summary["total"])
	}
}

func TestSummaryCountsCompletionToday(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterAndLogin(t, app, "flowsummary")

	resp := Request(t, app, "POST", "/api/tasks/", token, map[string]interface{}{
		"title":    "Study",
		"priority": "High",
	})
	created := Decode(t, resp)["data"].(map[string]interface{})
	if created["completed"] != false {
		t.Fatalf("Expected new task incomplete, got %v", created["completed"])
	}
	taskID := int(created["id"].(float64))

	resp = Request(t, app, "PUT", fmt.Sprintf("/api/tasks/%d", taskID), token, map[string]interface{}{
		"completed": true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 completing task, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = Request(t, app, "GET", "/api/tasks/summary?range=daily", token, nil)
	summary := Decode(t, resp)["data"].(map[string]interface{})
	if int(summary["completed"].(float64)) != 1 {
		t.Errorf("Expected 1 completed today, got %v", summary["completed"])
	}
	if int(summary["total"].(float64)) != 1 {
		t.Errorf("Expected total 1, got %v", summary["total"])
	}

	// The weekly window includes today as well
	resp = Request(t, app, "GET", "/api/tasks/summary?range=weekly", token, nil)
	summary = Decode(t, resp)["data"].(map[string]interface{})
	if summary["range"] != "weekly" {
		t.Errorf("Expected range weekly, got %v", summary["range"])
	}
	if int(summary["completed"].(float64)) != 1 {
		t.Errorf("Expected 1 completed this week, got %v", summary["completed"])
	}
}

func TestSummaryUnknownRangeFallsBackToDaily(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterAndLogin(t, app, "rangefallback")

	resp := Request(t, app, "GET", "/api/tasks/summary?range=monthly", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	summary := Decode(t, resp)["data"].(map[string]interface{})
	if summary["range"] != "daily" {
		t.Errorf("Expected fallback to daily, got %v", summary["range"])
	}
}

func TestSummaryScopedToUser(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterAndLogin(t, app, "summaryowner")
	otherToken, _ := RegisterAndLogin(t, app, "summaryother")

	resp := Request(t, app, "POST", "/api/tasks/", token, map[string]interface{}{
		"title":    "Mine only",
		"priority": "Medium",
	})
	taskID := int(Decode(t, resp)["data"].(map[string]interface{})["id"].(float64))
	resp = Request(t, app, "PUT", fmt.Sprintf("/api/tasks/%d", taskID), token, map[string]interface{}{
		"completed": true,
	})
	resp.Body.Close()

	resp = Request(t, app, "GET", "/api/tasks/summary?range=daily", otherToken, nil)
	summary := Decode(t, resp)["data"].(map[string]interface{})
	if int(summary["completed"].(float64)) != 0 || int(summary["total"].(float64)) != 0 {
		t.Errorf("Expected empty summary for other user, got %v", summary)
	}
}

func TestSummaryWindowsOnUpdatedAt(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterAndLogin(t, app, "staleflow")

	resp := Request(t, app, "POST", "/api/tasks/", token, map[string]interface{}{
		"title":    "Old win",
		"priority": "Low",
	})
	taskID := int(Decode(t, resp)["data"].(map[string]interface{})["id"].(float64))
	resp = Request(t, app, "PUT", fmt.Sprintf("/api/tasks/%d", taskID), token, map[string]interface{}{
		"completed": true,
	})
	resp.Body.Close()

	// Age the completion past the daily window but inside the weekly one.
	// The window is evaluated against the database clock, so this must
	// hold regardless of the application host's clock or timezone.
	if _, err := config.DB.Exec(
		"UPDATE tasks SET updated_at = NOW() - INTERVAL '3 days' WHERE id = $1", taskID); err != nil {
		t.Fatalf("Error aging task: %v", err)
	}

	resp = Request(t, app, "GET", "/api/tasks/summary?range=daily", token, nil)
	summary := Decode(t, resp)["data"].(map[string]interface{})
	if int(summary["completed"].(float64)) != 0 {
		t.Errorf("Expected stale completion outside daily window, got %v", summary["completed"])
	}
	if int(summary["total"].(float64)) != 1 {
		t.Errorf("Expected total to stay all-time, got %v", summary["total"])
	}

	resp = Request(t, app, "GET", "/api/tasks/summary?range=weekly", token, nil)
	summary = Decode(t, resp)["data"].(map[string]interface{})
	if int(summary["completed"].(float64)) != 1 {
		t.Errorf("Expected stale completion inside weekly window, got %v", summary["completed"])
	}
}
