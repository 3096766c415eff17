package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Ibrarkhan125/time-manager/internal/config"
	"github.com/Ibrarkhan125/time-manager/internal/models"
	"github.com/Ibrarkhan125/time-manager/pkg/crypto"
	"github.com/Ibrarkhan125/time-manager/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Task handlers. Every statement is scoped by both task id and the
// authenticated user id, so a foreign task and a missing task are
// indistinguishable to the caller (both answer 404).

// validPriority reports whether p is one of the allowed priority levels.
func validPriority(p string) bool {
	switch p {
	case "High", "Medium", "Low":
		return true
	default:
		return false
	}
}

const taskColumns = "id, user_id, title, description, notes, due_date, priority, category, completed, created_at, updated_at"

// scanTask reads one task row and decrypts the notes column.
func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (models.Task, error) {
	var task models.Task
	err := row.Scan(&task.ID, &task.UserID, &task.Title, &task.Description, &task.Notes,
		&task.DueDate, &task.Priority, &task.Category, &task.Completed,
		&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return task, err
	}
	if task.Notes != "" {
		decrypted, err := crypto.Decrypt(task.Notes, config.EncryptionKey)
		if err != nil {
			return task, err
		}
		task.Notes = decrypted
	}
	task.SyncDue()
	return task, nil
}

func CreateTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	type TaskRequest struct {
		Title       string     `json:"title" validate:"required"`
		Description string     `json:"description"`
		Notes       string     `json:"notes"`
		DueDate     *time.Time `json:"due_date"`
		Priority    string     `json:"priority" validate:"required,oneof=High Medium Low"`
		Category    string     `json:"category"`
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.ErrorLogger.Error("Validation error in create task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Task title and priority are required",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	// Notes are stored encrypted
	encryptedNotes := ""
	if req.Notes != "" {
		var err error
		encryptedNotes, err = crypto.Encrypt(req.Notes, config.EncryptionKey)
		if err != nil {
			logger.ErrorLogger.Error("Error encrypting notes", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Failed to create task",
				"success": false,
				"status":  500,
			})
		}
	}

	row := config.DB.QueryRow(
		"INSERT INTO tasks (user_id, title, description, notes, due_date, priority, category) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING "+taskColumns,
		userID, req.Title, req.Description, encryptedNotes, req.DueDate, req.Priority, req.Category,
	)
	task, err := scanTask(row)
	if err != nil {
		logger.ErrorLogger.Error("Error creating task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to create task",
			"success": false,
			"status":  500,
		})
	}

	config.Hub.Publish("task.created", task.UserID, task)
	logger.AuditLogger.Info("Task created successfully", zap.Int("task_id", task.ID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Task created successfully",
		"success": true,
		"status":  201,
		"data":    task,
	})
}

func ListTasks(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	// Creation order, oldest first
	rows, err := config.DB.Query(
		"SELECT "+taskColumns+" FROM tasks WHERE user_id = $1 ORDER BY id", userID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to fetch tasks",
			"success": false,
			"status":  500,
		})
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			logger.ErrorLogger.Error("Error scanning tasks", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Failed to fetch tasks",
				"success": false,
				"status":  500,
			})
		}
		tasks = append(tasks, task)
	}

	if err = rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to fetch tasks",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Tasks fetched successfully",
		"success": true,
		"status":  200,
		"data":    tasks,
	})
}

func GetTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	// Cache hits still go through the ownership check
	cacheKey := fmt.Sprintf("task:%d", taskID)
	if cached, err := config.RedisClient.Get(config.Ctx, cacheKey).Result(); err == nil {
		var task models.Task
		if err = json.Unmarshal([]byte(cached), &task); err == nil {
			if task.UserID != userID {
				return c.Status(404).JSON(fiber.Map{
					"message": "Task not found",
					"success": false,
					"status":  404,
				})
			}
			return c.JSON(fiber.Map{
				"message": "Task found (from cache)",
				"success": true,
				"status":  200,
				"data":    task,
			})
		}
	}

	row := config.DB.QueryRow(
		"SELECT "+taskColumns+" FROM tasks WHERE id = $1 AND user_id = $2",
		taskID, userID)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to fetch task",
			"success": false,
			"status":  500,
		})
	}

	taskJSON, err := json.Marshal(task)
	if err == nil {
		config.RedisClient.SetEX(config.Ctx, cacheKey, taskJSON, time.Hour)
	}

	return c.JSON(fiber.Map{
		"message": "Task found",
		"success": true,
		"status":  200,
		"data":    task,
	})
}

func UpdateTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	// Build the SET list from the keys actually present: an absent key
	// leaves the column untouched, an explicit null clears it.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		logger.ErrorLogger.Error("Bad request in update task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	var set []string
	var args []interface{}
	add := func(column string, v interface{}) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	badField := func(name string) error {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid value for " + name,
			"success": false,
			"status":  400,
		})
	}

	if v, ok := raw["title"]; ok {
		var title string
		if err := json.Unmarshal(v, &title); err != nil {
			return badField("title")
		}
		if title == "" {
			return c.Status(400).JSON(fiber.Map{
				"message": "Task title must not be empty",
				"success": false,
				"status":  400,
			})
		}
		add("title", title)
	}
	if v, ok := raw["description"]; ok {
		var description string
		if err := json.Unmarshal(v, &description); err != nil {
			return badField("description")
		}
		add("description", description)
	}
	if v, ok := raw["notes"]; ok {
		var notes string
		if err := json.Unmarshal(v, &notes); err != nil {
			return badField("notes")
		}
		if notes != "" {
			enc, err := crypto.Encrypt(notes, config.EncryptionKey)
			if err != nil {
				logger.ErrorLogger.Error("Error encrypting notes", zap.Error(err))
				return c.Status(500).JSON(fiber.Map{
					"message": "Failed to update task",
					"success": false,
					"status":  500,
				})
			}
			notes = enc
		}
		add("notes", notes)
	}
	if v, ok := raw["due_date"]; ok {
		var due *time.Time
		if err := json.Unmarshal(v, &due); err != nil {
			return badField("due_date")
		}
		add("due_date", due)
	}
	if v, ok := raw["priority"]; ok {
		var priority string
		if err := json.Unmarshal(v, &priority); err != nil {
			return badField("priority")
		}
		if !validPriority(priority) {
			return c.Status(400).JSON(fiber.Map{
				"message": "Invalid priority",
				"success": false,
				"status":  400,
			})
		}
		add("priority", priority)
	}
	if v, ok := raw["category"]; ok {
		var category string
		if err := json.Unmarshal(v, &category); err != nil {
			return badField("category")
		}
		add("category", category)
	}
	if v, ok := raw["completed"]; ok {
		var completed bool
		if err := json.Unmarshal(v, &completed); err != nil {
			return badField("completed")
		}
		add("completed", completed)
	}

	set = append(set, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, taskID, userID)
	query := fmt.Sprintf(
		"UPDATE tasks SET %s WHERE id = $%d AND user_id = $%d",
		strings.Join(set, ", "), len(args)-1, len(args))

	res, err := config.DB.Exec(query, args...)
	if err != nil {
		logger.ErrorLogger.Error("Error updating task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to update task",
			"success": false,
			"status":  500,
		})
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
	}

	row := config.DB.QueryRow(
		"SELECT "+taskColumns+" FROM tasks WHERE id = $1 AND user_id = $2",
		taskID, userID)
	updatedTask, err := scanTask(row)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching updated task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to update task",
			"success": false,
			"status":  500,
		})
	}

	// Refresh the cache entry
	cacheKey := fmt.Sprintf("task:%d", taskID)
	config.RedisClient.Del(config.Ctx, cacheKey)
	taskJSON, err := json.Marshal(updatedTask)
	if err == nil {
		config.RedisClient.SetEX(config.Ctx, cacheKey, taskJSON, time.Hour)
	}

	config.Hub.Publish("task.updated", updatedTask.UserID, updatedTask)
	logger.AuditLogger.Info("Task updated", zap.Int("taskID", taskID))
	return c.JSON(fiber.Map{
		"message": "Task updated successfully",
		"success": true,
		"status":  200,
		"data":    updatedTask,
	})
}

func DeleteTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	// Sessions reference the task; remove them first
	if _, err := config.DB.Exec(
		"DELETE FROM pomodoro_sessions WHERE task_id IN (SELECT id FROM tasks WHERE id = $1 AND user_id = $2)",
		taskID, userID); err != nil {
		logger.ErrorLogger.Error("Error deleting task sessions", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to delete task",
			"success": false,
			"status":  500,
		})
	}

	res, err := config.DB.Exec(
		"DELETE FROM tasks WHERE id = $1 AND user_id = $2", taskID, userID)
	if err != nil {
		logger.ErrorLogger.Error("Error deleting task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to delete task",
			"success": false,
			"status":  500,
		})
	}
	// A repeated delete answers 404 just like a foreign or unknown id
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
	}

	cacheKey := fmt.Sprintf("task:%d", taskID)
	config.RedisClient.Del(config.Ctx, cacheKey)

	config.Hub.Publish("task.deleted", userID, fiber.Map{"id": taskID})
	logger.AuditLogger.Info("Task deleted", zap.Int("taskID", taskID))
	return c.JSON(fiber.Map{
		"message": "Task deleted",
		"success": true,
		"status":  200,
	})
}

func LogPomodoroSession(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	type SessionRequest struct {
		StartTime *time.Time `json:"start_time" validate:"required"`
		EndTime   *time.Time `json:"end_time" validate:"required"`
		Completed bool       `json:"completed"`
	}

	var req SessionRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in log session", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.ErrorLogger.Error("Validation error in log session", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	// Sessions may only be logged against the caller's own tasks
	var ownedID int
	err = config.DB.QueryRow(
		"SELECT id FROM tasks WHERE id = $1 AND user_id = $2",
		taskID, userID).Scan(&ownedID)
	if err == sql.ErrNoRows {
		logger.SecurityLogger.Warn("Session log for task not owned",
			zap.Int("user_id", userID), zap.Int("task_id", taskID))
		return c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
	}
	if err != nil {
		logger.ErrorLogger.Error("Error checking task ownership", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to log Pomodoro session",
			"success": false,
			"status":  500,
		})
	}

	session := models.PomodoroSession{
		TaskID:    taskID,
		StartTime: *req.StartTime,
		EndTime:   *req.EndTime,
		Completed: req.Completed,
	}
	err = config.DB.QueryRow(
		"INSERT INTO pomodoro_sessions (task_id, start_time, end_time, completed) VALUES ($1, $2, $3, $4) RETURNING id",
		session.TaskID, session.StartTime, session.EndTime, session.Completed,
	).Scan(&session.ID)
	if err != nil {
		logger.ErrorLogger.Error("Error logging session", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to log Pomodoro session",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Pomodoro session logged",
		zap.Int("task_id", taskID), zap.Int("session_id", session.ID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Session logged successfully",
		"success": true,
		"status":  201,
		"data":    session,
	})
}

func GetTaskSummary(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	rng := c.Query("range")
	if rng != "weekly" {
		rng = "daily"
	}

	// The window is computed on the database clock so it lines up with
	// the CURRENT_TIMESTAMP values the write path stores in updated_at.
	windowStart := "date_trunc('day', NOW())"
	if rng == "weekly" {
		// Trailing 7 days including today
		windowStart = "NOW() - INTERVAL '6 days'"
	}

	// Completed is windowed on last update; total stays all-time. The
	// asymmetry is the documented API contract, see models.Summary.
	var completed int
	err := config.DB.QueryRow(
		"SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND completed = TRUE AND updated_at >= "+windowStart+" AND updated_at <= NOW()",
		userID).Scan(&completed)
	if err != nil {
		logger.ErrorLogger.Error("Error counting completed tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to fetch summary",
			"success": false,
			"status":  500,
		})
	}

	var total int
	err = config.DB.QueryRow(
		"SELECT COUNT(*) FROM tasks WHERE user_id = $1", userID).Scan(&total)
	if err != nil {
		logger.ErrorLogger.Error("Error counting tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to fetch summary",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Summary fetched successfully",
		"success": true,
		"status":  200,
		"data": models.Summary{
			Range:     rng,
			Completed: completed,
			Total:     total,
		},
	})
}
