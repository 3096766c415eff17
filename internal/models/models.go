package models

import (
	"database/sql"
	"time"
)

type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Task struct {
	ID          int          `json:"id"`
	UserID      int          `json:"user_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Notes       string       `json:"notes,omitempty"`
	DueDate     sql.NullTime `json:"-"`
	Priority    string       `json:"priority"`
	Category    string       `json:"category"`
	Completed   bool         `json:"completed"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// DueDate is exposed as a nullable RFC3339 field
	Due *time.Time `json:"due_date"`
}

// SyncDue copies the scanned due_date column into the JSON-facing field.
func (t *Task) SyncDue() {
	if t.DueDate.Valid {
		due := t.DueDate.Time
		t.Due = &due
	} else {
		t.Due = nil
	}
}

type PomodoroSession struct {
	ID        int       `json:"id"`
	TaskID    int       `json:"task_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Completed bool      `json:"completed"`
}

// Summary reports completion counts for a range. Total is the user's
// all-time task count while Completed is windowed, matching the original
// API contract even though the two are not directly comparable.
type Summary struct {
	Range     string `json:"range"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}
