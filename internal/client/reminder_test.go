package client

import (
	"testing"
	"time"

	"github.com/Ibrarkhan125/time-manager/internal/models"

	"github.com/stretchr/testify/assert"
)

func taskDueIn(id int, title string, in time.Duration, completed bool, now time.Time) models.Task {
	due := now.Add(in)
	return models.Task{ID: id, Title: title, Due: &due, Completed: completed}
}

func TestReminderScanWindow(t *testing.T) {
	now := time.Now()
	store := NewTaskStore()
	store.SetTasks([]models.Task{
		taskDueIn(1, "In the window", 9*time.Minute+30*time.Second, false, now),
		taskDueIn(2, "Too soon", 5*time.Minute, false, now),
		taskDueIn(3, "Too far", 15*time.Minute, false, now),
		taskDueIn(4, "Already done", 9*time.Minute+30*time.Second, true, now),
		{ID: 5, Title: "No due date"},
	})

	notifier := &fakeNotifier{}
	scanner := NewReminderScanner(store, notifier)
	scanner.scan(now)

	assert.Equal(t, 1, notifier.count())
}

func TestReminderScanBoundaries(t *testing.T) {
	now := time.Now()
	notifier := &fakeNotifier{}
	store := NewTaskStore()
	scanner := NewReminderScanner(store, notifier)

	// Exactly 10 minutes out is inside the window
	store.SetTasks([]models.Task{taskDueIn(1, "Edge far", reminderWindowFar, false, now)})
	scanner.scan(now)
	assert.Equal(t, 1, notifier.count())

	// Exactly 9 minutes out is outside
	store.SetTasks([]models.Task{taskDueIn(2, "Edge near", reminderWindowNear, false, now)})
	scanner.scan(now)
	assert.Equal(t, 1, notifier.count())
}

func TestReminderScanEmptyStore(t *testing.T) {
	notifier := &fakeNotifier{}
	scanner := NewReminderScanner(NewTaskStore(), notifier)
	scanner.scan(time.Now())
	assert.Equal(t, 0, notifier.count())
}
