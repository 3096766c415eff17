package client

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	// A task is "due soon" when its due date falls inside this lookahead.
	reminderWindowFar  = 10 * time.Minute
	reminderWindowNear = 9 * time.Minute

	scanInterval = time.Minute
)

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) Notify(title, body string) {
	n.Logger.Info("notification", zap.String("title", title), zap.String("body", body))
}

// ReminderScanner raises a notification for incomplete tasks due within
// the lookahead window. The one-minute cadence combined with the
// minute-wide window yields at most one reminder per task; reminders are
// best-effort and not persisted.
type ReminderScanner struct {
	store    *TaskStore
	notifier Notifier
}

func NewReminderScanner(store *TaskStore, notifier Notifier) *ReminderScanner {
	return &ReminderScanner{store: store, notifier: notifier}
}

// Run scans once a minute until the context is cancelled.
func (r *ReminderScanner) Run(ctx context.Context) {
	ticker := time.NewTicker(scanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.scan(time.Now())
		}
	}
}

func (r *ReminderScanner) scan(now time.Time) {
	for _, task := range r.store.Snapshot() {
		if task.Completed || task.Due == nil {
			continue
		}
		until := task.Due.Sub(now)
		if until > reminderWindowNear && until <= reminderWindowFar {
			r.notifier.Notify("Task Reminder",
				fmt.Sprintf("Upcoming: %s is due soon!", task.Title))
		}
	}
}
