package client

import (
	"context"
	"sync"
	"time"

	"github.com/Ibrarkhan125/time-manager/internal/models"
)

const (
	FocusDuration = 25 * time.Minute
	BreakDuration = 1 * time.Minute
)

// State is the timer's current phase.
type State string

const (
	StateIdle  State = "idle"
	StateFocus State = "focus"
	StateBreak State = "break"
)

// SessionLogger records a finished focus session; *Client satisfies it.
type SessionLogger interface {
	LogSession(ctx context.Context, taskID int, start, end time.Time, completed bool) (models.PomodoroSession, error)
}

// Notifier surfaces messages to the user.
type Notifier interface {
	Notify(title, body string)
}

// Timer is the Pomodoro countdown state machine. A focus phase that runs
// to zero logs exactly one session and rolls into a break; the break rolls
// back into focus against the same task. Stop cancels the tick goroutine
// and discards the phase in progress without logging.
type Timer struct {
	logger   SessionLogger
	notifier Notifier

	mu          sync.Mutex
	state       State
	taskID      int
	secondsLeft int
	startTime   time.Time
	stopCh      chan struct{}
}

func NewTimer(logger SessionLogger, notifier Notifier) *Timer {
	return &Timer{
		logger:      logger,
		notifier:    notifier,
		state:       StateIdle,
		secondsLeft: int(FocusDuration.Seconds()),
	}
}

// SelectTask picks the task focus sessions are logged against. Ignored
// while the timer is running.
func (t *Timer) SelectTask(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateIdle {
		t.taskID = id
	}
}

// Start begins a focus phase. Without a selected task nothing happens
// beyond a warning.
func (t *Timer) Start() {
	t.mu.Lock()
	if t.state != StateIdle {
		t.mu.Unlock()
		return
	}
	if t.taskID == 0 {
		t.mu.Unlock()
		t.notifier.Notify("Pomodoro", "Select a task to start a focus session")
		return
	}
	t.state = StateFocus
	t.secondsLeft = int(FocusDuration.Seconds())
	t.startTime = time.Now()
	stop := make(chan struct{})
	t.stopCh = stop
	t.mu.Unlock()

	go t.run(stop)
}

// Stop cancels any running phase. In-progress timing is discarded; no
// session is logged.
func (t *Timer) Stop() {
	t.mu.Lock()
	if t.stopCh != nil {
		close(t.stopCh)
		t.stopCh = nil
	}
	t.state = StateIdle
	t.secondsLeft = int(FocusDuration.Seconds())
	t.mu.Unlock()
}

func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Timer) SecondsLeft() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.secondsLeft
}

func (t *Timer) run(stop chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.tick()
		}
	}
}

// tick advances the countdown by one second and handles phase rollover.
func (t *Timer) tick() {
	t.mu.Lock()
	if t.state == StateIdle {
		t.mu.Unlock()
		return
	}
	t.secondsLeft--
	if t.secondsLeft > 0 {
		t.mu.Unlock()
		return
	}

	var logTask int
	var logStart time.Time
	switch t.state {
	case StateFocus:
		logTask = t.taskID
		logStart = t.startTime
		t.state = StateBreak
		t.secondsLeft = int(BreakDuration.Seconds())
	case StateBreak:
		t.state = StateFocus
		t.secondsLeft = int(FocusDuration.Seconds())
		t.startTime = time.Now()
	}
	t.mu.Unlock()

	if logTask != 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := t.logger.LogSession(ctx, logTask, logStart, time.Now(), true); err != nil {
			t.notifier.Notify("Pomodoro", "Failed to log focus session: "+err.Error())
		} else {
			t.notifier.Notify("Pomodoro Complete!", "Time for a break.")
		}
	} else {
		t.notifier.Notify("Break Over!", "Start your next Pomodoro.")
	}
}
