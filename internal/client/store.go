package client

import (
	"sync"

	"github.com/Ibrarkhan125/time-manager/internal/models"
)

// Stores hold the client's view of server state. They are explicit,
// passed-around objects: mutate through the methods, observe with
// Subscribe. Subscribers run after the mutation, outside the lock.

type AuthStore struct {
	mu    sync.RWMutex
	token string
	user  *models.User
	subs  []func()
}

func NewAuthStore() *AuthStore {
	return &AuthStore{}
}

func (s *AuthStore) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *AuthStore) notify() {
	s.mu.RLock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}

func (s *AuthStore) SetAuth(token string, user models.User) {
	s.mu.Lock()
	s.token = token
	u := user
	s.user = &u
	s.mu.Unlock()
	s.notify()
}

func (s *AuthStore) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	s.notify()
}

func (s *AuthStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *AuthStore) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// LoggedIn reports whether a token is held.
func (s *AuthStore) LoggedIn() bool {
	return s.Token() != ""
}

type TaskStore struct {
	mu    sync.RWMutex
	tasks []models.Task
	subs  []func()
}

func NewTaskStore() *TaskStore {
	return &TaskStore{}
}

func (s *TaskStore) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *TaskStore) notify() {
	s.mu.RLock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}

func (s *TaskStore) SetTasks(tasks []models.Task) {
	s.mu.Lock()
	s.tasks = make([]models.Task, len(tasks))
	copy(s.tasks, tasks)
	s.mu.Unlock()
	s.notify()
}

// AddTask prepends, newest first.
func (s *TaskStore) AddTask(task models.Task) {
	s.mu.Lock()
	s.tasks = append([]models.Task{task}, s.tasks...)
	s.mu.Unlock()
	s.notify()
}

func (s *TaskStore) UpdateTask(task models.Task) {
	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == task.ID {
			s.tasks[i] = task
			break
		}
	}
	s.mu.Unlock()
	s.notify()
}

func (s *TaskStore) RemoveTask(id int) {
	s.mu.Lock()
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	s.mu.Unlock()
	s.notify()
}

// Snapshot returns a copy of the current task list.
func (s *TaskStore) Snapshot() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := make([]models.Task, len(s.tasks))
	copy(tasks, s.tasks)
	return tasks
}
