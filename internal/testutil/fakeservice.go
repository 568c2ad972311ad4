// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"taskhub/internal/service"
)

// FakeUser is the account the fake service accepts by default.
var FakeUser = service.User{ID: "u-1", Name: "Test User", Email: "test@example.com"}

// FakePassword is the password matching FakeUser.
const FakePassword = "hunter22"

// ErrBadCredentials is what Login returns for anything but FakeUser's
// credentials. It unwraps to service.ErrUnauthorized like the real backend
// client does.
var ErrBadCredentials = badCredentialsError{}

type badCredentialsError struct{}

func (badCredentialsError) Error() string { return "Invalid email or password" }

func (badCredentialsError) Unwrap() error { return service.ErrUnauthorized }

// FakeService is an in-memory implementation of service.Service for testing.
// It accepts FakeUser's credentials and holds a flat task collection.
type FakeService struct {
	mu    sync.Mutex
	user  service.User
	tasks []service.Task
	seq   int

	// Call counters, for asserting that validation short-circuits.
	LoginCalls  int
	CreateCalls int
	UpdateCalls int
	DeleteCalls int
	ListCalls   int

	// LastProfilePatch is the most recent UpdateProfile payload.
	LastProfilePatch service.ProfilePatch

	// Error injection for testing
	LoginErr         error
	RegisterErr      error
	LogoutErr        error
	ProfileErr       error
	UpdateProfileErr error
	ListTasksErr     error
	CreateTaskErr    error
	UpdateTaskErr    error
	DeleteTaskErr    error
}

// NewFakeService creates a FakeService pre-seeded with FakeUser.
func NewFakeService() *FakeService {
	return &FakeService{user: FakeUser}
}

// AddTask seeds a task and returns its generated ID. Backend-created tasks
// always carry a description, status and priority, so empty fields get
// defaults here too.
func (f *FakeService) AddTask(t service.Task) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		f.seq++
		t.ID = fmt.Sprintf("t-%d", f.seq)
	}
	if t.Description == "" {
		t.Description = "seeded task"
	}
	if t.Status == "" {
		t.Status = service.StatusPending
	}
	if t.Priority == "" {
		t.Priority = service.DefaultPriority
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	f.tasks = append(f.tasks, t)
	return t.ID
}

// Tasks returns a copy of the current task collection.
func (f *FakeService) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, email, password string) (service.User, error) {
	f.mu.Lock()
	f.LoginCalls++
	f.mu.Unlock()
	if f.LoginErr != nil {
		return service.User{}, f.LoginErr
	}
	if email != f.user.Email || password != FakePassword {
		return service.User{}, ErrBadCredentials
	}
	return f.user, nil
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, name, email, password string) (service.User, error) {
	if f.RegisterErr != nil {
		return service.User{}, f.RegisterErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = service.User{ID: "u-2", Name: name, Email: email}
	return f.user, nil
}

// Logout implements service.Service.
func (f *FakeService) Logout(ctx context.Context) error {
	return f.LogoutErr
}

// Profile implements service.Service.
func (f *FakeService) Profile(ctx context.Context) (service.Profile, error) {
	if f.ProfileErr != nil {
		return service.Profile{}, f.ProfileErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return service.Profile{Name: f.user.Name, Email: f.user.Email}, nil
}

// UpdateProfile implements service.Service. The received patch is kept in
// LastProfilePatch for wire-shape assertions.
func (f *FakeService) UpdateProfile(ctx context.Context, patch service.ProfilePatch) (service.Profile, error) {
	if f.UpdateProfileErr != nil {
		return service.Profile{}, f.UpdateProfileErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastProfilePatch = patch
	if patch.Name != nil {
		f.user.Name = *patch.Name
	}
	if patch.Email != nil {
		f.user.Email = *patch.Email
	}
	return service.Profile{Name: f.user.Name, Email: f.user.Email}, nil
}

// ListTasks implements service.Service with the backend's filter semantics:
// keyword matches title or description case-insensitively, status matches
// exactly when set.
func (f *FakeService) ListTasks(ctx context.Context, filter service.Filter) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}

	keyword := strings.ToLower(filter.Keyword)
	result := make([]service.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		if keyword != "" &&
			!strings.Contains(strings.ToLower(t.Title), keyword) &&
			!strings.Contains(strings.ToLower(t.Description), keyword) {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, draft service.TaskDraft) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.seq++
	t := service.Task{
		ID:          fmt.Sprintf("t-%d", f.seq),
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
		Priority:    draft.Priority,
		DueDate:     draft.DueDate,
		CreatedAt:   time.Now().UTC(),
	}
	f.tasks = append(f.tasks, t)
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id string, patch service.TaskPatch) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID != id {
			continue
		}
		t := f.tasks[i]
		if patch.Title != nil {
			t.Title = *patch.Title
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.Status != nil {
			t.Status = *patch.Status
		}
		if patch.Priority != nil {
			t.Priority = *patch.Priority
		}
		if patch.DueDate != nil {
			t.DueDate = *patch.DueDate
		}
		f.tasks[i] = t
		return t, nil
	}
	return service.Task{}, service.ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return service.ErrNotFound
}
