package service

import "context"

// Service defines the operations against the task backend.
// Commands never touch the HTTP layer directly.
type Service interface {
	// Login authenticates with email and password and returns the user.
	Login(ctx context.Context, email, password string) (User, error)

	// Register creates an account and signs it in.
	Register(ctx context.Context, name, email, password string) (User, error)

	// Logout notifies the backend that the session is over. Callers treat a
	// failure as non-fatal; the local session is cleared regardless.
	Logout(ctx context.Context) error

	// Profile returns the current account profile.
	Profile(ctx context.Context) (Profile, error)

	// UpdateProfile applies a partial profile change and returns the result.
	UpdateProfile(ctx context.Context, patch ProfilePatch) (Profile, error)

	// ListTasks returns the complete result set for the filter, in backend
	// order.
	ListTasks(ctx context.Context, f Filter) ([]Task, error)

	// CreateTask creates a task and returns it as stored.
	CreateTask(ctx context.Context, draft TaskDraft) (Task, error)

	// UpdateTask applies a partial update to the task with the given id.
	UpdateTask(ctx context.Context, id string, patch TaskPatch) (Task, error)

	// DeleteTask removes the task with the given id.
	DeleteTask(ctx context.Context, id string) error
}
