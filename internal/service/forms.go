package service

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	minNameLen     = 2
	minPasswordLen = 6

	// dueDateLayout is the calendar-date format accepted from user input.
	dueDateLayout = "2006-01-02"
)

// FieldError attaches a validation message to a single form field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// LoginForm is the login submission.
type LoginForm struct {
	Email    string
	Password string
}

// Validate checks the form and returns one error per failing field.
// A non-empty result blocks submission before any network call.
func (f LoginForm) Validate() []FieldError {
	var errs []FieldError
	if !validEmail(f.Email) {
		errs = append(errs, FieldError{"email", "Invalid email address"})
	}
	if f.Password == "" {
		errs = append(errs, FieldError{"password", "Password is required"})
	}
	return errs
}

// RegisterForm is the account creation submission.
type RegisterForm struct {
	Name     string
	Email    string
	Password string
}

// Validate checks the form and returns one error per failing field.
func (f RegisterForm) Validate() []FieldError {
	var errs []FieldError
	if utf8.RuneCountInString(strings.TrimSpace(f.Name)) < minNameLen {
		errs = append(errs, FieldError{"name", "Name is required"})
	}
	if !validEmail(f.Email) {
		errs = append(errs, FieldError{"email", "Invalid email address"})
	}
	if utf8.RuneCountInString(f.Password) < minPasswordLen {
		errs = append(errs, FieldError{"password", fmt.Sprintf("Password must be at least %d characters", minPasswordLen)})
	}
	return errs
}

// ProfileForm is the profile edit submission. Nil fields were not supplied.
// An empty password means "keep the current password"; a provided one must
// meet the minimum length.
type ProfileForm struct {
	Name     *string
	Email    *string
	Password *string
}

// Validate checks only the supplied fields.
func (f ProfileForm) Validate() []FieldError {
	var errs []FieldError
	if f.Name != nil && utf8.RuneCountInString(strings.TrimSpace(*f.Name)) < minNameLen {
		errs = append(errs, FieldError{"name", "Name is required"})
	}
	if f.Email != nil && !validEmail(*f.Email) {
		errs = append(errs, FieldError{"email", "Invalid email address"})
	}
	if f.Password != nil && *f.Password != "" && utf8.RuneCountInString(*f.Password) < minPasswordLen {
		errs = append(errs, FieldError{"password", fmt.Sprintf("Password must be at least %d characters", minPasswordLen)})
	}
	return errs
}

// Patch converts the form into the wire payload. An empty password is dropped
// rather than sent, so the backend never sees a "change to empty" request.
func (f ProfileForm) Patch() ProfilePatch {
	p := ProfilePatch{Name: f.Name, Email: f.Email}
	if f.Password != nil && *f.Password != "" {
		p.Password = f.Password
	}
	return p
}

// TaskForm is the task create/edit submission.
type TaskForm struct {
	Title       string
	Description string
	Status      Status
	Priority    Priority
	DueDate     string
}

// Validate checks the form and returns one error per failing field.
func (f TaskForm) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(f.Title) == "" {
		errs = append(errs, FieldError{"title", "Title is required"})
	}
	if strings.TrimSpace(f.Description) == "" {
		errs = append(errs, FieldError{"description", "Description is required"})
	}
	if !f.Status.IsValid() {
		errs = append(errs, FieldError{"status", "Status must be Pending or Completed"})
	}
	if !f.Priority.IsValid() {
		errs = append(errs, FieldError{"priority", "Priority must be Low, Medium or High"})
	}
	if f.DueDate != "" {
		if _, err := time.Parse(dueDateLayout, f.DueDate); err != nil {
			errs = append(errs, FieldError{"dueDate", "Due date must be YYYY-MM-DD"})
		}
	}
	return errs
}

// Draft converts a validated form into the create payload.
func (f TaskForm) Draft() TaskDraft {
	return TaskDraft{
		Title:       f.Title,
		Description: f.Description,
		Status:      f.Status,
		Priority:    f.Priority,
		DueDate:     f.DueDate,
	}
}

// validEmail reports whether addr is a bare, syntactically valid address.
func validEmail(addr string) bool {
	a, err := mail.ParseAddress(addr)
	return err == nil && a.Address == addr
}
