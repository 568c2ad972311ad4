package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"taskhub/internal/service"
)

// ErrTaskRefRequired is returned when no task reference was given.
var ErrTaskRefRequired = errors.New("task reference required")

// RefError reports a task reference that matched nothing. It unwraps to
// service.ErrNotFound so the exit-code mapping treats it as a user error.
type RefError struct {
	msg string
}

func (e *RefError) Error() string { return e.msg }

func (e *RefError) Unwrap() error { return service.ErrNotFound }

// ResolveTask finds a task by reference: either the 1-based position in the
// current unfiltered list, or a literal task ID. The list is fetched fresh;
// positions always refer to what a plain `taskhub` run would show.
func ResolveTask(ctx context.Context, svc service.Service, args []string) (service.Task, error) {
	if len(args) != 1 {
		return service.Task{}, ErrTaskRefRequired
	}
	ref := args[0]

	tasks, err := svc.ListTasks(ctx, service.Filter{})
	if err != nil {
		return service.Task{}, err
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(tasks) {
			return service.Task{}, &RefError{msg: fmt.Sprintf("task number out of range: %d", n)}
		}
		return tasks[n-1], nil
	}

	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
	}
	return service.Task{}, &RefError{msg: fmt.Sprintf("task not found: %s", ref)}
}
