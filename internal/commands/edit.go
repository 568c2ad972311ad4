package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"taskhub/internal/config"
	"taskhub/internal/exitcode"
	"taskhub/internal/output"
	"taskhub/internal/service"
	"taskhub/internal/session"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd updates a task. It behaves like the edit form: fields start from
// the task's current values, the given flags overwrite them, and the whole
// form is validated and submitted. Submitting with no flags is a no-op
// update.
type EditCmd struct {
	title    optionalString
	desc     optionalString
	status   optionalString
	priority optionalString
	due      optionalString
}

// SetPatch sets the field flags (for testing). Nil means not provided.
func (c *EditCmd) SetPatch(title, desc, status, priority, due *string) {
	setOpt(&c.title, title)
	setOpt(&c.desc, desc)
	setOpt(&c.status, status)
	setOpt(&c.priority, priority)
	setOpt(&c.due, due)
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Update a task" }
func (c *EditCmd) Usage() string {
	return "taskhub edit [--title <text>] [--desc <text>] [--status <pending|completed>] [--priority <low|medium|high>] [--due <YYYY-MM-DD>] <ref>"
}
func (c *EditCmd) NeedsSession() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Var(&c.title, "title", "")
	fs.Var(&c.desc, "desc", "")
	fs.Var(&c.desc, "d", "")
	fs.Var(&c.status, "status", "")
	fs.Var(&c.priority, "priority", "")
	fs.Var(&c.priority, "p", "")
	fs.Var(&c.due, "due", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	task, err := ResolveTask(ctx, svc, args)
	if err != nil {
		if errors.Is(err, ErrTaskRefRequired) {
			fmt.Fprintln(errOut, "error: task reference required")
			return exitcode.UserError
		}
		return reportError(errOut, err)
	}

	// Pre-populate from the current task, then overlay the given flags.
	form := service.TaskForm{
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     output.DueDay(task.DueDate),
	}
	if c.title.set {
		form.Title = c.title.value
	}
	if c.desc.set {
		form.Description = c.desc.value
	}
	if c.status.set {
		st, err := service.ParseStatus(c.status.value)
		if err != nil || st == "" {
			fmt.Fprintf(errOut, "error: invalid status: %q (want pending or completed)\n", c.status.value)
			return exitcode.UserError
		}
		form.Status = st
	}
	if c.priority.set {
		pr, err := service.ParsePriority(c.priority.value)
		if err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.UserError
		}
		form.Priority = pr
	}
	if c.due.set {
		form.DueDate = c.due.value
	}

	if errs := form.Validate(); len(errs) > 0 {
		return reportFieldErrors(errOut, errs)
	}

	// The full form goes over the wire, changed or not, exactly as the
	// edit dialog submits it.
	patch := service.TaskPatch{
		Title:       &form.Title,
		Description: &form.Description,
		Status:      &form.Status,
		Priority:    &form.Priority,
		DueDate:     &form.DueDate,
	}
	if _, err := svc.UpdateTask(ctx, task.ID, patch); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
