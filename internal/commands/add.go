package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskhub/internal/config"
	"taskhub/internal/exitcode"
	"taskhub/internal/service"
	"taskhub/internal/session"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd creates a task. Defaults mirror an empty create form: status
// Pending, priority Medium, no due date.
type AddCmd struct {
	desc     string
	status   string
	priority string
	due      string
}

// SetFields sets the non-title fields (for testing).
func (c *AddCmd) SetFields(desc, status, priority, due string) {
	c.desc = desc
	c.status = status
	c.priority = priority
	c.due = due
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskhub add --desc <text> [--status <pending|completed>] [--priority <low|medium|high>] [--due <YYYY-MM-DD>] <title...>"
}
func (c *AddCmd) NeedsSession() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.desc, "desc", "", "")
	fs.StringVar(&c.desc, "d", "", "")
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
	fs.StringVar(&c.due, "due", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")

	status := service.StatusPending
	if c.status != "" {
		var err error
		status, err = service.ParseStatus(c.status)
		if err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.UserError
		}
	}
	priority, err := service.ParsePriority(c.priority)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	form := service.TaskForm{
		Title:       title,
		Description: c.desc,
		Status:      status,
		Priority:    priority,
		DueDate:     c.due,
	}
	if errs := form.Validate(); len(errs) > 0 {
		return reportFieldErrors(errOut, errs)
	}

	task, err := svc.CreateTask(ctx, form.Draft())
	if err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "created %s\n", task.ID)
	}
	return exitcode.Success
}
