package commands

import (
	"context"
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
	Register(&ListCmd{})
}

// ListCmd is the dashboard: fetch the result set for the current filter and
// render the summary counters plus the tasks. Runs when taskhub is invoked
// with no arguments.
type ListCmd struct {
	keyword string
	status  string
}

// SetFilter sets the filter inputs (for testing).
func (c *ListCmd) SetFilter(keyword, status string) {
	c.keyword = keyword
	c.status = status
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) Usage() string      { return "taskhub list [--keyword <text>] [--status <pending|completed>]" }
func (c *ListCmd) NeedsSession() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.keyword, "keyword", "", "")
	fs.StringVar(&c.keyword, "k", "", "")
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.status, "s", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: usage: %s\n", c.Usage())
		return exitcode.UserError
	}

	status, err := service.ParseStatus(c.status)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	// The response replaces the previous result set wholesale. Counters are
	// derived from it, never fetched separately.
	tasks, err := svc.ListTasks(ctx, service.Filter{Keyword: c.keyword, Status: status})
	if err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		output.FormatSummary(out, service.Summarize(tasks))
	}

	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	for i, t := range tasks {
		output.FormatTask(out, i+1, t)
	}
	return exitcode.Success
}
