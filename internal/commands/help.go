package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskhub/internal/config"
	"taskhub/internal/exitcode"
	"taskhub/internal/service"
	"taskhub/internal/session"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "taskhub help" }
func (c *HelpCmd) NeedsSession() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskhub                                             Show the dashboard (summary + tasks)
  taskhub list [common flags] [--keyword <text>] [--status <pending|completed>]
  taskhub add [common flags] --desc <text> [--status <s>] [--priority <low|medium|high>] [--due <YYYY-MM-DD>] <title...>
  taskhub edit [common flags] [--title <text>] [--desc <text>] [--status <s>] [--priority <p>] [--due <d>] <ref>
  taskhub done [common flags] <ref>
  taskhub rm [common flags] <ref>
  taskhub login [common flags] <email> <password>
  taskhub register [common flags] <name> <email> <password>
  taskhub logout [common flags]
  taskhub profile [common flags] [--name <name>] [--email <email>] [--password <password>]
  taskhub help
  taskhub version

A <ref> is the task's number in the unfiltered list, or its ID.

Common flags:
  --config <dir>     Override config directory
  --base-url <url>   Override the backend API root (or set TASKHUB_API)
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr
`
