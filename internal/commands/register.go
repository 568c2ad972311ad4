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
	Register(&RegisterCmd{})
}

// RegisterCmd creates an account and signs it in.
type RegisterCmd struct{}

func (c *RegisterCmd) Name() string       { return "register" }
func (c *RegisterCmd) Aliases() []string  { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string   { return "Create an account" }
func (c *RegisterCmd) Usage() string      { return "taskhub register <name> <email> <password>" }
func (c *RegisterCmd) NeedsSession() bool { return false }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 3 {
		fmt.Fprintf(errOut, "error: usage: %s\n", c.Usage())
		return exitcode.UserError
	}

	form := service.RegisterForm{Name: args[0], Email: args[1], Password: args[2]}
	if errs := form.Validate(); len(errs) > 0 {
		return reportFieldErrors(errOut, errs)
	}

	user, err := svc.Register(ctx, form.Name, form.Email, form.Password)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.AuthError
	}

	// The backend signs the new account in; store that session.
	if err := sess.Login(user); err != nil {
		fmt.Fprintf(errOut, "error: failed to store session: %s\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "registered %s\n", user.Email)
	}
	return exitcode.Success
}
