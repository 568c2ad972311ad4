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
	Register(&ProfileCmd{})
}

// ProfileCmd shows the account profile, or updates it when any field flag is
// set. An explicitly empty --password keeps the current password.
type ProfileCmd struct {
	name     optionalString
	email    optionalString
	password optionalString
}

// SetUpdates sets the field flags (for testing). Nil means not provided.
func (c *ProfileCmd) SetUpdates(name, email, password *string) {
	setOpt(&c.name, name)
	setOpt(&c.email, email)
	setOpt(&c.password, password)
}

func (c *ProfileCmd) Name() string      { return "profile" }
func (c *ProfileCmd) Aliases() []string { return nil }
func (c *ProfileCmd) Synopsis() string  { return "Show or update the account profile" }
func (c *ProfileCmd) Usage() string {
	return "taskhub profile [--name <name>] [--email <email>] [--password <password>]"
}
func (c *ProfileCmd) NeedsSession() bool { return true }

func (c *ProfileCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Var(&c.name, "name", "")
	fs.Var(&c.email, "email", "")
	fs.Var(&c.password, "password", "")
}

func (c *ProfileCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: usage: %s\n", c.Usage())
		return exitcode.UserError
	}

	if !c.name.set && !c.email.set && !c.password.set {
		p, err := svc.Profile(ctx)
		if err != nil {
			return reportError(errOut, err)
		}
		output.FormatProfile(out, p)
		return exitcode.Success
	}

	form := service.ProfileForm{
		Name:     c.name.ptr(),
		Email:    c.email.ptr(),
		Password: c.password.ptr(),
	}
	if errs := form.Validate(); len(errs) > 0 {
		return reportFieldErrors(errOut, errs)
	}

	p, err := svc.UpdateProfile(ctx, form.Patch())
	if err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		output.FormatProfile(out, p)
	}
	return exitcode.Success
}
