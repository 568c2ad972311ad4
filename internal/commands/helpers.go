package commands

import (
	"errors"
	"fmt"
	"io"

	"taskhub/internal/exitcode"
	"taskhub/internal/service"
)

// reportFieldErrors prints one line per failing field and returns the user
// error exit code. Validation failures never reach the network.
func reportFieldErrors(errOut io.Writer, errs []service.FieldError) int {
	for _, e := range errs {
		fmt.Fprintf(errOut, "error: %s\n", e)
	}
	return exitcode.UserError
}

// reportError prints err and maps it onto the exit code taxonomy.
func reportError(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %s\n", err)
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return exitcode.AuthError
	case errors.Is(err, service.ErrNotFound):
		return exitcode.UserError
	}
	return exitcode.BackendError
}

// optionalString is a flag value that records whether it was provided, so an
// explicitly empty value can be told apart from an absent one.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(v string) error {
	o.value = v
	o.set = true
	return nil
}

// ptr returns the value when the flag was provided, nil otherwise.
func (o *optionalString) ptr() *string {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

func setOpt(o *optionalString, v *string) {
	if v != nil {
		o.Set(*v)
	}
}
