package commands

import (
	"errors"
	"fmt"
	"io"

	"taskdeck/internal/exitcode"
	"taskdeck/internal/querycache"
	"taskdeck/internal/service"
)

// reportError prints err to errOut and returns the matching exit code.
// Validation failures print one line per field.
func reportError(errOut io.Writer, err error) int {
	var verrs service.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		for _, field := range verrs.Fields() {
			fmt.Fprintf(errOut, "error: %s: %s\n", field, verrs[field])
		}
		return exitcode.UserError
	case errors.Is(err, service.ErrUnauthorized):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrBadRequest):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, querycache.ErrDisabled):
		fmt.Fprintln(errOut, "error: missing query parameter")
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// reportTaskError is reportError with a friendlier not-found message.
func reportTaskError(errOut io.Writer, id service.ID, err error) int {
	if errors.Is(err, service.ErrNotFound) {
		fmt.Fprintf(errOut, "error: task not found: %s\n", id)
		return exitcode.UserError
	}
	return reportError(errOut, err)
}

// reportArgError prints a task id parse error.
func reportArgError(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.UserError
}
