package cmd

import (
	"errors"
	"fmt"
	"io"
)

// exitError is returned by search-style commands to signal a specific exit
// code, grep style: 0=found, 1=not found, 2=error.
type exitError struct{ code int }

func (e exitError) Error() string {
	switch e.code {
	case 0:
		return ""
	case 1:
		return "no match"
	default:
		return fmt.Sprintf("kwscan error (exit %d)", e.code)
	}
}

// ExitCode extracts the exit code from an exitError.
// Returns -1 if the error is not an exitError.
func ExitCode(err error) int {
	var ee exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return -1
}

// reportError prints err and converts it to exit status 2, unless it
// already carries a status.
func reportError(w io.Writer, err error) error {
	if err == nil || ExitCode(err) >= 0 {
		return err
	}
	fmt.Fprintf(w, "kwscan: %v\n", err)
	return exitError{code: 2}
}
