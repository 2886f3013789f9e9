package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// eachInput calls fn with the contents of every file, or of stdin when no
// files are given. Unreadable files are reported and skipped; the returned
// error is non-nil if any were.
func eachInput(cmd *cobra.Command, files []string, fn func(name, text string) error) error {
	if len(files) == 0 {
		in := cmd.InOrStdin()
		if in == os.Stdin && !isStdinPipe() {
			return errors.New("no input (give a file or pipe text on stdin)")
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		return fn("", string(data))
	}

	var failed error
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "kwscan: %v\n", err)
			failed = exitError{code: 2}
			continue
		}
		if err := fn(file, string(data)); err != nil {
			return err
		}
	}
	return failed
}
