// kwscan finds every occurrence of many keywords in text at once.
// One pass over the input, overlaps included, offsets in code points.
package main

import (
	"os"

	"github.com/corey/kwscan/cmd/kwscan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if code := cmd.ExitCode(err); code >= 0 {
			os.Exit(code)
		}
		os.Exit(1)
	}
}
