package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/corey/kwscan/internal/app"
	"github.com/corey/kwscan/internal/domain/automaton"
	"github.com/corey/kwscan/internal/domain/reference"
	"github.com/corey/kwscan/internal/ports"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spf13/cobra"
)

var verifyKeywords keywordFlags

var verifyCmd = &cobra.Command{
	Use:   "verify [flags] [file ...]",
	Short: "Check every engine against the naive matcher",
	Long: "Searches each input with the lazy, dfa and library engines and with a brute-force\n" +
		"reference matcher, and reports any difference. Exit status 1 on mismatch.",
	Args:          cobra.ArbitraryArgs,
	RunE:          runVerify,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	verifyKeywords.register(verifyCmd.Flags())
}

func runVerify(cmd *cobra.Command, args []string) error {
	return reportError(cmd.ErrOrStderr(), verify(cmd, args))
}

func verify(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	keywords, err := verifyKeywords.resolve(root)
	if err != nil {
		return err
	}
	engines, err := buildEngines(keywords, cliLogger(cmd, cfg))
	if err != nil {
		return err
	}
	ref := reference.New(keywords)

	mismatched := false
	err = eachInput(cmd, args, func(name, text string) error {
		if !compareEngines(cmd.OutOrStdout(), name, text, ref, engines) {
			mismatched = true
		}
		return nil
	})
	if err != nil {
		return err
	}
	if mismatched {
		return exitError{code: 1}
	}
	return nil
}

type namedMatcher struct {
	name    string
	matcher ports.PatternMatcher
}

// buildEngines builds one matcher per engine. Only the first one logs, so
// an empty keyword set is reported once.
func buildEngines(keywords []string, logger *slog.Logger) ([]namedMatcher, error) {
	var out []namedMatcher
	for i, engine := range app.Engines() {
		var l *slog.Logger
		if i == 0 {
			l = logger
		}
		m, err := app.NewMatcher(engine, keywords, l)
		if err != nil {
			return nil, err
		}
		out = append(out, namedMatcher{name: engine, matcher: m})
	}
	return out, nil
}

// compareEngines prints one line per engine and reports whether all agreed
// with the reference matcher. Matches are compared as sorted lists.
func compareEngines(w io.Writer, name, text string, ref ports.PatternMatcher, engines []namedMatcher) bool {
	label := ""
	if name != "" {
		label = name + ": "
	}
	want := ref.SearchIn(text)
	automaton.SortMatches(want)

	ok := true
	for _, e := range engines {
		got := e.matcher.SearchIn(text)
		automaton.SortMatches(got)
		if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
			ok = false
			fmt.Fprintf(w, "%s%s: MISMATCH (-reference +%s):\n%s", label, e.name, e.name, diff)
			continue
		}
		fmt.Fprintf(w, "%s%s: ok (%d matches)\n", label, e.name, len(got))
	}
	return ok
}
