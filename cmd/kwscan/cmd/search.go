package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/corey/kwscan/internal/adapters/fsnotify"
	"github.com/corey/kwscan/internal/app"
	"github.com/corey/kwscan/internal/domain/automaton"
	"github.com/corey/kwscan/internal/ports"
	"github.com/spf13/cobra"
)

var (
	searchKeywords keywordFlags
	searchEngine   string
	searchSort     bool
	searchCount    bool
	searchQuiet    bool
	searchJSON     bool
	searchWatch    bool
	searchColor    string
)

var searchCmd = &cobra.Command{
	Use:   "search [flags] [file ...]",
	Short: "Find every keyword occurrence in files or stdin",
	Long: "Reports all occurrences of all keywords, overlapping ones included, as offset<TAB>keyword.\n" +
		"Offsets count code points from the start of each input.\n" +
		"Exit status: 0 if anything matched, 1 if nothing did, 2 on error.",
	Args:          cobra.ArbitraryArgs,
	RunE:          runSearch,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	f := searchCmd.Flags()
	searchKeywords.register(f)
	f.StringVar(&searchEngine, "engine", "", "Matcher engine: lazy, dfa, library (default from config)")
	f.BoolVar(&searchSort, "sort", false, "Order matches by offset, then length, then keyword")
	f.BoolVarP(&searchCount, "count", "c", false, "Print only the number of matches")
	f.BoolVarP(&searchQuiet, "quiet", "q", false, "Quiet mode (exit code only)")
	f.BoolVar(&searchJSON, "json", false, "Print one JSON object per input")
	f.BoolVar(&searchWatch, "watch", false, "Search again whenever a file or the keyword file changes")
	f.StringVar(&searchColor, "color", "auto", "Color output: auto, always, never")
}

func runSearch(cmd *cobra.Command, args []string) error {
	return reportError(cmd.ErrOrStderr(), search(cmd, args))
}

func search(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	keywords, err := searchKeywords.resolve(root)
	if err != nil {
		return err
	}
	engine := searchEngine
	if engine == "" {
		engine = cfg.Engine
	}
	sorted := searchSort || cfg.Sort
	logger := cliLogger(cmd, cfg)

	printer := matchPrinter{
		w:      cmd.OutOrStdout(),
		prefix: len(args) > 1,
		count:  searchCount,
		quiet:  searchQuiet,
		json:   searchJSON,
		color:  resolveColor(searchColor),
	}
	if searchWatch {
		if len(args) == 0 {
			return errors.New("--watch needs at least one file")
		}
		printer.prefix = true
		return watchSearch(cmd, args, engine, sorted, printer)
	}

	m, err := app.NewMatcher(engine, keywords, logger)
	if err != nil {
		return err
	}
	found := 0
	err = eachInput(cmd, args, func(name, text string) error {
		matches := m.SearchIn(text)
		if sorted {
			automaton.SortMatches(matches)
		}
		found += len(matches)
		return printer.print(name, matches)
	})
	if err != nil {
		return err
	}
	if found == 0 {
		return exitError{code: 1}
	}
	return nil
}

// watchSearch runs the search, then again on every change, until interrupted.
func watchSearch(cmd *cobra.Command, files []string, engine string, sorted bool, printer matchPrinter) error {
	root := projectRoot()
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	logger := cliLogger(cmd, cfg)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ws := app.WatchedSearch{
		KeywordFile: searchKeywords.file,
		Inputs:      files,
		Logger:      logger,
		Build: func() (ports.PatternMatcher, error) {
			keywords, err := searchKeywords.resolve(root)
			if err != nil {
				return nil, err
			}
			return app.NewMatcher(engine, keywords, logger)
		},
		Run: func(m ports.PatternMatcher, inputs []string) {
			eachInput(cmd, inputs, func(name, text string) error {
				matches := m.SearchIn(text)
				if sorted {
					automaton.SortMatches(matches)
				}
				return printer.print(name, matches)
			})
		},
	}
	return ws.Watch(ctx, w)
}
