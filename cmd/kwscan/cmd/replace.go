package cmd

import (
	"errors"
	"io"

	"github.com/corey/kwscan/internal/app"
	"github.com/spf13/cobra"
)

var (
	replacePairs     []string
	replacePairsFile string
	replaceEngine    string
)

var replaceCmd = &cobra.Command{
	Use:   "replace [flags] [file]",
	Short: "Replace keywords in a file or stdin",
	Long: "Scans left to right and replaces the longest key starting at each position.\n" +
		"Replaced text is never scanned again.",
	Args:          cobra.MaximumNArgs(1),
	RunE:          runReplace,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	f := replaceCmd.Flags()
	f.StringArrayVarP(&replacePairs, "pair", "p", nil, "Replacement as from=to (repeatable)")
	f.StringVarP(&replacePairsFile, "pairs", "P", "", "TOML file of \"from\" = \"to\" pairs")
	f.StringVar(&replaceEngine, "engine", "", "Matcher engine: lazy, dfa, library (default from config)")
}

func runReplace(cmd *cobra.Command, args []string) error {
	return reportError(cmd.ErrOrStderr(), replaceText(cmd, args))
}

func replaceText(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(projectRoot())
	if err != nil {
		return err
	}
	pairs, err := replacementPairs()
	if err != nil {
		return err
	}
	engine := replaceEngine
	if engine == "" {
		engine = cfg.Engine
	}
	r, err := app.NewReplacer(engine, pairs)
	if err != nil {
		return err
	}
	return eachInput(cmd, args, func(_, text string) error {
		_, err := io.WriteString(cmd.OutOrStdout(), r.Replace(text))
		return err
	})
}

// replacementPairs merges -P file pairs with -p flags; flags win.
func replacementPairs() (map[string]string, error) {
	pairs := make(map[string]string)
	if replacePairsFile != "" {
		fromFile, err := app.ReadPairsFile(replacePairsFile)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			pairs[k] = v
		}
	}
	for _, p := range replacePairs {
		from, to, err := app.ParsePair(p)
		if err != nil {
			return nil, err
		}
		pairs[from] = to
	}
	if len(pairs) == 0 {
		return nil, errors.New("no replacements (use -p from=to or -P file)")
	}
	return pairs, nil
}
