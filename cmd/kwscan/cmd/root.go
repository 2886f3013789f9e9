package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/corey/kwscan/internal/app"
	"github.com/spf13/cobra"
)

var rootDir string

var rootCmd = &cobra.Command{
	Use:   "kwscan",
	Short: "kwscan — multi-keyword search",
	Long:  "Finds all occurrences of a set of keywords in one pass (Aho-Corasick), with stored keyword sets and a search daemon.",

	SilenceUsage: true,
}

// projectRoot returns the project root (--root, else cwd).
func projectRoot() string {
	if rootDir != "" {
		return rootDir
	}
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

func loadConfig(root string) (*app.Config, error) {
	return app.LoadConfig(app.NewPaths(root).Config)
}

// cliLogger reports diagnostics on stderr. Info chatter is for the daemon log.
func cliLogger(cmd *cobra.Command, cfg *app.Config) *slog.Logger {
	return app.NewLogger(cmd.ErrOrStderr(), max(cfg.Level(), slog.LevelWarn))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Project root (default: current directory)")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(replaceCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(configCmd)
}
