package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/corey/kwscan/internal/adapters/socket"
	"github.com/corey/kwscan/internal/app"
	"github.com/spf13/cobra"
)

var configInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long: "Shows project root, database, socket and config paths, daemon status, and the effective\n" +
		"configuration. With --init, writes the default .kwscan/config.toml. No daemon required.",
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "Write the default config.toml (never overwrites)")
}

func runConfig(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	paths := app.NewPaths(root)
	out := cmd.OutOrStdout()

	if configInit {
		if err := paths.EnsureDirs(); err != nil {
			return err
		}
		if err := app.DefaultConfig().WriteFile(paths.Config); err != nil {
			return err
		}
		fmt.Fprintf(out, "⚡ wrote %s\n", paths.Config)
		return nil
	}

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	sockPath := socket.SocketPath(root)
	client := socket.NewClient(sockPath)
	daemonRunning := client.Ping()
	daemonStatus := fmt.Sprintf("%s✗ not running%s", colorYellow, colorReset)
	if daemonRunning {
		daemonStatus = fmt.Sprintf("%s✓ running%s", colorGreen, colorReset)
	}
	configStatus := "(defaults)"
	if _, err := os.Stat(paths.Config); err == nil {
		configStatus = ""
	}

	fmt.Fprintf(out, "%s⚡ kwscan config%s\n", colorBold, colorReset)
	fmt.Fprintf(out, "  Root:       %s\n", root)
	fmt.Fprintf(out, "  Config:     %s %s\n", paths.Config, configStatus)
	fmt.Fprintf(out, "  DB:         %s\n", paths.DB)
	fmt.Fprintf(out, "  Socket:     %s\n", sockPath)
	fmt.Fprintf(out, "  Daemon:     %s\n", daemonStatus)

	if daemonRunning {
		if addr, err := os.ReadFile(paths.MetricsFile); err == nil {
			fmt.Fprintf(out, "  Metrics:    http://%s/metrics\n", strings.TrimSpace(string(addr)))
		}
	}

	fmt.Fprintf(out, "\n%s# effective configuration%s\n", colorGray, colorReset)
	return cfg.Write(out)
}
