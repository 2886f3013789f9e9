package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/corey/kwscan/internal/adapters/socket"
	"github.com/corey/kwscan/internal/app"
	"github.com/spf13/cobra"
)

var (
	daemonSet         string
	daemonEngine      string
	daemonMetricsAddr string
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the kwscan daemon",
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Serve a keyword set over the project socket (foreground)",
	RunE:  runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	RunE:  runDaemonStop,
}

func init() {
	f := daemonStartCmd.Flags()
	f.StringVar(&daemonSet, "set", "", "Keyword set to serve (default from config)")
	f.StringVar(&daemonEngine, "engine", "", "Matcher engine (default from config)")
	f.StringVar(&daemonMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on host:port")

	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	sockPath := socket.SocketPath(root)

	// Check if already running
	client := socket.NewClient(sockPath)
	if client.Ping() {
		fmt.Fprintln(cmd.OutOrStdout(), "⚡ daemon already running")
		return nil
	}

	a, err := app.New(app.Options{
		ProjectRoot: root,
		Set:         daemonSet,
		Engine:      daemonEngine,
		MetricsAddr: daemonMetricsAddr,
	})
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}

	if err := a.Start(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "⚡ kwscan daemon serving %s (%s, %d keywords) at %s\n",
		a.SetName(), a.Engine(), len(a.Matcher.Keywords()), sockPath)
	if addr := a.MetricsAddr(); addr != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "  metrics: http://%s/metrics\n", addr)
	}

	// Wait for a signal or a shutdown request
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	select {
	case <-sigCh:
	case <-a.Server.ShutdownCh():
	}

	fmt.Fprintln(cmd.OutOrStdout(), "\n⚡ shutting down...")
	return a.Stop()
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	sockPath := socket.SocketPath(root)
	client := socket.NewClient(sockPath)

	if !client.Ping() {
		if _, err := os.Stat(sockPath); err == nil {
			os.Remove(sockPath)
			fmt.Fprintf(cmd.OutOrStdout(), "⚡ daemon is not running (removed stale socket %s)\n", sockPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "⚡ daemon is not running")
		return nil
	}

	if err := client.Shutdown(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "⚡ daemon stopped")
	return nil
}
