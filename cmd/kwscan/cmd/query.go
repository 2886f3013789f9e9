package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/corey/kwscan/internal/adapters/socket"
	"github.com/spf13/cobra"
)

var (
	querySort  bool
	queryCount bool
	queryColor string
)

var queryCmd = &cobra.Command{
	Use:   "query [text ...]",
	Short: "Search text with the running daemon",
	Long: "Sends text (the arguments joined by spaces, or stdin) to the daemon and prints its matches.\n" +
		"Exit status: 0 if anything matched, 1 if nothing did, 2 on error.",
	Args:          cobra.ArbitraryArgs,
	RunE:          runQuery,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	f := queryCmd.Flags()
	f.BoolVar(&querySort, "sort", false, "Order matches by offset, then length, then keyword")
	f.BoolVarP(&queryCount, "count", "c", false, "Print only the number of matches")
	f.StringVar(&queryColor, "color", "auto", "Color output: auto, always, never")
}

func runQuery(cmd *cobra.Command, args []string) error {
	return reportError(cmd.ErrOrStderr(), query(cmd, args))
}

func query(cmd *cobra.Command, args []string) error {
	client := socket.NewClient(socket.SocketPath(projectRoot()))
	if !client.Ping() {
		return errors.New("daemon is not running\n  → start it:  kwscan daemon start --set <name>")
	}

	printer := matchPrinter{w: cmd.OutOrStdout(), count: queryCount, color: resolveColor(queryColor)}
	found := 0
	send := func(_, text string) error {
		result, err := client.Search(text, querySort)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		found += result.Count
		return printer.print("", result.Matches)
	}

	var err error
	if len(args) > 0 {
		err = send("", strings.Join(args, " "))
	} else {
		err = eachInput(cmd, nil, send)
	}
	if err != nil {
		return err
	}
	if found == 0 {
		return exitError{code: 1}
	}
	return nil
}
