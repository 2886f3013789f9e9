package cmd

import (
	"fmt"

	"github.com/corey/kwscan/internal/app"
	"github.com/corey/kwscan/internal/domain/automaton"
	"github.com/spf13/cobra"
)

var setSaveFile string

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Manage stored keyword sets",
	Long:  "Keyword sets live in .kwscan/kwscan.db and can be used with --set or served by the daemon.",
}

var setSaveCmd = &cobra.Command{
	Use:   "save <name> [keyword ...]",
	Short: "Create or replace a keyword set",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSetSave,
}

var setListCmd = &cobra.Command{
	Use:   "list",
	Short: "List keyword sets",
	Args:  cobra.NoArgs,
	RunE:  runSetList,
}

var setShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a keyword set, one keyword per line",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetShow,
}

var setDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a keyword set",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetDelete,
}

func init() {
	setSaveCmd.Flags().StringVarP(&setSaveFile, "file", "f", "", "Read keywords from file, one per line")

	setCmd.AddCommand(setSaveCmd)
	setCmd.AddCommand(setListCmd)
	setCmd.AddCommand(setShowCmd)
	setCmd.AddCommand(setDeleteCmd)
}

func runSetSave(cmd *cobra.Command, args []string) error {
	name := args[0]
	keywords, err := app.KeywordSource{Inline: args[1:], File: setSaveFile}.Resolve(nil)
	if err != nil {
		return err
	}
	keywords = automaton.NormalizeKeywords(keywords)
	if len(keywords) == 0 {
		return fmt.Errorf("set %q: no keywords given", name)
	}

	store, err := openStore(projectRoot())
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.SaveSet(name, keywords); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "⚡ saved %s (%d keywords)\n", name, len(keywords))
	return nil
}

func runSetList(cmd *cobra.Command, args []string) error {
	store, err := openStore(projectRoot())
	if err != nil {
		return err
	}
	defer store.Close()
	sets, err := store.ListSets()
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "⚡ no keyword sets")
		return nil
	}
	return writeSets(cmd.OutOrStdout(), sets)
}

func runSetShow(cmd *cobra.Command, args []string) error {
	store, err := openStore(projectRoot())
	if err != nil {
		return err
	}
	defer store.Close()
	keywords, err := store.LoadSet(args[0])
	if err != nil {
		return err
	}
	if keywords == nil {
		return fmt.Errorf("keyword set %q not found", args[0])
	}
	for _, kw := range keywords {
		fmt.Fprintln(cmd.OutOrStdout(), kw)
	}
	return nil
}

func runSetDelete(cmd *cobra.Command, args []string) error {
	store, err := openStore(projectRoot())
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.DeleteSet(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "⚡ deleted %s\n", args[0])
	return nil
}
