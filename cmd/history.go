package cmd

import (
	"fmt"

	"github.com/rpgo/household-forecast/internal/output"
	"github.com/rpgo/household-forecast/internal/store"
	"github.com/spf13/cobra"
)

var flagLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse archived forecast runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withArchive(func(a *store.Archive) error {
			runs, err := a.List(flagLimit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), output.RenderRunList(runs))
			return nil
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one archived run (a unique id prefix is enough)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(func(a *store.Archive) error {
			run, err := a.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), output.RenderRun(run))
			return nil
		})
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an archived run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(func(a *store.Archive) error {
			if err := a.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Deleted run %s\n", args[0])
			return nil
		})
	},
}

func init() {
	historyListCmd.Flags().IntVarP(&flagLimit, "limit", "n", 20, "Maximum runs to list (0 for all)")
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func withArchive(fn func(*store.Archive) error) error {
	a, err := store.Open(settings.StorePath)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
