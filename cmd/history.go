package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newHistoryCmd(loader *appLoader) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Manage recent hospital searches",
	}

	historyCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List recent searches, newest first",
			Args:  cobra.NoArgs,
			RunE: loader.run(func(cmd *cobra.Command, a *app, _ []string) error {
				entries, err := a.history.List(cmd.Context())
				if err != nil {
					return err
				}
				return writeHistory(cmd.OutOrStdout(), entries)
			}),
		},
		&cobra.Command{
			Use:   "add <query>",
			Short: "Record a search query",
			Args:  cobra.ExactArgs(1),
			RunE: loader.run(func(cmd *cobra.Command, a *app, args []string) error {
				entries, err := a.history.Add(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeHistory(cmd.OutOrStdout(), entries)
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Forget all recent searches",
			Args:  cobra.NoArgs,
			RunE: loader.run(func(cmd *cobra.Command, a *app, _ []string) error {
				if err := a.history.Clear(cmd.Context()); err != nil {
					return err
				}

				_, err := fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
				return err
			}),
		},
	)

	return historyCmd
}

func writeHistory(w io.Writer, entries []string) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No recent searches.")
		return err
	}

	for i, entry := range entries {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, entry); err != nil {
			return err
		}
	}
	return nil
}
