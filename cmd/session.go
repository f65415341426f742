package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionCmd(loader *appLoader) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the guest session identity",
	}

	sessionCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the guest session id, creating one if needed",
			Args:  cobra.NoArgs,
			RunE: loader.run(func(cmd *cobra.Command, a *app, _ []string) error {
				id, created, err := a.sessions.EnsureSession(cmd.Context())
				if err != nil {
					return err
				}
				if created {
					a.logger.Info("created guest session", "session_id", id)
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
				return err
			}),
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Forget the guest session id",
			Args:  cobra.NoArgs,
			RunE: loader.run(func(cmd *cobra.Command, a *app, _ []string) error {
				if err := a.sessions.Reset(cmd.Context()); err != nil {
					return err
				}

				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Session reset.")
				return err
			}),
		},
	)

	return sessionCmd
}
