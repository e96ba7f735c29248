package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newQuitCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quit <address>",
		Short: "Stop the app running on a host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLock(func() error {
				srv, err := ctx.connect(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if srv.CurrentGame == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Nothing is running on %s\n", srv.Hostname)
					return nil
				}

				client, err := ctx.ensureClient()
				if err != nil {
					return err
				}
				if err := client.QuitApp(cmd.Context(), srv); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Stopped streaming on %s\n", srv.Hostname)
				return nil
			})
		},
	}

	return cmd
}
