package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gostream/storage"
)

func newUnpairCommand(ctx *commandContext) *cobra.Command {
	var forgetFlag bool

	cmd := &cobra.Command{
		Use:   "unpair <address>",
		Short: "Remove this client's pairing from a host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLock(func() error {
				srv, err := ctx.connect(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				client, err := ctx.ensureClient()
				if err != nil {
					return err
				}
				if err := client.Unpair(cmd.Context(), srv); err != nil {
					return err
				}

				store, err := ctx.ensureStore()
				if err != nil {
					return err
				}
				if forgetFlag {
					if err := store.RemoveHost(srv.Address); err != nil && !errors.Is(err, storage.ErrNotFound) {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Unpaired and forgot %s\n", srv.Address)
					return nil
				}

				if err := store.SetPaired(srv.Address, false); err != nil && !errors.Is(err, storage.ErrNotFound) {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Unpaired from %s\n", srv.Address)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&forgetFlag, "forget", false, "Also drop the host and its favorites from local storage")

	return cmd
}
