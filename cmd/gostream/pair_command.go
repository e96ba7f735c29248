package main

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"
)

func newPairCommand(ctx *commandContext) *cobra.Command {
	var pinFlag string

	cmd := &cobra.Command{
		Use:   "pair <address>",
		Short: "Pair this client with a host",
		Long: "Generates a 4-digit PIN, prints it, and runs the pairing " +
			"handshake. Enter the PIN on the host when prompted.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLock(func() error {
				srv, err := ctx.connect(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				pin := pinFlag
				if pin == "" {
					pin, err = generatePIN()
					if err != nil {
						return err
					}
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Enter PIN %s on %s\n", pin, srv.Hostname)

				client, err := ctx.ensureClient()
				if err != nil {
					return err
				}
				if err := client.Pair(cmd.Context(), srv, pin); err != nil {
					return err
				}

				ctx.rememberHost(srv)
				fmt.Fprintf(cmd.OutOrStdout(), "Paired with %s (%s)\n", srv.Hostname, srv.Address)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&pinFlag, "pin", "", "Use a fixed 4-digit PIN instead of a generated one")

	return cmd
}

func generatePIN() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("generate PIN: %w", err)
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
