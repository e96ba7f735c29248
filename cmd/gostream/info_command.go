package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <address>",
		Short: "Show a host's status and capabilities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := ctx.connect(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			client, err := ctx.ensureClient()
			if err != nil {
				return err
			}

			family := "GeForce Experience"
			if client.IsSunshine(srv) {
				family = "Sunshine"
			}

			running := "none"
			if srv.CurrentGame != 0 {
				running = strconv.Itoa(srv.CurrentGame)
			}

			rows := [][]string{
				{"Hostname", srv.Hostname},
				{"Address", srv.Address},
				{"MAC", srv.MAC},
				{"Host family", family},
				{"Server version", srv.AppVersion},
				{"GFE version", srv.GFEVersion},
				{"GPU", srv.GPUType},
				{"Paired", yesNo(srv.Paired)},
				{"4K capable", yesNo(srv.Supports4K)},
				{"Running app", running},
				{"HTTPS port", strconv.Itoa(srv.HTTPSPort)},
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out, []string{"Field", "Value"}, rows, nil))
			return nil
		},
	}

	return cmd
}
