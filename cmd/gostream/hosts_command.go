package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newHostsCommand(ctx *commandContext) *cobra.Command {
	var removeFlag string

	cmd := &cobra.Command{
		Use:   "hosts",
		Short: "List hosts this client has talked to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			if removeFlag != "" {
				if err := store.RemoveHost(removeFlag); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", removeFlag)
				return nil
			}

			hosts, err := store.ListHosts()
			if err != nil {
				return err
			}
			if len(hosts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No known hosts. Run `gostream pair <address>` first.")
				return nil
			}

			var rows [][]string
			for _, host := range hosts {
				lastSeen := ""
				if host.LastSeenTimestamp != 0 {
					lastSeen = time.UnixMilli(host.LastSeenTimestamp).Format("2006-01-02 15:04")
				}
				rows = append(rows, []string{
					host.Hostname,
					host.Address,
					host.MAC,
					yesNo(host.Paired),
					strconv.Itoa(host.HTTPSPort),
					lastSeen,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out,
				[]string{"Hostname", "Address", "MAC", "Paired", "HTTPS", "Last seen"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&removeFlag, "remove", "", "Forget a host by address instead of listing")

	return cmd
}
