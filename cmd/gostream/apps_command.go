package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gostream/gamestream"
	"gostream/storage"
)

func newAppsCommand(ctx *commandContext) *cobra.Command {
	var favoriteFlag int
	var unfavoriteFlag int
	var favoritesOnlyFlag bool

	cmd := &cobra.Command{
		Use:   "apps <address>",
		Short: "List a host's launchable applications",
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
			apps, err := client.ListApps(cmd.Context(), srv)
			if err != nil {
				return err
			}

			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			if favoriteFlag > 0 {
				title := titleForApp(apps, favoriteFlag)
				if title == "" {
					return fmt.Errorf("app %d not found on %s", favoriteFlag, srv.Hostname)
				}
				err := store.AddFavorite(storage.Favorite{
					HostAddress: srv.Address,
					AppID:       favoriteFlag,
					AppTitle:    title,
				})
				if err != nil {
					return err
				}
			}
			if unfavoriteFlag > 0 {
				if err := store.RemoveFavorite(srv.Address, unfavoriteFlag); err != nil {
					return err
				}
			}

			var rows [][]string
			for _, app := range apps {
				pinned, err := store.IsFavorite(srv.Address, app.ID)
				if err != nil {
					return err
				}
				if favoritesOnlyFlag && !pinned {
					continue
				}
				marker := ""
				if pinned {
					marker = "*"
				}
				rows = append(rows, []string{strconv.Itoa(app.ID), app.Title, marker})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out,
				[]string{"ID", "Title", "Fav"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&favoriteFlag, "favorite", 0, "Mark an app ID as a favorite before listing")
	cmd.Flags().IntVar(&unfavoriteFlag, "unfavorite", 0, "Unmark an app ID as a favorite before listing")
	cmd.Flags().BoolVar(&favoritesOnlyFlag, "favorites", false, "Only list favorite apps")

	return cmd
}

func titleForApp(apps []gamestream.App, id int) string {
	for _, app := range apps {
		if app.ID == id {
			return app.Title
		}
	}
	return ""
}
