package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"gostream/config"
)

func newBoxArtCommand(ctx *commandContext) *cobra.Command {
	var outputFlag string
	var refreshFlag bool

	cmd := &cobra.Command{
		Use:   "boxart <address> <app-id>",
		Short: "Fetch an app's box art image",
		Long: "Downloads an application's box art and caches it under the " +
			"data directory. Use --output to write it elsewhere.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, err := strconv.Atoi(args[1])
			if err != nil || appID <= 0 {
				return fmt.Errorf("invalid app id %q", args[1])
			}

			if _, err := ctx.ensureSettings(); err != nil {
				return err
			}

			dest := outputFlag
			if dest == "" {
				dest = filepath.Join(config.BoxArtDir(ctx.dataDir), fmt.Sprintf("%d.png", appID))
			}

			if !refreshFlag && outputFlag == "" {
				if _, err := os.Stat(dest); err == nil {
					fmt.Fprintln(cmd.OutOrStdout(), dest)
					return nil
				}
			}

			srv, err := ctx.connect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			client, err := ctx.ensureClient()
			if err != nil {
				return err
			}

			image, err := client.BoxArt(cmd.Context(), srv, appID)
			if err != nil {
				return err
			}
			if err := os.WriteFile(dest, image, 0o644); err != nil {
				return fmt.Errorf("write box art: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), dest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the image to this path instead of the cache")
	cmd.Flags().BoolVar(&refreshFlag, "refresh", false, "Re-download even if a cached copy exists")

	return cmd
}
