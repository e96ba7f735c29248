package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gostream/gamestream"
)

type launchFlags struct {
	width      int
	height     int
	fps        int
	sops       bool
	localAudio bool
	surround   bool
	gamepads   int
}

func (f *launchFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.width, "width", 0, "Stream width in pixels (default from config)")
	cmd.Flags().IntVar(&f.height, "height", 0, "Stream height in pixels (default from config)")
	cmd.Flags().IntVar(&f.fps, "fps", 0, "Stream frame rate (default from config)")
	cmd.Flags().BoolVar(&f.sops, "sops", false, "Let the host optimize game settings for streaming")
	cmd.Flags().BoolVar(&f.localAudio, "local-audio", false, "Keep audio playing on the host")
	cmd.Flags().BoolVar(&f.surround, "surround", false, "Request 5.1 surround audio")
	cmd.Flags().IntVar(&f.gamepads, "gamepads", 0, "Bitmap of attached gamepads")
}

// streamConfig merges flag overrides over the configured stream defaults.
func (ctx *commandContext) streamConfig(cmd *cobra.Command, f *launchFlags) (gamestream.StreamConfig, error) {
	settings, err := ctx.ensureSettings()
	if err != nil {
		return gamestream.StreamConfig{}, err
	}

	cfg := gamestream.StreamConfig{
		Width:       settings.Stream.Width,
		Height:      settings.Stream.Height,
		FPS:         settings.Stream.FPS,
		SOPS:        settings.Stream.SOPS,
		LocalAudio:  settings.Stream.LocalAudio,
		GamepadMask: f.gamepads,
	}
	if settings.Stream.Surround {
		cfg.AudioConfiguration = gamestream.Audio51Surround
	}

	if f.width > 0 {
		cfg.Width = f.width
	}
	if f.height > 0 {
		cfg.Height = f.height
	}
	if f.fps > 0 {
		cfg.FPS = f.fps
	}
	if cmd.Flags().Changed("sops") {
		cfg.SOPS = f.sops
	}
	if cmd.Flags().Changed("local-audio") {
		cfg.LocalAudio = f.localAudio
	}
	if cmd.Flags().Changed("surround") {
		cfg.AudioConfiguration = gamestream.AudioStereo
		if f.surround {
			cfg.AudioConfiguration = gamestream.Audio51Surround
		}
	}

	return cfg, nil
}

func newLaunchCommand(ctx *commandContext) *cobra.Command {
	var flags launchFlags

	cmd := &cobra.Command{
		Use:   "launch <address> <app-id>",
		Short: "Launch an application on a host",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, err := strconv.Atoi(args[1])
			if err != nil || appID <= 0 {
				return fmt.Errorf("invalid app id %q", args[1])
			}

			return ctx.withLock(func() error {
				srv, err := ctx.connect(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if srv.CurrentGame != 0 && srv.CurrentGame != appID {
					return fmt.Errorf("app %d is already running on %s; quit it or use resume", srv.CurrentGame, srv.Hostname)
				}

				return startApp(ctx, cmd, &flags, srv, appID)
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func newResumeCommand(ctx *commandContext) *cobra.Command {
	var flags launchFlags

	cmd := &cobra.Command{
		Use:   "resume <address>",
		Short: "Reconnect to the app already running on a host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLock(func() error {
				srv, err := ctx.connect(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if srv.CurrentGame == 0 {
					return fmt.Errorf("nothing is running on %s", srv.Hostname)
				}

				return startApp(ctx, cmd, &flags, srv, srv.CurrentGame)
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func startApp(ctx *commandContext, cmd *cobra.Command, flags *launchFlags, srv *gamestream.Server, appID int) error {
	cfg, err := ctx.streamConfig(cmd, flags)
	if err != nil {
		return err
	}

	client, err := ctx.ensureClient()
	if err != nil {
		return err
	}
	sessionKey, err := client.StartApp(cmd.Context(), srv, cfg, appID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "App %d is streaming from %s\n", srv.CurrentGame, srv.Hostname)
	fmt.Fprintf(out, "Session key: %x\n", sessionKey)
	if srv.RTSPSessionURL != "" {
		fmt.Fprintf(out, "RTSP session: %s\n", srv.RTSPSessionURL)
	}
	return nil
}
