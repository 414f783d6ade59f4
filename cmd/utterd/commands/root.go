package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jeffjose/utter/internal/app"
	"github.com/jeffjose/utter/internal/config"
)

var (
	home      string
	serverURL string
	ydotool   bool
	verbose   bool

	wire *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:   "utterd",
		Short: "Voice dictation from Android to Linux",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserConfigDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, "utterd")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			cfg, err := config.Load(filepath.Join(home, "config.toml"))
			if err != nil {
				return err
			}
			if serverURL != "" {
				cfg.Server = serverURL
			}
			if ydotool {
				cfg.Tool = "ydotool"
			}

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			wire, err = app.NewWire(app.Config{Home: home, File: cfg, Log: log})
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.config/utterd)")
	root.PersistentFlags().StringVar(&serverURL, "server", "", "relay websocket URL (e.g. ws://localhost:8080)")
	root.PersistentFlags().BoolVar(&ydotool, "ydotool", false, "use ydotool instead of xdotool (for Wayland)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(runCmd(), fingerprintCmd(), resetKeysCmd(), signOutCmd())
	return root.Execute()
}
