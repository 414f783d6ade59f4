package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jeffjose/utter/internal/session"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to the relay and type incoming messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := wire.Identity.LoadOrCreate()
			if err != nil {
				return fmt.Errorf("load identity key: %w", err)
			}

			if !wire.Typist.Available() {
				wire.Log.Warn("injection tool not found; install it first",
					"tool", wire.Typist.Name(),
					"hint", "sudo apt install "+wire.Typist.Name())
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			// Authenticate up front so total OAuth failure aborts startup
			// instead of looping inside the supervisor.
			if _, err := wire.Auth.GetOrAuthenticate(ctx); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}

			client := wire.SessionClient(keys)

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return client.Run(ctx) })
			g.Go(func() error { return watchStatus(ctx, client.Status(), wire.Log) })

			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			wire.Log.Info("shutdown complete")
			return nil
		},
	}
}

// watchStatus logs session state transitions once per change. It reads
// snapshot copies only; the session's lock is never held here.
func watchStatus(ctx context.Context, st *session.Status, log *slog.Logger) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var last session.Snapshot
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		snap := st.Snapshot()
		if snap.State == last.State && snap.BackoffRemaining == last.BackoffRemaining &&
			snap.MessagesReceived == last.MessagesReceived && snap.LastError == last.LastError {
			continue
		}
		attrs := []any{"state", snap.State.String(), "attempts", snap.Attempts, "messages", snap.MessagesReceived}
		if snap.State == session.StateBackoff {
			attrs = append(attrs, "reconnect_in", snap.BackoffRemaining)
		}
		if snap.LastError != "" {
			attrs = append(attrs, "last_error", snap.LastError)
		}
		log.Info("session", attrs...)
		last = snap
	}
}
