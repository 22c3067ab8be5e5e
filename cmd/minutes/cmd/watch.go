package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/minutes-flow/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Process every recording dropped into the inbox folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		a, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.log.Sync()

		handler := watcher.NewSessionHandler(a.orchestrator, a.cfg.Paths.Output, a.cfg.Paths.Archived, a.log)
		w, err := watcher.New(a.cfg.Paths.Input, a.cfg.Upload.Extensions, handler, a.log, a.cfg.Performance.MaxConcurrent)
		if err != nil {
			return err
		}
		defer w.Stop()

		a.log.Info(ctx, "========================================")
		a.log.Info(ctx, "SmartNotes inbox is ready!")
		a.log.Info(ctx, "Monitoring: %s", a.cfg.Paths.Input)
		a.log.Info(ctx, "Output: %s", a.cfg.Paths.Output)
		a.log.Info(ctx, "Archive: %s", a.cfg.Paths.Archived)
		a.log.Info(ctx, "Press Ctrl+C to stop")
		a.log.Info(ctx, "========================================")

		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		a.log.Info(ctx, "SmartNotes inbox stopped")
		return nil
	},
}
