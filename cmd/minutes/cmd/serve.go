package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/minutes-flow/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web upload UI and JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		a, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.log.Sync()

		a.log.Info(ctx, "========================================")
		a.log.Info(ctx, "SmartNotes is ready on http://%s", a.cfg.Addr())
		a.log.Info(ctx, "Max upload: %d MB, accepted: %v", a.cfg.Upload.MaxSizeMB, a.cfg.Upload.Extensions)
		a.log.Info(ctx, "Press Ctrl+C to stop")
		a.log.Info(ctx, "========================================")

		return web.New(a.cfg, a.orchestrator, a.log).Run(ctx)
	},
}
