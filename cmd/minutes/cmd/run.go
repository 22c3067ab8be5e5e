package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/minutes-flow/internal/export"
	"github.com/nguyentantai21042004/minutes-flow/internal/session"
)

var outDir string

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Process one recording and print its transcript and minutes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		a, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.log.Sync()

		res, runErr := a.orchestrator.ProcessFile(ctx, args[0])
		if res != nil && (runErr == nil || session.FailedStage(runErr) == session.StageSummarize) {
			printResult(cmd, res, runErr != nil)

			if outDir != "" {
				name := filepath.Base(args[0])
				files, err := export.WriteAll(outDir, strings.TrimSuffix(name, filepath.Ext(name)), export.Minutes{
					Title:      name,
					Transcript: res.Transcript,
					Bullets:    res.Bullets,
					CreatedAt:  time.Now(),
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", strings.Join(files, ", "))
			}
		}

		return runErr
	},
}

func init() {
	runCmd.Flags().StringVarP(&outDir, "out", "o", "", "also write .txt, .md and .docx outputs into this directory")
}

func printResult(cmd *cobra.Command, res *session.Result, summaryFailed bool) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "== Transcript ==")
	fmt.Fprintln(out, res.Transcript)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "== MoM Summary ==")
	if summaryFailed {
		fmt.Fprintln(out, "(summary generation failed)")
		return
	}
	for _, bullet := range res.Bullets {
		fmt.Fprintf(out, "- %s\n", bullet)
	}
}
