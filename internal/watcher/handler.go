package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/export"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/session"
)

// FileProcessor runs a recording on disk through a session
type FileProcessor interface {
	ProcessFile(ctx context.Context, path string) (*session.Result, error)
}

// NewSessionHandler returns the inbox handler: process the recording, write its
// transcript and minutes into outputDir, then move the recording to archivedDir.
// When only the summary fails the transcript is still written and the recording stays in the inbox.
func NewSessionHandler(proc FileProcessor, outputDir, archivedDir string, log logger.Logger) EventHandler {
	return func(ctx context.Context, path string) error {
		res, err := proc.ProcessFile(ctx, path)

		keep := res != nil && (err == nil || session.FailedStage(err) == session.StageSummarize)
		if keep {
			files, werr := writeOutputs(outputDir, path, res)
			if werr != nil {
				return errors.Join(err, werr)
			}
			log.Info(ctx, "Outputs written: %s", strings.Join(files, ", "))
		}

		if err != nil {
			return fmt.Errorf("process %s: %w", filepath.Base(path), err)
		}

		dest, err := moveToArchived(path, archivedDir)
		if err != nil {
			return err
		}
		log.Info(ctx, "Recording archived: %s", dest)
		return nil
	}
}

func writeOutputs(outputDir, path string, res *session.Result) ([]string, error) {
	name := filepath.Base(path)
	base := strings.TrimSuffix(name, filepath.Ext(name))

	return export.WriteAll(outputDir, base, export.Minutes{
		Title:      name,
		Transcript: res.Transcript,
		Bullets:    res.Bullets,
		CreatedAt:  time.Now(),
	})
}

// moveToArchived moves a processed recording out of the inbox, suffixing a
// timestamp when the archive already holds a file of that name
func moveToArchived(path, archivedDir string) (string, error) {
	if err := os.MkdirAll(archivedDir, 0755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	name := filepath.Base(path)
	dest := filepath.Join(archivedDir, name)
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(name)
		dest = filepath.Join(archivedDir, fmt.Sprintf("%s_%s%s",
			strings.TrimSuffix(name, ext), time.Now().Format("20060102-150405.000"), ext))
	}

	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("archive recording: %w", err)
	}
	return dest, nil
}
