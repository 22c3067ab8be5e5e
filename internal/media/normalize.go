package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/minutes-flow/internal/failure"
)

// Normalize extracts the audio track as PCM WAV at a fixed sample rate and channel count
func (n *implNormalizer) Normalize(ctx context.Context, inputPath, outputPath string) (string, error) {
	n.logger.Info(ctx, "Extracting audio: %s -> %s", inputPath, outputPath)

	// -vn: drop video, -y: overwrite output
	args := []string{
		"-y",
		"-i", inputPath,
		"-vn",
		"-acodec", n.cfg.AudioCodec,
		"-ar", strconv.Itoa(n.cfg.SampleRate),
		"-ac", strconv.Itoa(n.cfg.Channels),
		outputPath,
	}

	if _, err := n.executor.Execute(ctx, n.cfg.BinaryPath, args...); err != nil {
		os.Remove(outputPath)
		return "", fmt.Errorf("%w: ffmpeg %s: %w", failure.ErrMediaDecode, filepath.Base(inputPath), err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return "", fmt.Errorf("%w: ffmpeg produced no output for %s: %w", failure.ErrMediaDecode, filepath.Base(inputPath), err)
	}
	if info.Size() == 0 {
		os.Remove(outputPath)
		return "", fmt.Errorf("%w: ffmpeg produced an empty file for %s", failure.ErrMediaDecode, filepath.Base(inputPath))
	}

	n.logger.Info(ctx, "Audio extracted successfully: %s (%d bytes)", outputPath, info.Size())
	return outputPath, nil
}

// IsVideo reports whether name carries one of the video container extensions
func IsVideo(name string, videoExts []string) bool {
	return slices.Contains(videoExts, Ext(name))
}

// Ext returns the lower-cased extension of name without the leading dot
func Ext(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}
