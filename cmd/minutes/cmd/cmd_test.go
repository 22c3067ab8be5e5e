package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/session"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing default file falls back to defaults", func(t *testing.T) {
		cfgFile = filepath.Join(dir, "config.yaml")
		cmd := &cobra.Command{}
		cmd.Flags().String("config", cfgFile, "")

		cfg, err := loadConfig(cmd)
		require.NoError(t, err)
		assert.Equal(t, 30, cfg.Transcribe.ChunkLengthSec)
		assert.Equal(t, config.ProviderGemini, cfg.Summary.Provider)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		cmd := &cobra.Command{}
		cmd.Flags().String("config", "", "")
		cfgFile = filepath.Join(dir, "custom.yaml")
		require.NoError(t, cmd.Flags().Set("config", cfgFile))

		_, err := loadConfig(cmd)
		assert.Error(t, err)
	})

	t.Run("file values are used", func(t *testing.T) {
		cfgFile = filepath.Join(dir, "minutes.yaml")
		require.NoError(t, os.WriteFile(cfgFile, []byte("transcribe:\n  chunk_length_sec: 20\n"), 0644))
		cmd := &cobra.Command{}
		cmd.Flags().String("config", cfgFile, "")

		cfg, err := loadConfig(cmd)
		require.NoError(t, err)
		assert.Equal(t, 20, cfg.Transcribe.ChunkLengthSec)
	})
}

func TestEnsureDirectories(t *testing.T) {
	root := t.TempDir()
	cfg := &config.Config{}
	cfg.Paths.Input = filepath.Join(root, "in")
	cfg.Paths.Output = filepath.Join(root, "out")
	cfg.Paths.Archived = filepath.Join(root, "archived")
	cfg.Paths.Temp = filepath.Join(root, "tmp")

	require.NoError(t, ensureDirectories(cfg))
	for _, dir := range []string{"in", "out", "archived", "tmp"} {
		info, err := os.Stat(filepath.Join(root, dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestPrintResult(t *testing.T) {
	res := &session.Result{
		Transcript: "we approved the budget",
		Bullets:    []string{"Decision: budget approved", "Next steps: publish"},
	}

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	printResult(cmd, res, false)
	assert.Contains(t, out.String(), "we approved the budget")
	assert.Contains(t, out.String(), "- Decision: budget approved\n- Next steps: publish\n")

	out.Reset()
	printResult(cmd, res, true)
	assert.Contains(t, out.String(), "we approved the budget")
	assert.Contains(t, out.String(), "(summary generation failed)")
	assert.NotContains(t, out.String(), "- Decision")
}
