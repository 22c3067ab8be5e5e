package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "minutes",
	Short: "SmartNotes: turn meeting recordings into transcripts and meeting minutes",
	Long: `SmartNotes turns an mp3, wav or mp4 meeting recording into a full transcript
and a bullet-point meeting-minutes summary.
- serve: web upload UI and JSON API
- watch: process every recording dropped into the inbox folder
- run:   process a single file and print the result`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(runCmd)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file")
}
