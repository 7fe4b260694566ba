package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "mi-console",
	Short: "Presentation console for the Master Irrigator monitoring demo",
	Long: `mi-console hosts slide decks and drives synchronized presentation
sessions: one controller window navigates, presenter and projector
views follow over a shared channel. It serves the deck APIs, renders
sanitized slide HTML, keeps the live timer and pace guidance, and
logs presenter actions per run.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".miconsole.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
