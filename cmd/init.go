package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quality-irrigation/mi-console/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize console configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the console and generates a .miconsole.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
