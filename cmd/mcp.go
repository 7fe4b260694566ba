package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quality-irrigation/mi-console/internal/config"
	"github.com/quality-irrigation/mi-console/internal/deck"
	"github.com/quality-irrigation/mi-console/internal/mcp"
	"github.com/quality-irrigation/mi-console/internal/session"
	"github.com/quality-irrigation/mi-console/internal/transport"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long: `Starts an MCP server over stdio that exposes the deck library and
slide navigation as tools. Stdout carries the protocol, so all
diagnostics go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		library := deck.NewLibrary(cfg.DecksDir)
		if len(cfg.Include) > 0 {
			library.Include = cfg.Include
		}
		library.Exclude = cfg.Exclude
		library.DefaultDeckID = cfg.DefaultDeck

		loader := deck.NewLoader(library, cfg.UpstreamURL)
		sessions := session.NewManager(transport.NewHub(), loader)

		mcp.Version = Version
		return mcp.NewServer(library, sessions).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
