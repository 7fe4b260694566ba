package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quality-irrigation/mi-console/internal/config"
	"github.com/quality-irrigation/mi-console/internal/db"
	"github.com/quality-irrigation/mi-console/internal/deck"
	"github.com/quality-irrigation/mi-console/internal/prefs"
	"github.com/quality-irrigation/mi-console/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the presentation console server",
	Long:  `Starts the console server: deck APIs, the presentation websocket hub, the session state machine and the run log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		library := deck.NewLibrary(cfg.DecksDir)
		if len(cfg.Include) > 0 {
			library.Include = cfg.Include
		}
		library.Exclude = cfg.Exclude
		library.DefaultDeckID = cfg.DefaultDeck

		serverCfg := server.Config{
			Port:        cfg.Port,
			DecksDir:    cfg.DecksDir,
			StaticDir:   cfg.StaticDir,
			AllowAll:    cfg.AllowAll,
			Channel:     cfg.Channel,
			UpstreamURL: cfg.UpstreamURL,
		}
		if cfg.Transport == config.TransportFile {
			serverCfg.RelayPath = cfg.RelayPath
		}
		srv := server.New(serverCfg, database, library, prefs.Open(cfg.PrefsPath))

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "mi-console v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Decks: %s\n", cfg.DecksDir)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", cfg.DBPath)

		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8787, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}
