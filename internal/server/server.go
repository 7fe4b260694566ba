package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/quality-irrigation/mi-console/internal/db"
	"github.com/quality-irrigation/mi-console/internal/deck"
	"github.com/quality-irrigation/mi-console/internal/prefs"
	"github.com/quality-irrigation/mi-console/internal/render"
	"github.com/quality-irrigation/mi-console/internal/runlog"
	"github.com/quality-irrigation/mi-console/internal/session"
	"github.com/quality-irrigation/mi-console/internal/transport"
)

// Config holds server configuration.
type Config struct {
	Port      int
	DecksDir  string // directory holding deck JSON files
	StaticDir string // optional directory of console view assets
	AllowAll  bool   // allow all CORS origins (dev mode)
	Channel   string // presentation channel the live ticker drives
	RelayPath string // when set, bridge the channel onto this relay file

	// UpstreamURL of a remote slides API; empty serves the local library.
	UpstreamURL string
}

// Server hosts the presentation console: deck APIs, the session state
// machine, the websocket hub and the run log.
type Server struct {
	cfg        Config
	db         *db.DB
	library    *deck.Library
	loader     *deck.Loader
	hub        *transport.Hub
	manager    *session.Manager
	store      *runlog.Store
	recorder   *runlog.Recorder
	prefs      *prefs.Store
	router     chi.Router
	httpServer *http.Server

	relay      *transport.FileRelay
	stopBridge func()
}

// New creates a console server with all dependencies wired.
func New(cfg Config, database *db.DB, library *deck.Library, preferences *prefs.Store) *Server {
	s := &Server{
		cfg:     cfg,
		db:      database,
		library: library,
		prefs:   preferences,
	}

	s.store = runlog.NewStore(database)
	s.loader = deck.NewLoader(library, cfg.UpstreamURL)
	s.loader.Charts = s.store
	s.hub = transport.NewHub()
	s.manager = session.NewManager(s.hub, s.loader)
	s.recorder = runlog.NewRecorder(s.store)
	s.manager.AddObserver(s.recorder.Observe)

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	deck.RegisterRoutes(r, s.library, s.store)
	session.RegisterRoutes(r, s.manager)
	render.RegisterRoutes(r, s.manager, s.prefs)
	runlog.RegisterRoutes(r, s.store, s.recorder)
	prefs.RegisterRoutes(r, s.prefs)

	// Static console assets, when configured. API routes win.
	if s.cfg.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.cfg.StaticDir))
		r.Handle("/*", fs)
	}

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Database returns the database connection.
func (s *Server) Database() *db.DB { return s.db }

// Sessions returns the session manager.
func (s *Server) Sessions() *session.Manager { return s.manager }

// RunLog returns the run-log store.
func (s *Server) RunLog() *runlog.Store { return s.store }

// Recorder returns the navigation-event recorder.
func (s *Server) Recorder() *runlog.Recorder { return s.recorder }

// ServerConfig returns the server configuration.
func (s *Server) ServerConfig() Config { return s.cfg }

// Start begins listening on the configured port. The context bounds the
// live ticker driving controller live_state broadcasts.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	channel := s.cfg.Channel
	if channel == "" {
		channel = "main"
	}
	go s.manager.Session(ctx, channel).RunLiveTicker(ctx)

	// File-transport mode mirrors the channel onto a relay file so views
	// in other processes stay in sync without a websocket.
	if s.cfg.RelayPath != "" {
		relay, err := transport.NewFileRelay(s.cfg.RelayPath)
		if err != nil {
			log.Printf("server: relay %s unavailable, hub only: %v", s.cfg.RelayPath, err)
		} else {
			s.relay = relay
			s.stopBridge = transport.Bridge(s.hub.Transport(channel), relay)
		}
	}

	log.Printf("mi-console server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server and flushes pending run-log
// writes.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.stopBridge != nil {
		s.stopBridge()
	}
	if s.relay != nil {
		s.relay.Close()
	}
	s.recorder.Wait()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
