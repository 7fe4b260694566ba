// Package mcp exposes the presentation console to MCP clients: deck
// listing, session state, and navigation tools.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/quality-irrigation/mi-console/internal/deck"
	"github.com/quality-irrigation/mi-console/internal/session"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that drives the presentation session.
type Server struct {
	library  *deck.Library
	sessions *session.Manager
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(library *deck.Library, sessions *session.Manager) *Server {
	s := &Server{
		library:  library,
		sessions: sessions,
	}

	s.mcp = server.NewMCPServer(
		"mi-console",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listDecksTool, s.handleListDecks)
	s.mcp.AddTool(getStateTool, s.handleGetState)
	s.mcp.AddTool(gotoSlideTool, s.handleGotoSlide)
	s.mcp.AddTool(nextSlideTool, s.handleNextSlide)
	s.mcp.AddTool(prevSlideTool, s.handlePrevSlide)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
