package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// handleListDecks returns the deck catalog.
func (s *Server) handleListDecks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	catalog, err := s.library.Scan()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scanning deck library: %v", err)), nil
	}
	if len(catalog.Decks) == 0 {
		return mcp.NewToolResultText("No decks found in the library."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d deck(s):\n", len(catalog.Decks))
	for _, entry := range catalog.Decks {
		marker := ""
		if entry.ID == catalog.DefaultDeckID {
			marker = " (default)"
		}
		fmt.Fprintf(&sb, "\n- %s%s\n  Title: %s\n  File: %s\n", entry.ID, marker, entry.Title, entry.File)
		if entry.Description != "" {
			fmt.Fprintf(&sb, "  Description: %s\n", entry.Description)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetState reports the session state as JSON.
func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := s.sessions.Session(ctx, request.GetString("channel", "main"))

	state, err := json.MarshalIndent(sess.CurrentState(), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding state: %v", err)), nil
	}
	return mcp.NewToolResultText(string(state)), nil
}

// handleGotoSlide jumps to a 1-based slide number.
func (s *Server) handleGotoSlide(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slide := request.GetInt("slide", 0)
	if slide <= 0 {
		return mcp.NewToolResultError("slide must be a positive 1-based number"), nil
	}

	sess := s.sessions.Session(ctx, request.GetString("channel", "main"))
	sess.Jump(slide - 1)

	st := sess.CurrentState()
	return mcp.NewToolResultText(fmt.Sprintf("Now on slide %d of %d.", st.SlideIndex+1, st.SlideCount)), nil
}

// handleNextSlide advances one slide.
func (s *Server) handleNextSlide(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := s.sessions.Session(ctx, request.GetString("channel", "main"))
	sess.Next()

	st := sess.CurrentState()
	return mcp.NewToolResultText(fmt.Sprintf("Now on slide %d of %d.", st.SlideIndex+1, st.SlideCount)), nil
}

// handlePrevSlide moves back one slide.
func (s *Server) handlePrevSlide(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := s.sessions.Session(ctx, request.GetString("channel", "main"))
	sess.Prev()

	st := sess.CurrentState()
	return mcp.NewToolResultText(fmt.Sprintf("Now on slide %d of %d.", st.SlideIndex+1, st.SlideCount)), nil
}
