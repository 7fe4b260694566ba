package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listDecksTool defines the list_decks MCP tool.
var listDecksTool = mcp.NewTool("list_decks",
	mcp.WithDescription("List the slide decks available in the console's deck library."),
)

// getStateTool defines the get_presentation_state MCP tool.
var getStateTool = mcp.NewTool("get_presentation_state",
	mcp.WithDescription("Get the current presentation state: deck, slide index and count, scope, timer and pace."),
	mcp.WithString("channel",
		mcp.Description("Presentation channel (default \"main\")"),
	),
)

// gotoSlideTool defines the goto_slide MCP tool.
var gotoSlideTool = mcp.NewTool("goto_slide",
	mcp.WithDescription("Jump the presentation to a slide. The index is 1-based and clamped to the deck."),
	mcp.WithNumber("slide",
		mcp.Required(),
		mcp.Description("1-based slide number"),
	),
	mcp.WithString("channel",
		mcp.Description("Presentation channel (default \"main\")"),
	),
)

// nextSlideTool defines the next_slide MCP tool.
var nextSlideTool = mcp.NewTool("next_slide",
	mcp.WithDescription("Advance the presentation to the next slide, wrapping at the end of the deck."),
	mcp.WithString("channel",
		mcp.Description("Presentation channel (default \"main\")"),
	),
)

// prevSlideTool defines the prev_slide MCP tool.
var prevSlideTool = mcp.NewTool("prev_slide",
	mcp.WithDescription("Move the presentation to the previous slide, wrapping at the start of the deck."),
	mcp.WithString("channel",
		mcp.Description("Presentation channel (default \"main\")"),
	),
)
