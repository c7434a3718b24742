// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Kanboard tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/kanboard/internal/apperr"
	"github.com/starford/kanboard/internal/boardservice"
)

const boardRulesURI = "kanboard://board-rules"

// move_card result prefixes.
const (
	movedPrefix   = "moved:"
	ignoredPrefix = "ignored:"
)

// Server wraps the MCP server with Kanboard tools.
type Server struct {
	mcp *server.MCPServer
	svc *boardservice.Service
}

// New creates a new MCP server with all Kanboard tools registered.
func New(svc *boardservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Kanboard",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_board",
		mcp.WithDescription("Return the whole board: the three columns with their cards in order, the add-card draft and the current notice."),
	), s.getBoard)

	s.mcp.AddTool(mcp.NewTool("list_cards",
		mcp.WithDescription("List the cards of one column, front first."),
		mcp.WithString("column", mcp.Required(), mcp.Description("Column id"), mcp.Enum("todo", "inprogress", "done")),
	), s.listCards)

	s.mcp.AddTool(mcp.NewTool("add_card",
		mcp.WithDescription("Add a card to the front of the todo column. "+
			"An empty title adds nothing; the result then carries the validation notice. "+
			"See get_board_rules or the kanboard://board-rules resource."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Card title")),
		mcp.WithString("description", mcp.Description("Optional description; defaults to \"No description\"")),
	), s.addCard)

	s.mcp.AddTool(mcp.NewTool("move_card",
		mcp.WithDescription("Move a card from the column it is in to the front of another column. "+
			"Same-column moves, unknown columns and stale source columns are ignored."),
		mcp.WithString("card_id", mcp.Required(), mcp.Description("Id of the card to move")),
		mcp.WithString("from", mcp.Required(), mcp.Description("Column the card is currently in"), mcp.Enum("todo", "inprogress", "done")),
		mcp.WithString("to", mcp.Required(), mcp.Description("Destination column"), mcp.Enum("todo", "inprogress", "done")),
	), s.moveCard)

	s.mcp.AddTool(mcp.NewTool("search_cards",
		mcp.WithDescription("Full-text search through card titles and descriptions."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchCards)

	s.mcp.AddTool(mcp.NewTool("get_board_rules",
		mcp.WithDescription("Returns the rules for adding and moving cards. "+
			"Call this before changing the board to predict the outcome."),
	), s.getBoardRules)

	// Resource: board rules.
	s.mcp.AddResource(
		mcp.NewResource(boardRulesURI, "Board Rules",
			mcp.WithResourceDescription("How cards are added, ordered and moved between columns."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readBoardRulesResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getBoard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Board(ctx))
}

func (s *Server) listCards(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	column, err := req.RequireString("column")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cards, err := s.svc.CardsIn(ctx, column)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidColumn) {
			return mcp.NewToolResultError(fmt.Sprintf("unknown column: %s", column)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(cards)
}

func (s *Server) addCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	description := req.GetString("description", "")

	res := s.svc.AddCard(ctx, title, description)
	if res.Card == nil {
		return mcp.NewToolResultError(res.Notice.Message), nil
	}
	return jsonResult(res)
}

func (s *Server) moveCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	from, err := req.RequireString("from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := req.RequireString("to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !s.svc.MoveCard(ctx, id, from, to) {
		return mcp.NewToolResultText(fmt.Sprintf("%s %s is not in %s or %s is not a valid destination", ignoredPrefix, id, from, to)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s %s %s -> %s", movedPrefix, id, from, to)), nil
}

func (s *Server) searchCards(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results)
}

func (s *Server) getBoardRules(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(BoardRulesContract), nil
}

func (s *Server) readBoardRulesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      boardRulesURI,
			MIMEType: "text/markdown",
			Text:     BoardRulesContract,
		},
	}, nil
}
