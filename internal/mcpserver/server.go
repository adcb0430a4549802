// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the rendered note list for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/notelist/internal/apperr"
	"github.com/starford/notelist/internal/events"
	"github.com/starford/notelist/internal/noteservice"
	"github.com/starford/notelist/internal/renderer"
)

const (
	itemCSSURI        = "notelist://item-css"
	templateFieldsURI = "notelist://template-fields"
)

// Server wraps the MCP server with note list tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all note list tools registered.
func New(svc *noteservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Notelist",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("render_note",
		mcp.WithDescription("Render a single note as a list item, either as a JSON view model or as HTML."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithString("format", mcp.Enum("json", "html"), mcp.Description("Output format (default json)")),
	), s.renderNote)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List rendered note items, most recently updated first."),
		mcp.WithNumber("limit", mcp.Description("Page size (default 50)")),
		mcp.WithNumber("offset", mcp.Description("Page offset")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("toggle_todo",
		mcp.WithDescription("Mark a to-do note as completed or open again, like ticking its checkbox."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithBoolean("completed", mcp.Required(), mcp.Description("true to complete, false to reopen")),
	), s.toggleTodo)

	s.mcp.AddResource(
		mcp.NewResource(itemCSSURI, "Item Stylesheet",
			mcp.WithResourceDescription("CSS for rendered note list items under the current settings."),
			mcp.WithMIMEType("text/css"),
		),
		s.readItemCSS,
	)

	s.mcp.AddResource(
		mcp.NewResource(templateFieldsURI, "Template Fields",
			mcp.WithResourceDescription("Placeholders accepted by the line templates of the render settings."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readTemplateFields,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func toolError(err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError("note not found")
	}
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("mcpserver: encode result: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) renderNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if req.GetString("format", "json") == "html" {
		html, err := s.svc.RenderHTML(ctx, id)
		if err != nil {
			return toolError(err), nil
		}
		return mcp.NewToolResultText(html), nil
	}

	vm, err := s.svc.Render(ctx, id)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(vm)
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.svc.List(ctx, req.GetInt("limit", noteservice.DefaultLimit), req.GetInt("offset", 0))
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(res)
}

func (s *Server) toggleTodo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	completed, err := req.RequireBool("completed")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	vm, err := s.svc.HandleEvent(ctx, id, events.Event{ElementID: renderer.CheckboxID, Value: completed})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(vm)
}

func (s *Server) readItemCSS(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      itemCSSURI,
			MIMEType: "text/css",
			Text:     s.svc.CSS(),
		},
	}, nil
}

func (s *Server) readTemplateFields(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      templateFieldsURI,
			MIMEType: "text/markdown",
			Text:     TemplateFieldsGuide,
		},
	}, nil
}
