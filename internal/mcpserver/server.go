// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the caption template functions as tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/figcaption/internal/caption"
)

// ResourceURI is the address of the template functions resource.
const ResourceURI = "figcaption://template-functions"

// Server wraps the MCP server with the caption tools.
type Server struct {
	mcp *server.MCPServer
	acc *caption.Accessor
}

// captionResult is the tool payload. Caption is the text or markup, or
// false when the post has no caption.
type captionResult struct {
	PostID  int64  `json:"post_id"`
	Mode    string `json:"mode"`
	Caption any    `json:"caption"`
}

// New creates a new MCP server with the caption tools registered.
func New(acc *caption.Accessor, version string) *Server {
	s := &Server{acc: acc}

	s.mcp = server.NewMCPServer(
		"Featured Image Caption",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_featured_image_caption",
		mcp.WithDescription("Return the featured image caption of a post. "+
			"In display mode the caption is wrapped in its styling span; in raw mode "+
			"the bare text is returned. The caption is false when none is set."),
		mcp.WithNumber("post_id", mcp.Required(), mcp.Description("Id of the post or page")),
		mcp.WithString("mode", mcp.Enum("display", "raw"), mcp.Description("Render mode, display by default")),
	), s.getCaption)

	s.mcp.AddTool(mcp.NewTool("has_featured_image_caption",
		mcp.WithDescription("Report whether a post has a non-empty featured image caption."),
		mcp.WithNumber("post_id", mcp.Required(), mcp.Description("Id of the post or page")),
	), s.hasCaption)

	s.mcp.AddResource(
		mcp.NewResource(ResourceURI, "Caption Template Functions",
			mcp.WithResourceDescription("How templates print featured image captions."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFunctionsResource,
	)

	return s
}

// Serve runs the stdio transport over in and out until in is exhausted or
// ctx is done.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func requirePostID(req mcp.CallToolRequest) (int64, error) {
	id, err := req.RequireFloat("post_id")
	if err != nil {
		return 0, err
	}
	if id <= 0 || id != float64(int64(id)) {
		return 0, fmt.Errorf("post_id must be a positive integer")
	}
	return int64(id), nil
}

func (s *Server) getCaption(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requirePostID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode := caption.ParseMode(req.GetString("mode", ""))

	out, present, err := s.acc.Render(ctx, id, mode)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := captionResult{PostID: id, Mode: mode.String(), Caption: false}
	if present {
		res.Caption = out
	}
	data, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) hasCaption(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requirePostID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ok, err := s.acc.HasCaption(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%t", ok)), nil
}

func (s *Server) readFunctionsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ResourceURI,
			MIMEType: "text/markdown",
			Text:     TemplateFunctions,
		},
	}, nil
}
