// Package mcp exposes the shoe search as a Model Context Protocol tool.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"

	"github.com/shoefinder/backend/internal/domain"
	"github.com/shoefinder/backend/internal/usecase"
)

// ToolName is the name under which the search is published
const ToolName = "search_shoes"

// ShoeSearcher runs shoe searches
type ShoeSearcher interface {
	Search(ctx context.Context, request *domain.SearchRequest) *domain.SearchResponse
}

// Server wraps an MCP server carrying the shoe search tool
type Server struct {
	search ShoeSearcher
	mcp    *server.MCPServer
}

// NewServer creates an MCP server named name with the search tool registered
func NewServer(name, version string, search ShoeSearcher) *Server {
	s := &Server{
		search: search,
		mcp:    server.NewMCPServer(name, version, server.WithToolCapabilities(false)),
	}

	tool := mcplib.NewTool(ToolName,
		mcplib.WithDescription("Search the shoe catalog by free-text query with optional size and gender. "+
			"Returns up to five products with name, price, thumbnail and product link."),
		mcplib.WithString("query",
			mcplib.Required(),
			mcplib.Description("Free-text search, e.g. \"wool runner 42\". A size inside the text is detected (US 4-15 or EU 35-50)."),
		),
		mcplib.WithString("size",
			mcplib.Description("Explicit shoe size (US or EU); overrides any size in the query"),
		),
		mcplib.WithString("gender",
			mcplib.Description("Restrict to men's or women's products"),
			mcplib.Enum(domain.GenderMen, domain.GenderWomen),
		),
	)
	s.mcp.AddTool(tool, s.handleSearch)

	return s
}

// HTTPHandler returns the streamable HTTP transport for mounting under /mcp
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp)
}

// ServeStdio serves the tool over stdin/stdout until the input is closed
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) handleSearch(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	args := req.GetArguments()

	size, err := cast.ToStringE(args["size"])
	if err != nil {
		return mcplib.NewToolResultError("size must be a string or a number"), nil
	}
	gender := cast.ToString(args["gender"])
	if strings.TrimSpace(gender) != "" && usecase.NormalizeGender(gender) == "" {
		return mcplib.NewToolResultError(fmt.Sprintf("gender must be %q or %q, got %q",
			domain.GenderMen, domain.GenderWomen, gender)), nil
	}

	request := &domain.SearchRequest{
		Query:  cast.ToString(args["query"]),
		Size:   size,
		Gender: gender,
	}

	resp := s.search.Search(ctx, request)
	if resp.Failed() {
		log.Printf("[MCP] Search for %q returned error: %s", request.Query, *resp.Error)
	}

	body, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encoding search response: %w", err)
	}

	return mcplib.NewToolResultText(string(body)), nil
}
