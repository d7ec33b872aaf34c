package mcp

import (
	"context"
	"encoding/json"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoefinder/backend/internal/domain"
)

// mockSearcher records the last request and returns a canned response
type mockSearcher struct {
	last     *domain.SearchRequest
	response *domain.SearchResponse
}

func (m *mockSearcher) Search(ctx context.Context, request *domain.SearchRequest) *domain.SearchResponse {
	m.last = request
	if m.response != nil {
		return m.response
	}
	return &domain.SearchResponse{
		Query:  request.Query,
		Size:   request.Size,
		Gender: request.Gender,
		Shoes: []domain.ShoeResult{
			{Name: "Men's Wool Runner", Price: "$98", Handle: "mens-wool-runner"},
		},
		TotalFound: 1,
	}
}

func callTool(t *testing.T, s *Server, args map[string]any) *mcplib.CallToolResult {
	t.Helper()
	req := mcplib.CallToolRequest{}
	req.Params.Name = ToolName
	req.Params.Arguments = args

	result, err := s.handleSearch(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	return result
}

func resultText(t *testing.T, result *mcplib.CallToolResult) string {
	t.Helper()
	text, ok := result.Content[0].(mcplib.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func TestNewServer(t *testing.T) {
	s := NewServer("shoe-finder", "1.0.0", &mockSearcher{})

	assert.NotNil(t, s.mcp)
	assert.NotNil(t, s.HTTPHandler())
}

func TestHandleSearch(t *testing.T) {
	t.Run("passes arguments through and returns the JSON response", func(t *testing.T) {
		searcher := &mockSearcher{}
		s := NewServer("shoe-finder", "1.0.0", searcher)

		result := callTool(t, s, map[string]any{"query": "wool runner", "size": "42", "gender": "men"})

		assert.False(t, result.IsError)
		assert.Equal(t, &domain.SearchRequest{Query: "wool runner", Size: "42", Gender: "men"}, searcher.last)

		var resp domain.SearchResponse
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
		assert.Equal(t, 1, resp.TotalFound)
		require.Len(t, resp.Shoes, 1)
		assert.Equal(t, "mens-wool-runner", resp.Shoes[0].Handle)
		assert.Nil(t, resp.Error)
	})

	t.Run("numeric size is coerced to a string", func(t *testing.T) {
		searcher := &mockSearcher{}
		s := NewServer("shoe-finder", "1.0.0", searcher)

		callTool(t, s, map[string]any{"query": "runner", "size": 9.5})

		assert.Equal(t, "9.5", searcher.last.Size)
	})

	t.Run("missing optional arguments are blank", func(t *testing.T) {
		searcher := &mockSearcher{}
		s := NewServer("shoe-finder", "1.0.0", searcher)

		callTool(t, s, map[string]any{"query": "runner"})

		assert.Equal(t, "", searcher.last.Size)
		assert.Equal(t, "", searcher.last.Gender)
	})

	t.Run("invalid gender is a tool error and skips the search", func(t *testing.T) {
		searcher := &mockSearcher{}
		s := NewServer("shoe-finder", "1.0.0", searcher)

		result := callTool(t, s, map[string]any{"query": "runner", "gender": "kids"})

		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "kids")
		assert.Nil(t, searcher.last)
	})

	t.Run("object size is a tool error", func(t *testing.T) {
		s := NewServer("shoe-finder", "1.0.0", &mockSearcher{})

		result := callTool(t, s, map[string]any{"query": "runner", "size": map[string]any{"eu": 42}})

		assert.True(t, result.IsError)
	})

	t.Run("failed search is returned as data", func(t *testing.T) {
		msg := "catalog fetch failed: status 503"
		searcher := &mockSearcher{response: &domain.SearchResponse{
			Query: "runner",
			Shoes: []domain.ShoeResult{},
			Error: &msg,
		}}
		s := NewServer("shoe-finder", "1.0.0", searcher)

		result := callTool(t, s, map[string]any{"query": "runner"})

		var resp domain.SearchResponse
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, msg, *resp.Error)
		assert.Empty(t, resp.Shoes)
		assert.Equal(t, 0, resp.TotalFound)
	})
}
