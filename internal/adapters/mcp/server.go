package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/docuquery/docuquery/internal/core/domain"
	"github.com/docuquery/docuquery/internal/core/ports"
)

// Server exposes the question answering and extraction services as MCP
// tools over stdio, so agent frontends can query ingested documents.
type Server struct {
	mcpServer *server.MCPServer
	query     ports.QueryService
	extractor ports.RecordExtractor
}

func NewServer(version string, query ports.QueryService, extractor ports.RecordExtractor) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer("docuquery", version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		query:     query,
		extractor: extractor,
	}

	s.mcpServer.AddTool(mcp.NewTool("docuquery_ask",
		mcp.WithDescription("Answer a question about a previously ingested document, grounded in its content."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Document key returned at ingestion time.")),
		mcp.WithString("question", mcp.Required(), mcp.Description("Question about the document.")),
	), s.handleAsk)

	s.mcpServer.AddTool(mcp.NewTool("docuquery_extract",
		mcp.WithDescription("Extract a structured invoice record (invoice_id, vendor_name, invoice_date, total_amount) from an ingested document."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Document key returned at ingestion time.")),
		mcp.WithString("instruction", mcp.Required(), mcp.Description("What to extract, in natural language.")),
	), s.handleExtract)

	return s
}

// ServeStdio blocks serving the MCP protocol on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) handleAsk(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, question, err := twoStringArgs(req, "key", "question")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	answer, err := s.query.Ask(ctx, key, question, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload, err := json.Marshal(struct {
		Answer  string         `json:"answer"`
		Sources []domain.Chunk `json:"sources"`
	}{Answer: answer.Text, Sources: answer.Sources})
	if err != nil {
		return nil, fmt.Errorf("marshal answer: %w", err)
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) handleExtract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, instruction, err := twoStringArgs(req, "key", "instruction")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	record, err := s.extractor.Extract(ctx, key, instruction)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func twoStringArgs(req mcp.CallToolRequest, first, second string) (string, string, error) {
	args := req.GetArguments()
	a, ok := args[first].(string)
	if !ok || a == "" {
		return "", "", fmt.Errorf("argument %q is required", first)
	}
	b, ok := args[second].(string)
	if !ok || b == "" {
		return "", "", fmt.Errorf("argument %q is required", second)
	}
	return a, b, nil
}
