package store

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"redline/kit"
	"redline/page"
)

// RegisterMCP registers the document tools on an MCP server.
func (s *Store) RegisterMCP(srv *mcp.Server, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	s.registerGetTool(srv, logger)
	s.registerPutTool(srv, logger)
	s.registerListTool(srv, logger)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func wrap(logger *slog.Logger, name string, ep kit.Endpoint) kit.Endpoint {
	return kit.Chain(kit.Logging(logger, name))(ep)
}

type docResp struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status"`
}

// --- redline_doc_get ---

type getReq struct {
	ID string `json:"id"`
}

func (s *Store) registerGetTool(srv *mcp.Server, logger *slog.Logger) {
	tool := &mcp.Tool{
		Name:        "redline_doc_get",
		Description: "Fetch one stored document by ID.",
		InputSchema: inputSchema(map[string]any{
			"id": map[string]any{"type": "string", "description": "Document ID"},
		}, []string{"id"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*getReq)
		doc, err := s.Get(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		return docResp(doc), nil
	}

	decode := func(req *mcp.CallToolRequest) (any, error) {
		var r getReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}

	kit.RegisterMCPTool(srv, tool, wrap(logger, tool.Name, endpoint), decode)
}

// --- redline_doc_put ---

type putReq struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status"`
}

func (s *Store) registerPutTool(srv *mcp.Server, logger *slog.Logger) {
	tool := &mcp.Tool{
		Name:        "redline_doc_put",
		Description: "Insert or update a document. Omit the ID to create a new one.",
		InputSchema: inputSchema(map[string]any{
			"id":      map[string]any{"type": "string", "description": "Document ID; empty to create"},
			"title":   map[string]any{"type": "string"},
			"content": map[string]any{"type": "string", "description": "Markdown content"},
			"status":  map[string]any{"type": "string", "enum": []string{"draft", "published"}},
		}, []string{"content"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*putReq)
		doc, err := s.Put(ctx, page.Document{
			ID:      r.ID,
			Title:   r.Title,
			Content: r.Content,
			Status:  r.Status,
		})
		if err != nil {
			return nil, err
		}
		return docResp(doc), nil
	}

	decode := func(req *mcp.CallToolRequest) (any, error) {
		var r putReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}

	kit.RegisterMCPTool(srv, tool, wrap(logger, tool.Name, endpoint), decode)
}

// --- redline_doc_list ---

type listReq struct {
	Status string `json:"status"`
	Limit  int    `json:"limit"`
}

func (s *Store) registerListTool(srv *mcp.Server, logger *slog.Logger) {
	tool := &mcp.Tool{
		Name:        "redline_doc_list",
		Description: "List stored documents newest-first, optionally filtered by status.",
		InputSchema: inputSchema(map[string]any{
			"status": map[string]any{"type": "string", "enum": []string{"draft", "published"}},
			"limit":  map[string]any{"type": "integer", "description": "Max entries; default 100"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*listReq)
		entries, err := s.List(ctx, r.Status, r.Limit)
		if err != nil {
			return nil, err
		}
		return map[string]any{"documents": entries}, nil
	}

	decode := func(req *mcp.CallToolRequest) (any, error) {
		var r listReq
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
				return nil, err
			}
		}
		return &r, nil
	}

	kit.RegisterMCPTool(srv, tool, wrap(logger, tool.Name, endpoint), decode)
}
