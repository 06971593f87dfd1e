package review

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"redline/critic"
	"redline/kit"
)

// RegisterMCP registers the review tools on an MCP server.
func (p *Pipeline) RegisterMCP(srv *mcp.Server) {
	p.registerDiffTool(srv)
	p.registerSuggestTool(srv)
	p.registerApplyTool(srv)
	p.registerResolveAllTool(srv, "redline_accept_all", critic.Accept,
		"Accept every diff node: returns the revised document.")
	p.registerResolveAllTool(srv, "redline_reject_all", critic.Reject,
		"Reject every diff node: returns the original document.")
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func (p *Pipeline) wrap(name string, ep kit.Endpoint) kit.Endpoint {
	return kit.Chain(kit.Logging(p.logger, name))(ep)
}

// nodeInfo is the wire shape of one diff node.
type nodeInfo struct {
	Key  string `json:"key"`
	Type string `json:"type"`
	Text string `json:"text"`
}

func nodes(reg *critic.Registry) []nodeInfo {
	out := make([]nodeInfo, 0, reg.Len())
	for _, s := range reg.Spans() {
		out = append(out, nodeInfo{Key: s.Key, Type: string(s.Type), Text: s.PlainText()})
	}
	return out
}

// --- redline_diff ---

type diffReq struct {
	Original string `json:"original"`
	Revised  string `json:"revised"`
}

type diffResp struct {
	Markup string     `json:"markup"`
	Nodes  []nodeInfo `json:"nodes"`
}

func (p *Pipeline) registerDiffTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "redline_diff",
		Description: "Diff two markdown documents into annotated review markup with addressable diff nodes.",
		InputSchema: inputSchema(map[string]any{
			"original": map[string]any{"type": "string", "description": "Original markdown"},
			"revised":  map[string]any{"type": "string", "description": "Revised markdown"},
		}, []string{"original", "revised"}),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*diffReq)
		sug := p.Compare(r.Original, r.Revised)
		return diffResp{Markup: sug.Markup, Nodes: nodes(sug.Registry)}, nil
	}

	decode := func(req *mcp.CallToolRequest) (any, error) {
		var r diffReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}

	kit.RegisterMCPTool(srv, tool, p.wrap(tool.Name, endpoint), decode)
}

// --- redline_suggest ---

type suggestReq struct {
	Original    string `json:"original"`
	Instruction string `json:"instruction"`
}

func (p *Pipeline) registerSuggestTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "redline_suggest",
		Description: "Ask the configured reviser for an edit and return the annotated review markup.",
		InputSchema: inputSchema(map[string]any{
			"original":    map[string]any{"type": "string", "description": "Current markdown"},
			"instruction": map[string]any{"type": "string", "description": "Editing instruction for the reviser"},
		}, []string{"original", "instruction"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*suggestReq)
		sug, err := p.Suggest(ctx, r.Original, r.Instruction)
		if err != nil {
			return nil, err
		}
		return diffResp{Markup: sug.Markup, Nodes: nodes(sug.Registry)}, nil
	}

	decode := func(req *mcp.CallToolRequest) (any, error) {
		var r suggestReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}

	kit.RegisterMCPTool(srv, tool, p.wrap(tool.Name, endpoint), decode)
}

// --- redline_apply ---

type applyReq struct {
	Markup   string `json:"markup"`
	Key      string `json:"key"`
	Decision string `json:"decision"`
}

type contentResp struct {
	Content string `json:"content"`
}

func (p *Pipeline) registerApplyTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "redline_apply",
		Description: "Accept or reject one diff node by key and return the rewritten markup.",
		InputSchema: inputSchema(map[string]any{
			"markup":   map[string]any{"type": "string", "description": "Annotated review markup"},
			"key":      map[string]any{"type": "string", "description": "Diff node key (e.g. ins-1)"},
			"decision": map[string]any{"type": "string", "enum": []string{"accept", "reject"}},
		}, []string{"markup", "key", "decision"}),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*applyReq)
		content, err := p.Resolve(r.Markup, r.Key, critic.Decision(r.Decision))
		if err != nil {
			return nil, err
		}
		return contentResp{Content: content}, nil
	}

	decode := func(req *mcp.CallToolRequest) (any, error) {
		var r applyReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}

	kit.RegisterMCPTool(srv, tool, p.wrap(tool.Name, endpoint), decode)
}

// --- redline_accept_all / redline_reject_all ---

type markupReq struct {
	Markup string `json:"markup"`
}

func (p *Pipeline) registerResolveAllTool(srv *mcp.Server, name string, d critic.Decision, desc string) {
	tool := &mcp.Tool{
		Name:        name,
		Description: desc,
		InputSchema: inputSchema(map[string]any{
			"markup": map[string]any{"type": "string", "description": "Annotated review markup"},
		}, []string{"markup"}),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*markupReq)
		return contentResp{Content: critic.ResolveAll(r.Markup, d)}, nil
	}

	decode := func(req *mcp.CallToolRequest) (any, error) {
		var r markupReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}

	kit.RegisterMCPTool(srv, tool, p.wrap(tool.Name, endpoint), decode)
}
