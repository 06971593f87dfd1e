package review

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var testMCPImpl = &mcp.Implementation{Name: "review-test", Version: "0.1.0"}

func mcpSession(t *testing.T, p *Pipeline) *mcp.ClientSession {
	t.Helper()
	srv := mcp.NewServer(testMCPImpl, nil)
	p.RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func mcpCallTool(t *testing.T, session *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if result.IsError {
		t.Fatalf("CallTool(%s) tool error: %v", name, result.Content)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent", name)
	}
	return tc.Text
}

// --- redline_diff ---

func TestMCP_Diff(t *testing.T) {
	session := mcpSession(t, New(Config{}))

	text := mcpCallTool(t, session, "redline_diff", map[string]any{
		"original": "The cat sat.",
		"revised":  "The black cat sat.",
	})

	var resp struct {
		Markup string `json:"markup"`
		Nodes  []struct {
			Key  string `json:"key"`
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Markup != "The {++black ++}cat sat." {
		t.Errorf("markup = %q", resp.Markup)
	}
	if len(resp.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(resp.Nodes))
	}
	if resp.Nodes[0].Key != "ins-1" || resp.Nodes[0].Type != "ins" {
		t.Errorf("node = %+v", resp.Nodes[0])
	}
}

// --- redline_suggest ---

func TestMCP_Suggest(t *testing.T) {
	p := New(Config{Reviser: stubReviser("The dog sat.")})
	session := mcpSession(t, p)

	text := mcpCallTool(t, session, "redline_suggest", map[string]any{
		"original":    "The cat sat.",
		"instruction": "swap the animal",
	})

	var resp struct {
		Markup string `json:"markup"`
	}
	json.Unmarshal([]byte(text), &resp)
	if resp.Markup != "The {--cat--}{++dog++} sat." {
		t.Errorf("markup = %q", resp.Markup)
	}
}

func TestMCP_Suggest_NoReviser(t *testing.T) {
	session := mcpSession(t, New(Config{}))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "redline_suggest",
		Arguments: map[string]any{"original": "x", "instruction": "y"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error without a reviser")
	}
}

// --- redline_apply ---

func TestMCP_Apply(t *testing.T) {
	session := mcpSession(t, New(Config{}))

	text := mcpCallTool(t, session, "redline_apply", map[string]any{
		"markup":   "The {--cat--}{++dog++} sat.",
		"key":      "ins-2",
		"decision": "accept",
	})

	var resp struct {
		Content string `json:"content"`
	}
	json.Unmarshal([]byte(text), &resp)
	if resp.Content != "The {--cat--}dog sat." {
		t.Errorf("content = %q", resp.Content)
	}
}

func TestMCP_Apply_UnknownKey(t *testing.T) {
	session := mcpSession(t, New(Config{}))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "redline_apply",
		Arguments: map[string]any{
			"markup":   "The {++black ++}cat sat.",
			"key":      "ins-9",
			"decision": "accept",
		},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for unknown key")
	}
}

// --- redline_accept_all / redline_reject_all ---

func TestMCP_ResolveAll(t *testing.T) {
	session := mcpSession(t, New(Config{}))
	markup := "The {--cat--}{++dog++} sat."

	var resp struct {
		Content string `json:"content"`
	}

	text := mcpCallTool(t, session, "redline_accept_all", map[string]any{"markup": markup})
	json.Unmarshal([]byte(text), &resp)
	if resp.Content != "The dog sat." {
		t.Errorf("accept_all = %q", resp.Content)
	}

	text = mcpCallTool(t, session, "redline_reject_all", map[string]any{"markup": markup})
	json.Unmarshal([]byte(text), &resp)
	if resp.Content != "The cat sat." {
		t.Errorf("reject_all = %q", resp.Content)
	}
}
