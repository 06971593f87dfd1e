// Command redline reviews AI-suggested edits to markdown documents.
//
// Usage:
//
//	redline diff <original.md> <revised.md>    # annotated review markup
//	redline nodes <markup.md>                  # list addressable diff nodes
//	redline apply <markup.md> <key> <accept|reject>
//	redline accept-all <markup.md>
//	redline reject-all <markup.md>
//	redline import-html <page.html>            # convert HTML to markdown
//	redline serve-mcp [-config redline.yaml]   # MCP server over stdio
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"redline/critic"
	"redline/ingest"
	"redline/review"
	"redline/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "diff":
		cmdDiff(os.Args[2:])
	case "nodes":
		cmdNodes(os.Args[2:])
	case "apply":
		cmdApply(os.Args[2:])
	case "accept-all":
		cmdResolveAll(os.Args[2:], critic.Accept)
	case "reject-all":
		cmdResolveAll(os.Args[2:], critic.Reject)
	case "import-html":
		cmdImportHTML(os.Args[2:])
	case "serve-mcp":
		cmdServeMCP(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `redline — review AI-suggested edits to markdown documents

usage:
  redline diff <original.md> <revised.md>
  redline nodes <markup.md>
  redline apply <markup.md> <key> <accept|reject>
  redline accept-all <markup.md>
  redline reject-all <markup.md>
  redline import-html <page.html>
  redline serve-mcp [-config redline.yaml]

diff         Diffs two documents into annotated review markup.
nodes        Lists the addressable diff nodes of a markup document.
apply        Accepts or rejects one diff node by key.
accept-all   Resolves every node in favor of the revision.
reject-all   Resolves every node in favor of the original.
import-html  Converts an HTML page to review-ready markdown.
serve-mcp    Serves the review and document tools over MCP stdio.
`)
}

func readFileArg(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
		os.Exit(1)
	}
	return string(data)
}

func cmdDiff(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "diff requires an original and a revised file")
		os.Exit(1)
	}
	sug := review.New(review.Config{}).Compare(readFileArg(args[0]), readFileArg(args[1]))
	fmt.Println(sug.Markup)
}

func cmdNodes(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "nodes requires a markup file")
		os.Exit(1)
	}
	reg := critic.Scan(readFileArg(args[0]))
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	type node struct {
		Key  string `json:"key"`
		Type string `json:"type"`
		Text string `json:"text"`
	}
	out := make([]node, 0, reg.Len())
	for _, s := range reg.Spans() {
		out = append(out, node{Key: s.Key, Type: string(s.Type), Text: s.PlainText()})
	}
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
}

func cmdApply(args []string) {
	if len(args) < 3 {
		fmt.Fprintln(os.Stderr, "apply requires a markup file, a node key and a decision")
		os.Exit(1)
	}
	decision := critic.Decision(args[2])
	if decision != critic.Accept && decision != critic.Reject {
		fmt.Fprintf(os.Stderr, "decision must be accept or reject, got %q\n", args[2])
		os.Exit(1)
	}
	out, err := critic.Apply(readFileArg(args[0]), args[1], decision)
	if err != nil {
		fmt.Fprintf(os.Stderr, "apply failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(out)
}

func cmdResolveAll(args []string, d critic.Decision) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "a markup file is required")
		os.Exit(1)
	}
	fmt.Println(critic.ResolveAll(readFileArg(args[0]), d))
}

func cmdImportHTML(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "import-html requires an html file")
		os.Exit(1)
	}
	res, err := ingest.New(ingest.Config{}).ToMarkdown(readFileArg(args[0]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
	if res.Title != "" {
		fmt.Fprintf(os.Stderr, "title: %s\n", res.Title)
	}
	fmt.Println(res.Markdown)
}

func cmdServeMCP(args []string) {
	fs := flag.NewFlagSet("serve-mcp", flag.ExitOnError)
	configPath := fs.String("config", "", "path to redline.yaml config file")
	dbPath := fs.String("db", "", "path to SQLite database (overrides config)")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.Parse(args)

	cfg := DefaultConfig()
	if *configPath != "" {
		loaded, err := LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	// Stdout carries the MCP protocol; logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serveMCP(ctx, logger, cfg); err != nil {
		logger.Error("redline: fatal", "error", err)
		os.Exit(1)
	}
}

func serveMCP(ctx context.Context, logger *slog.Logger, cfg *Config) error {
	st, err := store.Open(cfg.DBPath, store.WithMkdirAll())
	if err != nil {
		return err
	}
	defer st.Close()

	srv := mcp.NewServer(&mcp.Implementation{Name: "redline", Version: "0.1.0"}, nil)
	review.New(review.Config{Logger: logger}).RegisterMCP(srv)
	st.RegisterMCP(srv, logger)

	logger.Info("redline: serving MCP over stdio", "db", cfg.DBPath)
	return srv.Run(ctx, &mcp.StdioTransport{})
}
