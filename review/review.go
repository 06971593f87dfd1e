// Package review wires the suggestion pipeline together: the injected AI
// reviser produces a revised document, the differ aligns it against the
// original, and the result is rendered, preprocessed and indexed as
// addressable diff nodes ready for per-node accept/reject.
//
// The language-model call is an opaque collaborator (markdown in, markdown
// out); the pipeline never talks to a model directly.
//
// Usage:
//
//	pipe := review.New(review.Config{Reviser: callModel})
//	sug, err := pipe.Suggest(ctx, doc, "tighten the intro")
//	fmt.Println(sug.Markup, sug.Registry.Len(), "changes")
package review

import (
	"context"
	"fmt"
	"log/slog"

	"redline/critic"
	"redline/diff"
	"redline/mdast"
)

// Reviser is the AI boundary: current markdown plus an instruction in,
// revised markdown out.
type Reviser func(ctx context.Context, currentMarkdown, instruction string) (string, error)

// Config configures a Pipeline.
type Config struct {
	// Reviser produces revised markdown. Optional: without one, only
	// Compare and the apply operations work.
	Reviser Reviser

	// Logger for debug/error messages.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Pipeline is the suggestion review engine.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{cfg: cfg, logger: cfg.Logger}
}

// Suggestion is one rendered review cycle. Original and Revised hold the
// normalized endpoints; Markup is the annotated document the editor
// renders, and Registry indexes its diff nodes. Node keys are valid only
// for this Markup: a new cycle reassigns them.
type Suggestion struct {
	Original string           `json:"original"`
	Revised  string           `json:"revised"`
	Markup   string           `json:"markup"`
	Registry *critic.Registry `json:"-"`
}

// Suggest runs the full cycle: reviser → diff → render → preprocess →
// scan.
func (p *Pipeline) Suggest(ctx context.Context, original, instruction string) (*Suggestion, error) {
	if p.cfg.Reviser == nil {
		return nil, fmt.Errorf("review: no reviser configured")
	}
	revised, err := p.cfg.Reviser(ctx, original, instruction)
	if err != nil {
		return nil, fmt.Errorf("revise: %w", err)
	}
	sug := p.Compare(original, revised)
	p.logger.Debug("suggestion ready",
		"instruction", instruction,
		"nodes", sug.Registry.Len(),
		"ins", sug.Registry.Count(critic.Ins),
		"del", sug.Registry.Count(critic.Del))
	return sug, nil
}

// Compare diffs two markdown documents without involving the reviser.
func (p *Pipeline) Compare(original, revised string) *Suggestion {
	recs := diff.Diff([]byte(original), []byte(revised))
	markup := critic.Preprocess(critic.Render(recs))
	return &Suggestion{
		Original: mdast.Normalize([]byte(original)),
		Revised:  mdast.Normalize([]byte(revised)),
		Markup:   markup,
		Registry: critic.Scan(markup),
	}
}

// Resolve applies one accept/reject decision against a diff node and
// returns the rewritten markup. A stale key is an error; the document is
// left untouched.
func (p *Pipeline) Resolve(markup, key string, d critic.Decision) (string, error) {
	return critic.Apply(markup, key, d)
}

// AcceptAll resolves every node in favor of the revision.
func (p *Pipeline) AcceptAll(markup string) string { return critic.AcceptAll(markup) }

// RejectAll resolves every node in favor of the original.
func (p *Pipeline) RejectAll(markup string) string { return critic.RejectAll(markup) }
