package generate

import (
	"context"
	"time"

	"github.com/onepagerhq/onepager/pkg/config"
	"github.com/onepagerhq/onepager/pkg/content"
	"github.com/onepagerhq/onepager/pkg/errors"
	"github.com/onepagerhq/onepager/pkg/httputil"
)

// Generator produces content descriptions from free-form text.
type Generator struct {
	provider Provider
	cfg      config.Generate
}

// New creates a Generator over the given provider.
func New(provider Provider, cfg config.Generate) *Generator {
	return &Generator{provider: provider, cfg: cfg}
}

// NewFromKey creates a Generator with the provider inferred from the API
// key shape.
func NewFromKey(apiKey string, cfg config.Generate) (*Generator, error) {
	p, err := NewProvider(apiKey, cfg.DefaultModel)
	if err != nil {
		return nil, err
	}
	return New(p, cfg), nil
}

// Provider returns the underlying provider.
func (g *Generator) Provider() Provider { return g.provider }

// Generate turns input text into a normalized content description. The
// input is truncated to the configured limit, the provider call retries
// transient failures with exponential backoff, and the decoded document
// passes through [content.Process] so downstream stages see capped,
// well-formed content.
func (g *Generator) Generate(ctx context.Context, input string) (content.Document, error) {
	input = truncateInput(input, g.cfg.MaxInputChars)

	prompt := buildPrompt(input)
	var raw string
	err := httputil.Retry(ctx, g.cfg.MaxRetries, time.Second, func() error {
		var cerr error
		raw, cerr = g.provider.Complete(ctx, prompt)
		return cerr
	})
	if err != nil {
		return content.Document{}, err
	}

	doc, err := content.UnmarshalDocument([]byte(stripFences(raw)))
	if err != nil {
		return content.Document{}, errors.Wrap(errors.ErrCodeInvalidContent, err,
			"%s returned malformed content", g.provider.Name())
	}

	return content.Process(doc), nil
}

// truncateInput caps the input at limit runes. Zero or negative limits
// disable the cap.
func truncateInput(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
