package generate

import (
	"context"
	"net/http"

	"github.com/onepagerhq/onepager/pkg/errors"
)

const anthropicBaseURL = "https://api.anthropic.com/v1"

// Anthropic completes prompts through the messages API.
type Anthropic struct {
	http    *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewAnthropic creates an Anthropic provider. An empty model picks
// claude-3-5-haiku-latest.
func NewAnthropic(apiKey, model string) *Anthropic {
	if model == "" {
		model = "claude-3-5-haiku-latest"
	}
	return &Anthropic{
		http:    newHTTPClient(),
		baseURL: anthropicBaseURL,
		apiKey:  apiKey,
		model:   model,
	}
}

func (a *Anthropic) Name() string { return ProviderAnthropic }

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete sends the prompt and returns the first text block of the
// response.
func (a *Anthropic) Complete(ctx context.Context, prompt string) (string, error) {
	body := anthropicRequest{
		Model:     a.model,
		MaxTokens: 4096,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
	}

	var resp anthropicResponse
	err := postJSON(ctx, a.http, a.baseURL+"/messages", map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": "2023-06-01",
	}, body, &resp)
	if err != nil {
		return "", err
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", errors.New(errors.ErrCodeProvider, "anthropic returned no text content")
}
