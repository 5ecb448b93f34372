package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/onepagerhq/onepager/pkg/errors"
	"github.com/onepagerhq/onepager/pkg/httputil"
)

const openAIBaseURL = "https://api.openai.com/v1"

// OpenAI completes prompts through the chat completions API.
type OpenAI struct {
	http    *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewOpenAI creates an OpenAI provider. An empty model picks gpt-4o-mini.
func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAI{
		http:    newHTTPClient(),
		baseURL: openAIBaseURL,
		apiKey:  apiKey,
		model:   model,
	}
}

func (o *OpenAI) Name() string { return ProviderOpenAI }

type openAIRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *openAIFormat   `json:"response_format,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIFormat struct {
	Type string `json:"type"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt as a single user message and returns the
// first choice.
func (o *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	body := openAIRequest{
		Model:          o.model,
		Messages:       []openAIMessage{{Role: "user", Content: prompt}},
		Temperature:    0.2,
		ResponseFormat: &openAIFormat{Type: "json_object"},
	}

	var resp openAIResponse
	err := postJSON(ctx, o.http, o.baseURL+"/chat/completions", map[string]string{
		"Authorization": "Bearer " + o.apiKey,
	}, body, &resp)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New(errors.ErrCodeProvider, "openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// postJSON sends a JSON POST and decodes the JSON response. Transport
// failures, 5xx responses, and rate limits come back as retryable errors
// so the caller's backoff loop can try again.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body, v any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, val := range headers {
		req.Header.Set(k, val)
	}

	resp, err := client.Do(req)
	if err != nil {
		return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "provider request"))
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return httputil.Retryable(errors.New(errors.ErrCodeRateLimited, "provider rate limit"))
	case resp.StatusCode >= 500:
		return httputil.Retryable(errors.New(errors.ErrCodeProvider, "provider status %d", resp.StatusCode))
	default:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.New(errors.ErrCodeProvider, "provider status %d: %s", resp.StatusCode, trimDetail(detail))
	}
}

func trimDetail(b []byte) string {
	if len(b) == 0 {
		return "no detail"
	}
	return fmt.Sprintf("%.200s", string(b))
}
