package generate

import (
	"context"
	"net/http"

	"github.com/onepagerhq/onepager/pkg/errors"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Gemini completes prompts through the generateContent API.
type Gemini struct {
	http    *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewGemini creates a Gemini provider. An empty model picks
// gemini-2.0-flash.
func NewGemini(apiKey, model string) *Gemini {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Gemini{
		http:    newHTTPClient(),
		baseURL: geminiBaseURL,
		apiKey:  apiKey,
		model:   model,
	}
}

func (g *Gemini) Name() string { return ProviderGemini }

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"`
	Temperature      float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Complete sends the prompt and returns the first candidate's text.
func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenConfig{
			ResponseMIMEType: "application/json",
			Temperature:      0.2,
		},
	}

	url := g.baseURL + "/models/" + g.model + ":generateContent"
	var resp geminiResponse
	err := postJSON(ctx, g.http, url, map[string]string{
		"x-goog-api-key": g.apiKey,
	}, body, &resp)
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New(errors.ErrCodeProvider, "gemini returned no candidates")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
