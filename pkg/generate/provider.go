package generate

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/onepagerhq/onepager/pkg/errors"
)

// Provider names.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

const httpTimeout = 60 * time.Second

// Provider is a hosted model that completes a prompt into text.
type Provider interface {
	// Name identifies the provider for logging and cache keys.
	Name() string

	// Complete sends the prompt and returns the raw model output.
	Complete(ctx context.Context, prompt string) (string, error)
}

// DetectProvider infers the provider from the API key shape: Anthropic
// keys start with sk-ant-, OpenAI keys with sk-, Google AI keys with
// AIza. Anything else defaults to Gemini, which also serves keyless
// local mocks in tests.
func DetectProvider(apiKey string) string {
	switch {
	case strings.HasPrefix(apiKey, "sk-ant-"):
		return ProviderAnthropic
	case strings.HasPrefix(apiKey, "sk-"):
		return ProviderOpenAI
	case strings.HasPrefix(apiKey, "AIza"):
		return ProviderGemini
	default:
		return ProviderGemini
	}
}

// NewProvider creates the provider matching the API key shape.
func NewProvider(apiKey, model string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeProviderKeyMissing,
			"no API key configured: set ONEPAGER_API_KEY")
	}

	switch DetectProvider(apiKey) {
	case ProviderAnthropic:
		return NewAnthropic(apiKey, model), nil
	case ProviderOpenAI:
		return NewOpenAI(apiKey, model), nil
	default:
		return NewGemini(apiKey, model), nil
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}
