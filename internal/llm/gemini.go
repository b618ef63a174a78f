package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/scopemate/scopemate/internal/config"
)

// Gemini talks to the Gemini API.
type Gemini struct {
	inner *genai.Client
	model string
	usage *Usage
}

// NewGemini creates the Gemini provider. Requires GEMINI_API_KEY.
func NewGemini(cfg *config.Config, usage *Usage) (*Gemini, error) {
	apiKey, err := config.GetAPIKey(config.ProviderGemini)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := cfg.LLM.GeminiModel
	if model == "" {
		model = "gemini-2.0-flash"
	}

	return &Gemini{
		inner: client,
		model: model,
		usage: usage,
	}, nil
}

// Name returns the canonical provider name.
func (g *Gemini) Name() string {
	return config.ProviderGemini
}

// Complete performs a single generate-content call. Gemini has no separate
// system role here, so the system prompt is prepended to the user prompt.
// JSON requests set the JSON response MIME type.
func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	combined := req.Prompt
	if req.System != "" {
		combined = req.System + "\n\n" + req.Prompt
	}

	var genCfg *genai.GenerateContentConfig
	if req.JSON {
		genCfg = &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		}
	}

	resp, err := g.inner.Models.GenerateContent(ctx, g.model, genai.Text(combined), genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	if g.usage != nil && resp.UsageMetadata != nil {
		g.usage.Add(int64(resp.UsageMetadata.PromptTokenCount), int64(resp.UsageMetadata.CandidatesTokenCount))
	}

	return resp.Text(), nil
}
