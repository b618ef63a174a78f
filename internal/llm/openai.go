package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/scopemate/scopemate/internal/config"
)

// OpenAI talks to the OpenAI chat completions API.
type OpenAI struct {
	inner *openai.Client
	model string
	usage *Usage
}

// NewOpenAI creates the OpenAI provider. Requires OPENAI_API_KEY.
func NewOpenAI(cfg *config.Config, usage *Usage) (*OpenAI, error) {
	apiKey, err := config.GetAPIKey(config.ProviderOpenAI)
	if err != nil {
		return nil, err
	}

	model := cfg.LLM.OpenAIModel
	if model == "" {
		model = "o4-mini"
	}

	return &OpenAI{
		inner: openai.NewClient(apiKey),
		model: model,
		usage: usage,
	}, nil
}

// Name returns the canonical provider name.
func (o *OpenAI) Name() string {
	return config.ProviderOpenAI
}

// Complete performs a single chat completion call. JSON requests set the
// json_object response format so the model returns parseable output.
func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	}
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := o.inner.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}

	if o.usage != nil {
		o.usage.Add(int64(resp.Usage.PromptTokens), int64(resp.Usage.CompletionTokens))
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
