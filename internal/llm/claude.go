package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/scopemate/scopemate/internal/config"
)

// Claude talks to the Anthropic API, or to Claude models on AWS Bedrock
// when configured.
type Claude struct {
	inner anthropic.Client
	model anthropic.Model
	usage *Usage
}

// NewClaude creates the Claude provider. The direct API path requires
// ANTHROPIC_API_KEY; the Bedrock path uses ambient AWS credentials.
func NewClaude(cfg *config.Config, usage *Usage) (*Claude, error) {
	var opts []option.RequestOption

	if cfg.LLM.UseBedrock {
		var loadOpts []func(*awsconfig.LoadOptions) error
		if cfg.LLM.AWSRegion != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.LLM.AWSRegion))
		}
		opts = append(opts, bedrock.WithLoadDefaultConfig(context.Background(), loadOpts...))
	} else {
		apiKey, err := config.GetAPIKey(config.ProviderClaude)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	model := anthropic.Model(cfg.LLM.ClaudeModel)
	if model == "" {
		model = anthropic.ModelClaude3_7Sonnet20250219
	}
	if cfg.LLM.UseBedrock {
		model = translateModelForBedrock(model)
	}

	return &Claude{
		inner: anthropic.NewClient(opts...),
		model: model,
		usage: usage,
	}, nil
}

// Name returns the canonical provider name.
func (c *Claude) Name() string {
	return config.ProviderClaude
}

// Complete performs a single Messages call. JSON requests run at a lower
// temperature for more deterministic structured output.
func (c *Claude) Complete(ctx context.Context, req Request) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}

	temperature := 0.2
	if req.JSON {
		temperature = 0.1
	}

	resp, err := c.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(temperature),
		System: []anthropic.TextBlockParam{
			{Text: req.System},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude messages call: %w", err)
	}

	if c.usage != nil {
		c.usage.Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)
	}

	var result string
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			result += variant.Text
		}
	}

	return result, nil
}

// translateModelForBedrock converts standard Anthropic model names to Bedrock
// inference profile format (cross-region profiles: us.anthropic.{model}-v1:0).
func translateModelForBedrock(model anthropic.Model) anthropic.Model {
	bedrockModels := map[anthropic.Model]string{
		anthropic.ModelClaude3_7Sonnet20250219: "us.anthropic.claude-3-7-sonnet-20250219-v1:0",
		anthropic.ModelClaude3_5Haiku20241022:  "us.anthropic.claude-3-5-haiku-20241022-v1:0",
		anthropic.ModelClaudeSonnet4_20250514:  "us.anthropic.claude-sonnet-4-20250514-v1:0",
	}

	if bedrockModel, ok := bedrockModels[model]; ok {
		return anthropic.Model(bedrockModel)
	}

	// Might already be Bedrock format or a custom model
	return model
}
