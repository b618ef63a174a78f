// Package llm abstracts the supported LLM providers behind a single
// interface. scopemate talks to OpenAI, Gemini, or Claude depending on
// configuration; everything above this package sees only Provider.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/scopemate/scopemate/internal/config"
)

// DefaultMaxTokens bounds completion length when a request does not set one.
const DefaultMaxTokens = 4096

// ErrEmptyResponse is returned when a provider completes successfully
// but produces no usable text.
var ErrEmptyResponse = errors.New("empty response from model")

// DefaultJSONSystemPrompt instructs the model to answer with structured data.
const DefaultJSONSystemPrompt = "You are a JSON assistant specialized in structured data for product management tasks. " +
	"Respond only with valid JSON. Follow the exact requested format in the user's prompt, " +
	"using the exact field names and adhering to all constraints on field values."

// DefaultTextSystemPrompt instructs the model to answer plainly.
const DefaultTextSystemPrompt = "You are a helpful assistant that provides clear and concise answers. " +
	"Respond directly to the question without adding additional explanation or context."

// Request is a single completion request.
type Request struct {
	// System is the system prompt; empty selects a default based on JSON.
	System string
	// Prompt is the user prompt.
	Prompt string
	// JSON asks the provider for structured output where supported.
	JSON bool
	// MaxTokens bounds the completion; zero means DefaultMaxTokens.
	MaxTokens int64
}

// Provider is a single LLM backend.
type Provider interface {
	// Name returns the canonical provider name (openai, gemini, claude).
	Name() string
	// Complete performs one blocking completion call.
	Complete(ctx context.Context, req Request) (string, error)
}

// New builds the Provider selected by the configuration. Unknown provider
// names fall back to OpenAI with a warning, matching the tool's documented
// default.
func New(cfg *config.Config, usage *Usage) (Provider, error) {
	provider := cfg.LLM.NormalizedProvider()
	switch provider {
	case config.ProviderOpenAI:
		return NewOpenAI(cfg, usage)
	case config.ProviderGemini:
		return NewGemini(cfg, usage)
	case config.ProviderClaude:
		return NewClaude(cfg, usage)
	case "":
		return NewOpenAI(cfg, usage)
	default:
		fmt.Fprintf(os.Stderr, "[Warning] Unknown provider %q, falling back to OpenAI\n", cfg.LLM.Provider)
		return NewOpenAI(cfg, usage)
	}
}

// CallJSON performs a JSON-mode completion and parses the result into a
// generic map. A malformed response is retried once before the error is
// surfaced; callers are expected to degrade to defaults rather than abort.
func CallJSON(ctx context.Context, p Provider, system, prompt string) (map[string]any, error) {
	if system == "" {
		system = DefaultJSONSystemPrompt
	}
	req := Request{System: system, Prompt: prompt, JSON: true}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		raw, err := p.Complete(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("%s call failed: %w", p.Name(), err)
		}

		if strings.TrimSpace(raw) == "" {
			fmt.Fprintf(os.Stderr, "[Error] %s returned an empty response\n", p.Name())
			lastErr = ErrEmptyResponse
			continue
		}

		parsed, err := parseJSONObject(raw)
		if err == nil {
			return parsed, nil
		}
		fmt.Fprintf(os.Stderr, "[Error] Failed to parse LLM response as JSON: %v\nRaw response: %s\n", err, raw)
		lastErr = err
	}
	return nil, fmt.Errorf("parsing %s response: %w", p.Name(), lastErr)
}

// CallText performs a text-mode completion. Surrounding double quotes are
// stripped since models occasionally quote short answers.
func CallText(ctx context.Context, p Provider, system, prompt string) (string, error) {
	if system == "" {
		system = DefaultTextSystemPrompt
	}

	raw, err := p.Complete(ctx, Request{System: system, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("%s call failed: %w", p.Name(), err)
	}

	text := strings.TrimSpace(raw)
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		text = text[1 : len(text)-1]
	}
	if text == "" {
		return "", fmt.Errorf("%s: %w", p.Name(), ErrEmptyResponse)
	}
	return text, nil
}

// parseJSONObject extracts the outermost JSON object from raw model
// output. Models sometimes wrap JSON in prose or code fences, so the
// text between the first '{' and the last '}' is what gets parsed.
func parseJSONObject(raw string) (map[string]any, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON object: %w", err)
	}
	return parsed, nil
}
