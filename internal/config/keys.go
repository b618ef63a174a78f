// Package config provides API key management utilities.
package config

import (
	"errors"
	"fmt"
	"os"
)

// ErrNoAPIKey is returned when no API key is configured for the
// selected provider.
var ErrNoAPIKey = errors.New("no API key configured")

// ErrUnknownProvider is returned when a provider name has no known
// key environment variable.
var ErrUnknownProvider = errors.New("unknown provider")

// keyEnvVars maps canonical provider names to the environment variable
// each provider's SDK expects.
var keyEnvVars = map[string]string{
	ProviderOpenAI: "OPENAI_API_KEY",
	ProviderGemini: "GEMINI_API_KEY",
	ProviderClaude: "ANTHROPIC_API_KEY",
}

// KeyEnvVar returns the environment variable name holding the API key
// for the given canonical provider name.
func KeyEnvVar(provider string) string {
	return keyEnvVars[provider]
}

// GetAPIKey returns the API key for the given canonical provider name.
// Keys are read from the environment only; they are never stored in
// config files.
func GetAPIKey(provider string) (string, error) {
	envVar, ok := keyEnvVars[provider]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownProvider, provider)
	}
	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("set %s: %w", envVar, ErrNoAPIKey)
}

// MaskAPIKey returns a masked version of the API key for display.
// Shows the first 4 characters and last 4 characters.
func MaskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}

	if len(key) <= 12 {
		return "***"
	}

	return key[:4] + "..." + key[len(key)-4:]
}
