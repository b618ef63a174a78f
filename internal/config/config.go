// Package config handles configuration loading and management for scopemate.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Canonical provider names accepted in config and SCOPEMATE_LLM_PROVIDER.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderClaude = "claude"
)

// Config holds all configuration for scopemate.
type Config struct {
	LLM       LLMConfig       `mapstructure:"llm"`
	Plan      PlanConfig      `mapstructure:"plan"`
	Breakdown BreakdownConfig `mapstructure:"breakdown"`
}

// LLMConfig selects the provider and per-provider model names.
type LLMConfig struct {
	// Provider is one of openai, gemini, claude (case-insensitive).
	Provider string `mapstructure:"provider"`
	// OpenAIModel is the model used when Provider is openai.
	OpenAIModel string `mapstructure:"openai_model"`
	// GeminiModel is the model used when Provider is gemini.
	GeminiModel string `mapstructure:"gemini_model"`
	// ClaudeModel is the model used when Provider is claude.
	ClaudeModel string `mapstructure:"claude_model"`
	// UseBedrock routes Claude calls through AWS Bedrock instead of the Anthropic API.
	UseBedrock bool `mapstructure:"use_bedrock"`
	// AWSRegion overrides the region for Bedrock calls.
	AWSRegion string `mapstructure:"aws_region"`
}

// PlanConfig holds file locations for plan output and checkpoints.
type PlanConfig struct {
	// Output is the default plan file path; ${VAR} references are expanded.
	Output string `mapstructure:"output"`
	// Checkpoint is the in-progress session checkpoint path.
	Checkpoint string `mapstructure:"checkpoint"`
}

// BreakdownConfig bounds the decomposition and reconciliation loops.
type BreakdownConfig struct {
	// MaxDepth is the deepest level subtasks are created at; roots are depth 0.
	MaxDepth int `mapstructure:"max_depth"`
	// MaxRounds is how many breakdown rounds an interactive session runs.
	MaxRounds int `mapstructure:"max_rounds"`
	// ReconciliationPasses caps the estimate fixed-point iteration.
	ReconciliationPasses int `mapstructure:"reconciliation_passes"`
}

// NormalizedProvider returns the provider name lowercased and trimmed.
// Callers decide how to treat unknown values.
func (l LLMConfig) NormalizedProvider() string {
	return strings.ToLower(strings.TrimSpace(l.Provider))
}

// Model returns the configured model for the given canonical provider name.
func (l LLMConfig) Model(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return l.OpenAIModel
	case ProviderGemini:
		return l.GeminiModel
	case ProviderClaude:
		return l.ClaudeModel
	default:
		return l.OpenAIModel
	}
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (SCOPEMATE_*)
// 2. Project config (.scopemate.yaml in current directory or parent)
// 3. User config (~/.config/scopemate/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Load user config from XDG path
	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Merge project config (takes precedence)
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// Environment variable overrides
	v.AutomaticEnv()

	bindEnvVars(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references in file paths
	cfg.Plan.Output = os.ExpandEnv(cfg.Plan.Output)
	cfg.Plan.Checkpoint = os.ExpandEnv(cfg.Plan.Checkpoint)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	bindEnvVars(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Plan.Output = os.ExpandEnv(cfg.Plan.Output)
	cfg.Plan.Checkpoint = os.ExpandEnv(cfg.Plan.Checkpoint)

	return cfg, nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// bindEnvVars maps SCOPEMATE_* environment variables onto config keys.
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("llm.provider", "SCOPEMATE_LLM_PROVIDER")
	v.BindEnv("llm.openai_model", "SCOPEMATE_OPENAI_MODEL")
	v.BindEnv("llm.gemini_model", "SCOPEMATE_GEMINI_MODEL")
	v.BindEnv("llm.claude_model", "SCOPEMATE_CLAUDE_MODEL")
	v.BindEnv("llm.use_bedrock", "SCOPEMATE_USE_BEDROCK")
	v.BindEnv("llm.aws_region", "SCOPEMATE_AWS_REGION")
	v.BindEnv("plan.output", "SCOPEMATE_OUTPUT")
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	// Provider defaults
	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("llm.openai_model", "o4-mini")
	v.SetDefault("llm.gemini_model", "gemini-2.0-flash")
	v.SetDefault("llm.claude_model", "claude-3-7-sonnet-20250219")
	v.SetDefault("llm.use_bedrock", false)
	v.SetDefault("llm.aws_region", "")

	// Plan file defaults
	v.SetDefault("plan.output", "scopemate_plan.json")
	v.SetDefault("plan.checkpoint", ".scopemate_checkpoint.json")

	// Breakdown defaults
	v.SetDefault("breakdown.max_depth", 5)
	v.SetDefault("breakdown.max_rounds", 3)
	v.SetDefault("breakdown.reconciliation_passes", 10)
}

// getUserConfigDir returns the XDG config directory for scopemate.
func getUserConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "scopemate")
	}

	// Fall back to ~/.config/scopemate
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "scopemate")
	}
	return filepath.Join(home, ".config", "scopemate")
}

// findProjectConfig searches for .scopemate.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".scopemate.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    ProviderOpenAI,
			OpenAIModel: "o4-mini",
			GeminiModel: "gemini-2.0-flash",
			ClaudeModel: "claude-3-7-sonnet-20250219",
		},
		Plan: PlanConfig{
			Output:     "scopemate_plan.json",
			Checkpoint: ".scopemate_checkpoint.json",
		},
		Breakdown: BreakdownConfig{
			MaxDepth:             5,
			MaxRounds:            3,
			ReconciliationPasses: 10,
		},
	}
}
