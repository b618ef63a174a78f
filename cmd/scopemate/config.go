package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/scopemate/scopemate/internal/config"
	"github.com/scopemate/scopemate/internal/interaction"
)

var configCmd = &cobra.Command{
	Use:   "config [show|init]",
	Short: "Manage configuration",
	Long: `View or scaffold scopemate configuration.

"config" or "config show" prints the effective configuration after
defaults, the user config, the project config, and environment
variables have been merged.

"config init" writes a commented starter .scopemate.yaml to the current
directory.

User config lives at ~/.config/scopemate/config.yaml; a .scopemate.yaml
in the project (or any parent directory) overrides it.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"show", "init"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 && args[0] == "init" {
			return initConfigFile()
		}
		return showConfig(os.Stdout)
	},
}

func showConfig(w io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fmt.Fprintf(w, "llm.provider: %s\n", cfg.LLM.NormalizedProvider())
	fmt.Fprintf(w, "llm.openai_model: %s\n", cfg.LLM.OpenAIModel)
	fmt.Fprintf(w, "llm.gemini_model: %s\n", cfg.LLM.GeminiModel)
	fmt.Fprintf(w, "llm.claude_model: %s\n", cfg.LLM.ClaudeModel)
	fmt.Fprintf(w, "llm.use_bedrock: %t\n", cfg.LLM.UseBedrock)
	fmt.Fprintf(w, "llm.aws_region: %s\n", displayValue(cfg.LLM.AWSRegion))
	fmt.Fprintf(w, "plan.output: %s\n", cfg.Plan.Output)
	fmt.Fprintf(w, "plan.checkpoint: %s\n", cfg.Plan.Checkpoint)
	fmt.Fprintf(w, "breakdown.max_depth: %d\n", cfg.Breakdown.MaxDepth)
	fmt.Fprintf(w, "breakdown.max_rounds: %d\n", cfg.Breakdown.MaxRounds)
	fmt.Fprintf(w, "breakdown.reconciliation_passes: %d\n", cfg.Breakdown.ReconciliationPasses)

	provider := cfg.LLM.NormalizedProvider()
	if envVar := config.KeyEnvVar(provider); envVar != "" {
		key, _ := config.GetAPIKey(provider)
		fmt.Fprintf(w, "%s: %s\n", envVar, config.MaskAPIKey(key))
	}

	if project := config.GetProjectConfigPath(); project != "" {
		fmt.Fprintf(w, "\nProject config: %s\n", project)
	}
	return nil
}

func displayValue(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// initConfigFile writes a commented .scopemate.yaml built from the
// defaults. Refuses to overwrite an existing file.
func initConfigFile() error {
	const path = ".scopemate.yaml"
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	data, err := yaml.Marshal(starterConfig())
	if err != nil {
		return fmt.Errorf("render starter config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	interaction.Successf(os.Stdout, "Wrote %s.", path)
	return nil
}

// starterConfig assembles a yaml document node mirroring the defaults,
// with a comment per setting so the file explains itself.
func starterConfig() *yaml.Node {
	cfg := config.Default()

	llmNode := mapping(
		scalar("provider", "LLM provider: openai, gemini, or claude"), value(cfg.LLM.Provider),
		scalar("openai_model", ""), value(cfg.LLM.OpenAIModel),
		scalar("gemini_model", ""), value(cfg.LLM.GeminiModel),
		scalar("claude_model", ""), value(cfg.LLM.ClaudeModel),
		scalar("use_bedrock", "Route Claude calls through AWS Bedrock"), value(false),
		scalar("aws_region", "Region for Bedrock calls; empty uses the AWS default chain"), value(""),
	)
	planNode := mapping(
		scalar("output", "Default plan file; the Markdown mirror shares its basename"), value(cfg.Plan.Output),
		scalar("checkpoint", "In-progress session checkpoint"), value(cfg.Plan.Checkpoint),
	)
	breakdownNode := mapping(
		scalar("max_depth", "Deepest subtask level; roots are depth 0"), value(cfg.Breakdown.MaxDepth),
		scalar("max_rounds", "Breakdown rounds per interactive session"), value(cfg.Breakdown.MaxRounds),
		scalar("reconciliation_passes", "Cap on estimate reconciliation passes"), value(cfg.Breakdown.ReconciliationPasses),
	)

	root := mapping(
		scalar("llm", ""), llmNode,
		scalar("plan", ""), planNode,
		scalar("breakdown", ""), breakdownNode,
	)
	root.HeadComment = "scopemate configuration. Environment variables (SCOPEMATE_*) override\nanything set here."
	return root
}

func mapping(pairs ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Content: pairs}
}

func scalar(key, comment string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: key, HeadComment: comment}
}

func value(v any) *yaml.Node {
	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Value: ""}
	}
	return node
}
