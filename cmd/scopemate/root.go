package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scopemate/scopemate/internal/config"
	"github.com/scopemate/scopemate/internal/engine"
	"github.com/scopemate/scopemate/internal/llm"
	"github.com/scopemate/scopemate/internal/state"
)

var rootOutput string

var rootCmd = &cobra.Command{
	Use:   "scopemate",
	Short: "Purpose, scope, and outcome task planning",
	Long: `scopemate turns a high-level goal into a hierarchy of tasks, each
annotated with purpose, scope, and outcome metadata. An LLM drives the
breakdown and estimation; you review every suggestion.

With no arguments, starts a guided interactive planning session. The
session checkpoints after every breakdown round, so an interrupted
session can be resumed later.

The LLM provider is selected with SCOPEMATE_LLM_PROVIDER (openai,
gemini, or claude) and reads its API key from the provider's usual
environment variable.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, cleanup, err := newSession(rootOutput)
		if err != nil {
			return err
		}
		defer cleanup()

		return engine.New(session).Run(cmd.Context())
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&rootOutput, "output", "", "plan file to write (default from config)")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// newSession assembles everything an engine run needs: configuration,
// the configured LLM provider, the usage tracker, and the project
// history database. The returned cleanup closes the database.
func newSession(planFile string) (engine.SessionConfig, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return engine.SessionConfig{}, nil, fmt.Errorf("load config: %w", err)
	}

	usage := llm.NewUsage()
	provider, err := llm.New(cfg, usage)
	if err != nil {
		return engine.SessionConfig{}, nil, err
	}

	history := openHistory()
	cleanup := func() {
		if err := history.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close history db: %v\n", err)
		}
	}

	return engine.SessionConfig{
		Config:   cfg,
		Provider: provider,
		Usage:    usage,
		Input:    os.Stdin,
		Output:   os.Stdout,
		History:  history,
		PlanFile: planFile,
	}, cleanup, nil
}

// openHistory opens the project-local revision database. History is a
// convenience, not a requirement: any failure here returns nil, which
// every state.DB method treats as a no-op.
func openHistory() *state.DB {
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}

	db, err := state.OpenProject(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[Warning] Plan history unavailable: %v\n", err)
		return nil
	}
	if err := db.Migrate(); err != nil {
		fmt.Fprintf(os.Stderr, "[Warning] Plan history unavailable: %v\n", err)
		db.Close()
		return nil
	}
	return db
}

// resolvePlanFile picks the plan path for read-only commands: an
// explicit argument wins, otherwise the configured default output.
func resolvePlanFile(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	return cfg.Plan.Output, nil
}
