package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scopemate/scopemate/internal/engine"
)

var (
	planPurpose string
	planOutcome string
	planOutput  string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a plan without prompts",
	Long: `Generate a plan non-interactively from a purpose and a desired
outcome. The LLM names the root task, estimates its scope, runs one
breakdown round accepting every suggestion, reconciles estimates, and
saves the plan.

Both --purpose and --outcome are required.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if planPurpose == "" || planOutcome == "" {
			return fmt.Errorf("both --purpose and --outcome are required")
		}

		session, cleanup, err := newSession(planOutput)
		if err != nil {
			return err
		}
		defer cleanup()

		return engine.New(session).RunBatch(cmd.Context(), planPurpose, planOutcome)
	},
}

func init() {
	planCmd.Flags().StringVar(&planPurpose, "purpose", "", "what to build and why")
	planCmd.Flags().StringVar(&planOutcome, "outcome", "", "what success looks like")
	planCmd.Flags().StringVar(&planOutput, "output", "", "plan file to write (default from config)")
}
