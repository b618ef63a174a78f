package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/scopemate/scopemate/internal/interaction"
	"github.com/scopemate/scopemate/internal/storage"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export [plan-file]",
	Short: "Regenerate the Markdown mirror of a plan",
	Long: `Regenerate the Markdown rendering of a saved plan. Without --out
the Markdown file is written next to the plan with the same basename.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planFile, err := resolvePlanFile(args)
		if err != nil {
			return err
		}

		tasks, err := storage.LoadPlan(os.Stdout, planFile)
		if err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			out = storage.MarkdownPath(planFile)
		}
		if err := storage.SaveMarkdownPlan(tasks, out); err != nil {
			return err
		}

		interaction.Successf(os.Stdout, "Markdown plan saved to %s.", out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "markdown file to write (default: plan basename + .md)")
}
