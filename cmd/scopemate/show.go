package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scopemate/scopemate/internal/storage"
	"github.com/scopemate/scopemate/internal/tui"
)

var showTree bool

var showCmd = &cobra.Command{
	Use:   "show [plan-file]",
	Short: "Display a saved plan",
	Long: `Display a saved plan as a task tree. Without a file argument the
configured default plan file is read.

By default the tree is printed and the command exits. With --tree an
interactive browser opens instead: arrow keys move, enter expands a
task's details, / filters by title, q quits.`,
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

		if showTree {
			return tui.Run(tasks)
		}

		fmt.Print(tui.Render(tasks))
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showTree, "tree", false, "open the interactive plan browser")
}
