package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scopemate/scopemate/internal/state"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved plan revisions",
	Long: `List recent plan revisions recorded in the project history
database (.scopemate/history.db). A revision is recorded every time a
planning session saves the plan.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		// Listing history should not create an empty database.
		if _, err := os.Stat(state.HistoryDBPath(cwd)); os.IsNotExist(err) {
			fmt.Println("No plan history for this project yet.")
			return nil
		}

		db := openHistory()
		if db == nil {
			fmt.Println("No plan history for this project yet.")
			return nil
		}
		defer db.Close()

		revisions, err := db.ListRevisions(historyLimit)
		if err != nil {
			return fmt.Errorf("list revisions: %w", err)
		}
		if len(revisions) == 0 {
			fmt.Println("No plan history for this project yet.")
			return nil
		}

		w := os.Stdout
		fmt.Fprintf(w, "%-5s %-20s %-6s %-10s %s\n", "REV", "SAVED", "TASKS", "PROVIDER", "ROOT TASK")
		for _, rev := range revisions {
			fmt.Fprintf(w, "%-5d %-20s %-6d %-10s %s\n",
				rev.ID,
				rev.SavedAt.Local().Format("2006-01-02 15:04:05"),
				rev.TaskCount,
				rev.Provider,
				rev.RootTitle)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "maximum revisions to list (0 for all)")
}
