package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/scopemate/scopemate/internal/analysis"
	"github.com/scopemate/scopemate/internal/interaction"
	"github.com/scopemate/scopemate/internal/storage"
)

var watchCmd = &cobra.Command{
	Use:   "watch [plan-file]",
	Short: "Keep the Markdown mirror in sync with the plan file",
	Long: `Watch a plan file and regenerate its Markdown mirror whenever the
file changes. Edits that leave parent estimates below their children are
reported as warnings but never rewritten; run a planning session to
reconcile them.

Stops on Ctrl-C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planFile, err := resolvePlanFile(args)
		if err != nil {
			return err
		}
		return watchPlan(cmd.Context(), planFile)
	},
}

func watchPlan(ctx context.Context, planFile string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors that save through a
	// rename replace the inode and a file watch would go stale.
	dir := filepath.Dir(planFile)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	refreshPlanMirror(planFile)
	fmt.Printf("Watching %s for changes (Ctrl-C to stop)...\n", planFile)

	base := filepath.Base(planFile)
	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nStopped watching.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			refreshPlanMirror(planFile)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			interaction.Warnf(os.Stdout, "Watch error: %v", err)
		}
	}
}

// refreshPlanMirror reloads the plan, rewrites the Markdown mirror, and
// reports estimate inconsistencies the edit introduced.
func refreshPlanMirror(planFile string) {
	tasks, err := storage.LoadPlan(os.Stdout, planFile)
	if err != nil {
		interaction.Warnf(os.Stdout, "Could not reload plan: %v", err)
		return
	}

	if err := storage.SaveMarkdownPlan(tasks, storage.MarkdownPath(planFile)); err != nil {
		interaction.Warnf(os.Stdout, "Could not write markdown mirror: %v", err)
		return
	}
	interaction.Successf(os.Stdout, "Markdown mirror updated: %s", storage.MarkdownPath(planFile))

	if _, raised := analysis.ReconcileEstimates(tasks, 0); raised > 0 {
		interaction.Warnf(os.Stdout,
			"%d parent estimate(s) rank below their children; run scopemate to reconcile", raised)
	}
}
