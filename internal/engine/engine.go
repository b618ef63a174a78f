// Package engine drives planning sessions: the guided interactive flow
// behind the bare scopemate command and the non-interactive flow behind
// scopemate plan. The engine owns the task list for the session and
// wires together prompting, LLM planning calls, breakdown review,
// estimate reconciliation, and persistence.
package engine

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/scopemate/scopemate/internal/analysis"
	"github.com/scopemate/scopemate/internal/breakdown"
	"github.com/scopemate/scopemate/internal/config"
	"github.com/scopemate/scopemate/internal/interaction"
	"github.com/scopemate/scopemate/internal/llm"
	"github.com/scopemate/scopemate/internal/planner"
	"github.com/scopemate/scopemate/internal/state"
	"github.com/scopemate/scopemate/internal/storage"
	"github.com/scopemate/scopemate/pkg/models"
)

// SessionConfig carries everything a session needs. PlanFile falls back
// to the configured plan output when empty; History may be nil, which
// disables revision recording.
type SessionConfig struct {
	Config   *config.Config
	Provider llm.Provider
	Usage    *llm.Usage
	Input    io.Reader
	Output   io.Writer
	History  *state.DB
	PlanFile string
}

// Engine owns one planning session.
type Engine struct {
	cfg        *config.Config
	provider   llm.Provider
	usage      *llm.Usage
	out        io.Writer
	prompter   *interaction.Prompter
	planner    *planner.Planner
	suggester  *breakdown.Suggester
	reviewer   *breakdown.Reviewer
	history    *state.DB
	planFile   string
	checkpoint string
	tasks      []models.Task
}

// New builds an Engine and its components from a session configuration.
func New(sc SessionConfig) *Engine {
	cfg := sc.Config
	if cfg == nil {
		cfg = config.Default()
	}

	planFile := sc.PlanFile
	if planFile == "" {
		planFile = cfg.Plan.Output
	}
	checkpoint := cfg.Plan.Checkpoint
	if checkpoint == "" {
		checkpoint = storage.CheckpointFile
	}

	prompter := interaction.New(sc.Input, sc.Output)
	pl := planner.New(sc.Provider, sc.Output)

	return &Engine{
		cfg:        cfg,
		provider:   sc.Provider,
		usage:      sc.Usage,
		out:        sc.Output,
		prompter:   prompter,
		planner:    pl,
		suggester:  breakdown.NewSuggester(sc.Provider, sc.Output),
		reviewer:   breakdown.NewReviewer(prompter, pl),
		history:    sc.History,
		planFile:   planFile,
		checkpoint: checkpoint,
	}
}

// Tasks returns the session's current task list.
func (e *Engine) Tasks() []models.Task {
	return e.tasks
}

// Run drives the interactive session end to end: resume or build the
// root task, offer alternative approaches, review breakdown rounds,
// reconcile estimates, and save. Ending input at any prompt aborts the
// session with the checkpoint intact.
func (e *Engine) Run(ctx context.Context) error {
	e.prompter.Header("scopemate - purpose, scope, and outcome planning")

	resumed, err := e.offerResume()
	if err != nil {
		return e.abort(err)
	}

	if !resumed {
		if err := e.buildRootInteractively(ctx); err != nil {
			return e.abort(err)
		}
	}

	if err := e.breakdownRounds(ctx); err != nil {
		return e.abort(err)
	}

	e.reconcile()

	return e.finalize()
}

// RunBatch drives the non-interactive flow behind scopemate plan: build
// and estimate the root task, take every subtask from one automatic
// breakdown round, reconcile, and save.
func (e *Engine) RunBatch(ctx context.Context, purpose, outcome string) error {
	task := e.BuildTask(ctx, purpose, outcome)
	interaction.Successf(e.out, "Created task %s: %s", task.ID, task.Title)

	e.tasks = []models.Task{task}
	e.tasks = append(e.tasks, e.suggester.Suggest(ctx, task)...)

	e.reconcile()

	return e.finalize()
}

// BuildTask creates a root task from purpose and outcome text: the model
// names it, then estimates its scope.
func (e *Engine) BuildTask(ctx context.Context, purpose, outcome string) models.Task {
	title := e.planner.GenerateTitle(ctx, purpose, outcome)

	task := models.NewTask(title)
	task.Purpose.DetailedDescription = purpose
	task.Outcome.DetailedOutcomeDefinition = outcome
	task.Scope = e.planner.EstimateScope(ctx, task)
	task.Touch()
	return task
}

// ApplyApproach folds a chosen alternative into the task: the approach
// names the plan, its description extends the purpose, and its estimates
// replace the scope.
func ApplyApproach(task models.Task, approach planner.Approach) models.Task {
	task.Title = clampTitle(approach.Name + ": " + task.Title)
	task.Purpose.DetailedDescription = fmt.Sprintf("%s\n\nChosen approach: %s",
		task.Purpose.DetailedDescription, approach.Description)
	task.Scope.Size = approach.Size
	task.Scope.TimeEstimate = approach.TimeEstimate
	task.Touch()
	return task
}

// offerResume loads the checkpoint when the user wants to continue the
// previous session. Declining deletes the stale checkpoint; a checkpoint
// that fails to load starts a fresh session instead of aborting.
func (e *Engine) offerResume() (bool, error) {
	if !storage.CheckpointExists(e.checkpoint) {
		return false, nil
	}

	resume, err := e.prompter.Confirm(
		fmt.Sprintf("Found checkpoint %s. Resume the previous session?", e.checkpoint), true)
	if err != nil {
		return false, err
	}
	if !resume {
		if err := storage.DeleteCheckpoint(e.out, e.checkpoint); err != nil {
			interaction.Warnf(e.out, "Could not delete checkpoint: %v", err)
		}
		return false, nil
	}

	tasks, err := storage.LoadPlan(e.out, e.checkpoint)
	if err != nil {
		interaction.Warnf(e.out, "Could not load checkpoint, starting fresh: %v", err)
		return false, nil
	}
	e.tasks = tasks
	return true, nil
}

func (e *Engine) buildRootInteractively(ctx context.Context) error {
	purpose, err := e.prompter.AskRequired("What do you want to build and why?")
	if err != nil {
		return err
	}
	outcome, err := e.prompter.AskRequired("What does success look like? Describe the desired outcome")
	if err != nil {
		return err
	}

	task := e.BuildTask(ctx, purpose, outcome)
	interaction.Successf(e.out, "Created task %s: %s", task.ID, task.Title)
	fmt.Fprintf(e.out, "Estimated scope: %s, %s\n", task.Scope.Size, task.Scope.TimeEstimate)

	task, err = e.chooseApproach(ctx, task)
	if err != nil {
		return err
	}

	e.tasks = []models.Task{task}
	e.saveCheckpoint()
	return nil
}

// chooseApproach shows the model's alternative strategies and lets the
// user adopt one. Entering 0 keeps the plan as estimated.
func (e *Engine) chooseApproach(ctx context.Context, task models.Task) (models.Task, error) {
	approaches := e.planner.SuggestApproaches(ctx, task)
	if len(approaches) == 0 {
		return task, nil
	}

	e.prompter.Header("Alternative approaches")
	for i, approach := range approaches {
		fmt.Fprintf(e.out, "%d. %s (%s, %s)\n   %s\n",
			i+1, approach.Name, approach.Size, approach.TimeEstimate, approach.Description)
	}

	choices := make([]string, 0, len(approaches)+1)
	choices = append(choices, "0")
	for i := range approaches {
		choices = append(choices, strconv.Itoa(i+1))
	}

	answer, err := e.prompter.Choose("Adopt an approach, or 0 to keep the current plan", choices)
	if err != nil {
		return task, err
	}
	idx, err := strconv.Atoi(answer)
	if err != nil || idx == 0 {
		return task, nil
	}

	chosen := approaches[idx-1]
	interaction.Successf(e.out, "Adopted approach: %s", chosen.Name)
	return ApplyApproach(task, chosen), nil
}

// breakdownRounds repeatedly decomposes every candidate task, reviewing
// each suggestion with the user and checkpointing after every round.
func (e *Engine) breakdownRounds(ctx context.Context) error {
	maxRounds := e.cfg.Breakdown.MaxRounds
	if maxRounds <= 0 {
		maxRounds = 1
	}

	for round := 1; round <= maxRounds; round++ {
		candidates := analysis.DecompositionCandidates(e.tasks, e.cfg.Breakdown.MaxDepth)
		if len(candidates) == 0 {
			break
		}

		e.prompter.Header(fmt.Sprintf("Breakdown round %d", round))
		for _, parent := range candidates {
			fmt.Fprintf(e.out, "\nBreaking down %s: %s (%s, %s)\n",
				parent.ID, parent.Title, parent.Scope.Size, parent.Scope.TimeEstimate)

			suggested := e.suggester.Suggest(ctx, parent)
			accepted, updatedParent, err := e.reviewer.Review(ctx, parent, suggested)
			if err != nil {
				return err
			}
			e.replaceTask(updatedParent)
			e.tasks = append(e.tasks, accepted...)
		}
		e.saveCheckpoint()
	}
	return nil
}

// reconcile raises parent estimates to cover their children and reports
// what changed.
func (e *Engine) reconcile() {
	adjusted, raised := analysis.ReconcileEstimates(e.tasks, e.cfg.Breakdown.ReconciliationPasses)
	e.tasks = adjusted

	if raised > 0 {
		interaction.Warnf(e.out, "Raised %d parent estimate(s) to cover child scope", raised)
	} else {
		interaction.Successf(e.out, "Estimates are consistent across the tree")
	}
}

// finalize saves the plan, records a history revision, removes the
// checkpoint, and prints the usage summary.
func (e *Engine) finalize() error {
	if err := storage.SavePlan(e.out, e.tasks, e.planFile); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}

	if _, err := e.history.RecordRevision(e.tasks, e.provider.Name(), e.planFile); err != nil {
		interaction.Warnf(e.out, "Could not record plan revision: %v", err)
	}

	if err := storage.DeleteCheckpoint(e.out, e.checkpoint); err != nil {
		interaction.Warnf(e.out, "Could not delete checkpoint: %v", err)
	}

	e.printUsageSummary()
	return nil
}

// abort preserves session progress in the checkpoint before surfacing
// the error that ended the session.
func (e *Engine) abort(err error) error {
	if len(e.tasks) > 0 {
		if cerr := storage.SaveCheckpoint(e.out, e.tasks, e.checkpoint); cerr != nil {
			interaction.Failf(e.out, "Could not save checkpoint: %v", cerr)
		}
	}
	return fmt.Errorf("session aborted: %w", err)
}

func (e *Engine) saveCheckpoint() {
	if err := storage.SaveCheckpoint(e.out, e.tasks, e.checkpoint); err != nil {
		interaction.Warnf(e.out, "Could not save checkpoint: %v", err)
	}
}

func (e *Engine) replaceTask(updated models.Task) {
	for i := range e.tasks {
		if e.tasks[i].ID == updated.ID {
			e.tasks[i] = updated
			return
		}
	}
	e.tasks = append(e.tasks, updated)
}

func (e *Engine) printUsageSummary() {
	if e.usage == nil {
		return
	}
	input, output := e.usage.Total()
	fmt.Fprintf(e.out, "\nLLM usage: %d call(s), %d input tokens, %d output tokens\n",
		e.usage.Calls(), input, output)
}

func clampTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= models.MaxTitleLength {
		return title
	}
	return string(runes[:models.MaxTitleLength])
}
