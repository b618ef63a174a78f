package breakdown

import (
	"context"
	"fmt"
	"strings"

	"github.com/scopemate/scopemate/internal/interaction"
	"github.com/scopemate/scopemate/internal/planner"
	"github.com/scopemate/scopemate/pkg/models"
)

// Reviewer walks suggested subtasks with the user, one at a time.
type Reviewer struct {
	prompter *interaction.Prompter
	planner  *planner.Planner
}

// NewReviewer creates a Reviewer that prompts through prompter and uses
// pl for the parent-context update after a custom subtask is added.
func NewReviewer(prompter *interaction.Prompter, pl *planner.Planner) *Reviewer {
	return &Reviewer{prompter: prompter, planner: pl}
}

// Review presents each suggested subtask for approval and finishes by
// offering to add a user-defined subtask. It returns the accepted children
// and the parent, which may have been enriched with custom child context.
func (r *Reviewer) Review(ctx context.Context, parent models.Task, suggested []models.Task) ([]models.Task, models.Task, error) {
	out := r.prompter.Out()
	accepted := make([]models.Task, 0, len(suggested))

	for i, subtask := range suggested {
		r.displaySubtask(i+1, len(suggested), subtask)

		choice, err := r.prompter.Choose("[a]ccept, [c]ustomize, [s]kip", []string{"a", "c", "s"})
		if err != nil {
			return nil, parent, err
		}

		switch choice {
		case "a":
			subtask.Title = interaction.ConciseTitle(parent.Title, subtask.Title)
			accepted = append(accepted, subtask)
			interaction.Successf(out, "Accepted: %s", subtask.Title)
		case "c":
			custom, err := r.customize(parent, subtask)
			if err != nil {
				return nil, parent, err
			}
			accepted = append(accepted, custom)
			interaction.Successf(out, "Accepted with changes: %s", custom.Title)
		case "s":
			fmt.Fprintf(out, "Skipped: %s\n", subtask.Title)
		}
	}

	addOwn, err := r.prompter.Confirm("Add your own subtask?", false)
	if err != nil {
		return nil, parent, err
	}
	if addOwn {
		custom, err := r.prompter.BuildCustomSubtask(parent)
		if err != nil {
			return nil, parent, err
		}
		accepted = append(accepted, custom)
		parent = r.planner.UpdateParentWithChildContext(ctx, parent, custom)
		interaction.Successf(out, "Added custom subtask: %s", custom.Title)
	}

	return accepted, parent, nil
}

func (r *Reviewer) displaySubtask(n, total int, task models.Task) {
	out := r.prompter.Out()
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("-", 60))
	fmt.Fprintf(out, "[%d/%d] %s\n", n, total, task.Title)
	fmt.Fprintf(out, "    Purpose: %s\n", task.Purpose.DetailedDescription)
	fmt.Fprintf(out, "    Scope: %s / %s\n", task.Scope.Size, task.Scope.TimeEstimate)
	fmt.Fprintf(out, "    Outcome: %s\n", task.Outcome.DetailedOutcomeDefinition)
}

// customize lets the user adjust the core fields of a suggested subtask
// before accepting it.
func (r *Reviewer) customize(parent models.Task, subtask models.Task) (models.Task, error) {
	title, err := r.prompter.AskWithDefault("Title", subtask.Title)
	if err != nil {
		return models.Task{}, err
	}
	subtask.Title = interaction.ConciseTitle(parent.Title, title)

	purpose, err := r.prompter.AskWithDefault("Purpose", subtask.Purpose.DetailedDescription)
	if err != nil {
		return models.Task{}, err
	}
	subtask.Purpose.DetailedDescription = purpose

	outcome, err := r.prompter.AskWithDefault("Outcome", subtask.Outcome.DetailedOutcomeDefinition)
	if err != nil {
		return models.Task{}, err
	}
	subtask.Outcome.DetailedOutcomeDefinition = outcome

	subtask.Touch()
	return subtask, nil
}
