// Package breakdown turns oversized tasks into smaller child tasks.
package breakdown

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/scopemate/scopemate/internal/interaction"
	"github.com/scopemate/scopemate/internal/llm"
	"github.com/scopemate/scopemate/pkg/models"
)

// Suggester asks the configured LLM to split a task and shapes the raw
// suggestions into valid child tasks.
type Suggester struct {
	provider llm.Provider
	out      io.Writer
}

// NewSuggester creates a Suggester that reports progress to out.
func NewSuggester(provider llm.Provider, out io.Writer) *Suggester {
	return &Suggester{provider: provider, out: out}
}

// Suggest asks the LLM to break task into subtasks. When the response
// yields nothing usable, a single fallback subtask is returned so the
// caller always has something to review.
func (s *Suggester) Suggest(ctx context.Context, task models.Task) []models.Task {
	timeContext := ""
	if task.Scope.TimeEstimate.LongDuration() && task.Scope.Size.Rank() < models.SizeComplex.Rank() {
		timeContext = timeBreakdownContext
	}

	prompt := fmt.Sprintf(breakdownPrompt, timeContext, taskJSON(task))

	response, err := llm.CallJSON(ctx, s.provider, "", prompt)
	if err != nil {
		interaction.Warnf(s.out, "Breakdown suggestion failed: %v", err)
		return []models.Task{DefaultSubtask(task)}
	}

	raws := ExtractSubtasks(response)
	if len(raws) == 0 {
		interaction.Warnf(s.out, "LLM returned no usable subtasks, using a default")
		return []models.Task{DefaultSubtask(task)}
	}

	subtasks := make([]models.Task, 0, len(raws))
	for _, raw := range raws {
		subtasks = append(subtasks, ProcessRaw(raw, task))
	}
	return subtasks
}

// ExtractSubtasks pulls the subtask objects out of a breakdown response.
// Only the exact {"subtasks": [...]} shape is accepted; non-object entries
// in the list are dropped.
func ExtractSubtasks(response map[string]any) []map[string]any {
	list, ok := response["subtasks"].([]any)
	if !ok {
		return nil
	}
	raws := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if raw, ok := item.(map[string]any); ok {
			raws = append(raws, raw)
		}
	}
	return raws
}

// ProcessRaw shapes one raw subtask object into a valid child of parent.
// Estimates default to the parent's simpler ranks when missing or
// invalid. Urgency, alignment, outcome type, and team always come from the
// parent regardless of what the response claims.
func ProcessRaw(raw map[string]any, parent models.Task) models.Task {
	title := stringField(raw, "title")
	if title == "" {
		title = "Subtask of: " + parent.Title
	}

	task := models.NewTask(clampTitle(title))
	if id := stringField(raw, "id"); id != "" {
		task.ID = id
	}
	task.ParentID = parent.ID

	purpose := objectField(raw, "purpose")
	task.Purpose.DetailedDescription = stringField(purpose, "detailed_description")
	if task.Purpose.DetailedDescription == "" {
		task.Purpose.DetailedDescription = "Subtask for: " + parent.Title
	}
	task.Purpose.Urgency = parent.Purpose.Urgency
	task.Purpose.Alignment = append([]string(nil), parent.Purpose.Alignment...)

	scope := objectField(raw, "scope")
	task.Scope.Size = parent.Scope.Size.Simpler()
	if size := models.Size(stringField(scope, "size")); size.Valid() {
		task.Scope.Size = size
	}
	task.Scope.TimeEstimate = parent.Scope.TimeEstimate.Simpler()
	if estimate := models.TimeEstimate(stringField(scope, "time_estimate")); estimate.Valid() {
		task.Scope.TimeEstimate = estimate
	}
	if deps := stringSliceField(scope, "dependencies"); deps != nil {
		task.Scope.Dependencies = deps
	}
	if risks := stringSliceField(scope, "risks"); risks != nil {
		task.Scope.Risks = risks
	}

	outcome := objectField(raw, "outcome")
	task.Outcome.Type = parent.Outcome.Type
	task.Outcome.DetailedOutcomeDefinition = stringField(outcome, "detailed_outcome_definition")
	if task.Outcome.DetailedOutcomeDefinition == "" {
		task.Outcome.DetailedOutcomeDefinition = "Outcome for: " + task.Title
	}
	if criteria := stringSliceField(outcome, "acceptance_criteria"); criteria != nil {
		task.Outcome.AcceptanceCriteria = criteria
	}

	task.Meta.Team = parent.Meta.Team

	return task
}

// DefaultSubtask builds the fallback child used when the LLM response
// contains no usable subtasks.
func DefaultSubtask(parent models.Task) models.Task {
	task := models.NewTask(clampTitle("First stage of " + parent.Title))
	task.ParentID = parent.ID

	task.Purpose.DetailedDescription = "Initial phase of work on: " + parent.Purpose.DetailedDescription
	task.Purpose.Urgency = parent.Purpose.Urgency
	task.Purpose.Alignment = append([]string(nil), parent.Purpose.Alignment...)

	task.Scope.Size = parent.Scope.Size.Simpler()
	task.Scope.TimeEstimate = parent.Scope.TimeEstimate.Simpler()

	task.Outcome.Type = parent.Outcome.Type
	task.Outcome.DetailedOutcomeDefinition = "First deliverable for: " + parent.Title

	task.Meta.Confidence = parent.Meta.Confidence
	task.Meta.Team = parent.Meta.Team

	return task
}

func taskJSON(task models.Task) string {
	data, err := json.MarshalIndent(task, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

func clampTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= models.MaxTitleLength {
		return title
	}
	return string(runes[:models.MaxTitleLength])
}

func objectField(raw map[string]any, key string) map[string]any {
	obj, _ := raw[key].(map[string]any)
	return obj
}

func stringField(raw map[string]any, key string) string {
	value, _ := raw[key].(string)
	return value
}

func stringSliceField(raw map[string]any, key string) []string {
	list, ok := raw[key].([]any)
	if !ok {
		return nil
	}
	values := make([]string, 0, len(list))
	for _, item := range list {
		if value, ok := item.(string); ok {
			values = append(values, value)
		}
	}
	return values
}
