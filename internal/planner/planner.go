// Package planner wraps the LLM calls that shape individual tasks:
// scope estimation, alternative approach suggestions, parent-context
// updates, and title generation. Tree-wide logic lives in analysis;
// this package only ever reasons about one or two tasks at a time.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/scopemate/scopemate/internal/llm"
	"github.com/scopemate/scopemate/pkg/models"
)

// MaxGeneratedTitleLength caps titles coming back from the model.
const MaxGeneratedTitleLength = 60

// Approach is one alternative implementation strategy for a task.
type Approach struct {
	Name         string
	Description  string
	Size         models.Size
	TimeEstimate models.TimeEstimate
}

// Planner issues single-task LLM calls and reports model reasoning to
// the session output.
type Planner struct {
	provider llm.Provider
	out      io.Writer
}

// New creates a Planner writing user-visible analysis to out.
func New(provider llm.Provider, out io.Writer) *Planner {
	return &Planner{provider: provider, out: out}
}

// EstimateScope asks the model to size the task. The model's reasoning
// is shown to the user and stripped from the result. A response the
// model botches leaves the task's current scope in place; partial
// responses are filled with conservative defaults (uncertain, sprint).
// Risks already on the task survive the re-estimate.
func (p *Planner) EstimateScope(ctx context.Context, task models.Task) models.Scope {
	parentContext := ""
	if task.ParentID != "" {
		parentContext = fmt.Sprintf(estimateParentContext, task.ParentID)
	}

	prompt := fmt.Sprintf(estimatePrompt, parentContext, taskJSON(task))

	response, err := llm.CallJSON(ctx, p.provider, "", prompt)
	if err != nil {
		fmt.Fprintf(p.out, "[Warning] Scope estimation failed; keeping original scope: %v\n", err)
		return task.Scope
	}

	if reasoning := stringField(response, "reasoning"); reasoning != "" {
		fmt.Fprintf(p.out, "\n[AI Scope Analysis]\n%s\n\n", reasoning)
	}

	size := models.Size(stringField(response, "size"))
	if size == "" {
		size = models.SizeUncertain
	}
	estimate := models.TimeEstimate(stringField(response, "time_estimate"))
	if estimate == "" {
		estimate = models.TimeSprint
	}
	if !size.Valid() || !estimate.Valid() {
		fmt.Fprintf(p.out, "[Warning] Scope validation failed; keeping original scope: size=%q time_estimate=%q\n", size, estimate)
		return task.Scope
	}

	deps := stringSliceField(response, "dependencies")
	if deps == nil {
		deps = []string{}
	}
	return models.Scope{
		Size:         size,
		TimeEstimate: estimate,
		Dependencies: deps,
		Risks:        mergeUnique(task.Scope.Risks, stringSliceField(response, "risks")),
	}
}

// SuggestApproaches asks for 2-5 alternative implementation strategies.
// Approaches with out-of-range estimates degrade to uncertain/sprint; a
// response without an alternatives list yields none.
func (p *Planner) SuggestApproaches(ctx context.Context, task models.Task) []Approach {
	prompt := fmt.Sprintf(alternativesPrompt, taskJSON(task))

	response, err := llm.CallJSON(ctx, p.provider, "", prompt)
	if err != nil {
		fmt.Fprintf(p.out, "[Warning] Alternative suggestion failed: %v\n", err)
		return nil
	}

	rawList, ok := response["alternatives"].([]any)
	if !ok {
		fmt.Fprintln(p.out, "[Warning] LLM did not return proper alternatives structure")
		return nil
	}

	var approaches []Approach
	for idx, raw := range rawList {
		alt, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		name := stringField(alt, "name")
		if name == "" {
			name = fmt.Sprintf("Alternative %d", idx+1)
		}
		description := stringField(alt, "description")
		if description == "" {
			description = "No description provided"
		}

		size := models.Size(stringField(alt, "scope"))
		if !size.Valid() {
			size = models.SizeUncertain
		}
		estimate := models.TimeEstimate(stringField(alt, "time_estimate"))
		if !estimate.Valid() {
			estimate = models.TimeSprint
		}

		approaches = append(approaches, Approach{
			Name:         name,
			Description:  description,
			Size:         size,
			TimeEstimate: estimate,
		})
	}
	return approaches
}

// UpdateParentWithChildContext folds a freshly created child task back
// into its parent: descriptions are regenerated with the child in mind,
// risks merged, and the team reassigned when the model proposes a valid
// one. Only fields present in the response change; the updated timestamp
// always bumps.
func (p *Planner) UpdateParentWithChildContext(ctx context.Context, parent, child models.Task) models.Task {
	prompt := fmt.Sprintf(parentUpdatePrompt, taskJSON(parent), taskJSON(child))

	updated := parent

	response, err := llm.CallJSON(ctx, p.provider, "", prompt)
	if err != nil {
		fmt.Fprintf(p.out, "[Warning] Parent update failed; keeping parent as-is: %v\n", err)
		return updated
	}

	if purpose, ok := response["purpose"].(map[string]any); ok {
		if desc := stringField(purpose, "detailed_description"); desc != "" {
			updated.Purpose.DetailedDescription = desc
		}
	}
	if scope, ok := response["scope"].(map[string]any); ok {
		if risks := stringSliceField(scope, "risks"); risks != nil {
			updated.Scope.Risks = mergeUnique(updated.Scope.Risks, risks)
		}
	}
	if outcome, ok := response["outcome"].(map[string]any); ok {
		if def := stringField(outcome, "detailed_outcome_definition"); def != "" {
			updated.Outcome.DetailedOutcomeDefinition = def
		}
	}
	if meta, ok := response["meta"].(map[string]any); ok {
		if team := models.Team(stringField(meta, "team")); team.Valid() {
			updated.Meta.Team = team
		}
	}

	updated.Touch()
	return updated
}

// GenerateTitle produces a concise task title from purpose and outcome
// descriptions. Overlong titles are truncated with an ellipsis; an empty
// response falls back to a placeholder.
func (p *Planner) GenerateTitle(ctx context.Context, purpose, outcome string) string {
	prompt := fmt.Sprintf(titleUserPrompt, purpose, outcome)

	title, err := llm.CallText(ctx, p.provider, titleSystemPrompt, prompt)
	if err != nil {
		fmt.Fprintf(p.out, "[Warning] Title generation failed: %v\n", err)
		return "Task Title"
	}
	if title == "" {
		return "Task Title"
	}

	if runes := []rune(title); len(runes) > MaxGeneratedTitleLength {
		title = string(runes[:MaxGeneratedTitleLength-3]) + "..."
	}
	return title
}

// taskJSON renders a task as indented JSON for prompt embedding.
func taskJSON(task models.Task) string {
	data, err := json.MarshalIndent(task, "", "  ")
	if err != nil {
		return fmt.Sprintf("{\"id\": %q, \"title\": %q}", task.ID, task.Title)
	}
	return string(data)
}

// stringField reads a string value from a decoded JSON object.
func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// stringSliceField reads a list of strings from a decoded JSON object,
// skipping entries of other types. Returns nil when the key is absent.
func stringSliceField(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// mergeUnique appends items from extra that existing does not already
// contain, preserving order.
func mergeUnique(existing, extra []string) []string {
	seen := make(map[string]bool, len(existing))
	merged := make([]string, 0, len(existing)+len(extra))
	for _, item := range existing {
		if !seen[item] {
			seen[item] = true
			merged = append(merged, item)
		}
	}
	for _, item := range extra {
		if !seen[item] {
			seen[item] = true
			merged = append(merged, item)
		}
	}
	return merged
}
