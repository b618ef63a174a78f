package breakdown

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/scopemate/scopemate/internal/llm"
	"github.com/scopemate/scopemate/pkg/models"
)

// scripted returns a canned response and records the last request.
type scripted struct {
	response string
	lastReq  llm.Request
}

func (s *scripted) Name() string { return "scripted" }

func (s *scripted) Complete(ctx context.Context, req llm.Request) (string, error) {
	s.lastReq = req
	return s.response, nil
}

func parentTask() models.Task {
	task := models.NewTask("Parent Task")
	task.ID = "TASK-parent"
	task.Purpose.DetailedDescription = "Parent purpose"
	task.Purpose.Alignment = []string{"Strategic goal"}
	task.Purpose.Urgency = models.UrgencyStrategic
	task.Scope.Size = models.SizeComplex
	task.Scope.TimeEstimate = models.TimeSprint
	task.Scope.Risks = []string{"Risk 1"}
	task.Outcome.Type = models.OutcomeCustomerFacing
	task.Outcome.DetailedOutcomeDefinition = "Parent outcome"
	task.Outcome.AcceptanceCriteria = []string{"Criterion 1"}
	task.Meta.Team = models.TeamBackend
	return task
}

func TestExtractSubtasks(t *testing.T) {
	tests := []struct {
		name     string
		response map[string]any
		want     int
	}{
		{
			"two subtask objects",
			map[string]any{"subtasks": []any{
				map[string]any{"id": "TASK-1", "title": "Subtask 1"},
				map[string]any{"id": "TASK-2", "title": "Subtask 2"},
			}},
			2,
		},
		{"missing key", map[string]any{"key": "value"}, 0},
		{"subtasks not a list", map[string]any{"subtasks": "not a list"}, 0},
		{"non-object entries dropped", map[string]any{"subtasks": []any{"not a dict", 123}}, 0},
		{"top-level task shape rejected", map[string]any{"id": "TASK-3", "title": "Single Task"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSubtasks(tt.response)
			if len(got) != tt.want {
				t.Errorf("ExtractSubtasks() len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestProcessRaw_MinimalInheritsAndSimplifies(t *testing.T) {
	parent := parentTask()
	raw := map[string]any{"title": "Raw Subtask"}

	subtask := ProcessRaw(raw, parent)

	if !strings.HasPrefix(subtask.ID, "TASK-") {
		t.Errorf("ID = %q, want TASK- prefix", subtask.ID)
	}
	if subtask.Title != "Raw Subtask" {
		t.Errorf("Title = %q", subtask.Title)
	}
	if !strings.HasPrefix(subtask.Purpose.DetailedDescription, "Subtask for:") {
		t.Errorf("purpose = %q, want Subtask for: prefix", subtask.Purpose.DetailedDescription)
	}
	if subtask.Purpose.Urgency != parent.Purpose.Urgency {
		t.Errorf("Urgency = %q, want inherited", subtask.Purpose.Urgency)
	}
	if len(subtask.Purpose.Alignment) != 1 || subtask.Purpose.Alignment[0] != "Strategic goal" {
		t.Errorf("Alignment = %v, want inherited", subtask.Purpose.Alignment)
	}
	if subtask.Scope.Size != models.SizeStraightforward {
		t.Errorf("Size = %q, want one rank simpler than complex", subtask.Scope.Size)
	}
	if subtask.Scope.TimeEstimate != models.TimeDays {
		t.Errorf("TimeEstimate = %q, want days for a sprint parent", subtask.Scope.TimeEstimate)
	}
	if subtask.Outcome.Type != parent.Outcome.Type {
		t.Errorf("Outcome.Type = %q, want inherited", subtask.Outcome.Type)
	}
	if subtask.Meta.Status != models.StatusBacklog {
		t.Errorf("Status = %q, want backlog", subtask.Meta.Status)
	}
	if subtask.ParentID != parent.ID {
		t.Errorf("ParentID = %q, want %q", subtask.ParentID, parent.ID)
	}
	if err := subtask.Validate(); err != nil {
		t.Errorf("processed subtask invalid: %v", err)
	}
}

func TestProcessRaw_DetailedKeepsProvidedFields(t *testing.T) {
	parent := parentTask()
	raw := map[string]any{
		"id":    "TASK-custom",
		"title": "Custom Subtask",
		"purpose": map[string]any{
			"detailed_description": "Custom purpose",
		},
		"scope": map[string]any{
			"size":          "trivial",
			"time_estimate": "hours",
			"dependencies":  []any{"Dependency 1"},
			"risks":         []any{"Risk 1", "Risk 2"},
		},
		"outcome": map[string]any{
			"detailed_outcome_definition": "Custom outcome",
			"acceptance_criteria":         []any{"Custom criterion"},
		},
		"meta": map[string]any{
			"team": "Frontend",
		},
	}

	subtask := ProcessRaw(raw, parent)

	if subtask.ID != "TASK-custom" {
		t.Errorf("ID = %q, want provided id kept", subtask.ID)
	}
	if subtask.Title != "Custom Subtask" {
		t.Errorf("Title = %q", subtask.Title)
	}
	if subtask.Purpose.DetailedDescription != "Custom purpose" {
		t.Errorf("purpose = %q", subtask.Purpose.DetailedDescription)
	}
	if subtask.Scope.Size != models.SizeTrivial || subtask.Scope.TimeEstimate != models.TimeHours {
		t.Errorf("scope = %s/%s, want trivial/hours", subtask.Scope.Size, subtask.Scope.TimeEstimate)
	}
	if len(subtask.Scope.Dependencies) != 1 || subtask.Scope.Dependencies[0] != "Dependency 1" {
		t.Errorf("Dependencies = %v", subtask.Scope.Dependencies)
	}
	if len(subtask.Scope.Risks) != 2 {
		t.Errorf("Risks = %v, want 2", subtask.Scope.Risks)
	}
	if subtask.Outcome.DetailedOutcomeDefinition != "Custom outcome" {
		t.Errorf("outcome = %q", subtask.Outcome.DetailedOutcomeDefinition)
	}
	if len(subtask.Outcome.AcceptanceCriteria) != 1 {
		t.Errorf("AcceptanceCriteria = %v, want 1", subtask.Outcome.AcceptanceCriteria)
	}
	// Team comes from the parent no matter what the response claims
	if subtask.Meta.Team != models.TeamBackend {
		t.Errorf("Team = %q, want parent's Backend", subtask.Meta.Team)
	}
}

func TestProcessRaw_InvalidEstimatesFallBackToSimpler(t *testing.T) {
	parent := parentTask()
	raw := map[string]any{
		"title": "Fuzzy Subtask",
		"scope": map[string]any{
			"size":          "gigantic",
			"time_estimate": "eons",
		},
	}

	subtask := ProcessRaw(raw, parent)

	if subtask.Scope.Size != models.SizeStraightforward {
		t.Errorf("Size = %q, want fallback one rank simpler", subtask.Scope.Size)
	}
	if subtask.Scope.TimeEstimate != models.TimeDays {
		t.Errorf("TimeEstimate = %q, want fallback of days for a sprint parent", subtask.Scope.TimeEstimate)
	}
}

func TestDefaultSubtask(t *testing.T) {
	parent := parentTask()

	subtask := DefaultSubtask(parent)

	if !strings.HasPrefix(subtask.ID, "TASK-") {
		t.Errorf("ID = %q, want TASK- prefix", subtask.ID)
	}
	if !strings.HasPrefix(subtask.Title, "First stage of") {
		t.Errorf("Title = %q, want First stage of prefix", subtask.Title)
	}
	if !strings.HasPrefix(subtask.Purpose.DetailedDescription, "Initial phase of work") {
		t.Errorf("purpose = %q", subtask.Purpose.DetailedDescription)
	}
	if subtask.Purpose.Urgency != parent.Purpose.Urgency {
		t.Errorf("Urgency = %q, want inherited", subtask.Purpose.Urgency)
	}
	if subtask.Scope.Size != models.SizeStraightforward || subtask.Scope.TimeEstimate != models.TimeDays {
		t.Errorf("scope = %s/%s, want straightforward/days", subtask.Scope.Size, subtask.Scope.TimeEstimate)
	}
	if subtask.Outcome.Type != parent.Outcome.Type {
		t.Errorf("Outcome.Type = %q, want inherited", subtask.Outcome.Type)
	}
	if subtask.Meta.Confidence != parent.Meta.Confidence {
		t.Errorf("Confidence = %q, want inherited", subtask.Meta.Confidence)
	}
	if subtask.Meta.Team != parent.Meta.Team {
		t.Errorf("Team = %q, want inherited", subtask.Meta.Team)
	}
	if subtask.ParentID != parent.ID {
		t.Errorf("ParentID = %q, want %q", subtask.ParentID, parent.ID)
	}
}

func TestSuggest_TimeBasedContext(t *testing.T) {
	provider := &scripted{response: `{
		"subtasks": [
			{"title": "Subtask 1", "scope": {"size": "straightforward", "time_estimate": "days"}}
		]
	}`}
	s := NewSuggester(provider, &bytes.Buffer{})

	parent := parentTask()
	parent.Scope.Size = models.SizeStraightforward
	parent.Scope.TimeEstimate = models.TimeSprint

	subtasks := s.Suggest(context.Background(), parent)

	if len(subtasks) != 1 || subtasks[0].Title != "Subtask 1" {
		t.Fatalf("subtasks = %+v", subtasks)
	}
	if !strings.Contains(provider.lastReq.Prompt, "longer than ideal") {
		t.Error("prompt should flag the long time estimate")
	}
	if !strings.Contains(provider.lastReq.Prompt, "Break this down into smaller time units") {
		t.Error("prompt should ask for smaller time units")
	}
}

func TestSuggest_ComplexityBasedHasNoTimeContext(t *testing.T) {
	provider := &scripted{response: `{
		"subtasks": [
			{"title": "Subtask 1", "scope": {"size": "straightforward", "time_estimate": "days"}}
		]
	}`}
	s := NewSuggester(provider, &bytes.Buffer{})

	subtasks := s.Suggest(context.Background(), parentTask())

	if len(subtasks) != 1 {
		t.Fatalf("len = %d, want 1", len(subtasks))
	}
	if strings.Contains(provider.lastReq.Prompt, "longer than ideal") {
		t.Error("complexity-driven breakdown should not carry time context")
	}
	if !strings.Contains(provider.lastReq.Prompt, "breaking down a task into smaller") {
		t.Error("prompt should describe the breakdown job")
	}
}

func TestSuggest_EmptyResponseFallsBackToDefault(t *testing.T) {
	provider := &scripted{response: `{"unexpected": true}`}
	var out bytes.Buffer
	s := NewSuggester(provider, &out)

	subtasks := s.Suggest(context.Background(), parentTask())

	if len(subtasks) != 1 {
		t.Fatalf("len = %d, want single fallback", len(subtasks))
	}
	if !strings.HasPrefix(subtasks[0].Title, "First stage of") {
		t.Errorf("Title = %q, want default subtask", subtasks[0].Title)
	}
	if !strings.Contains(out.String(), "no usable subtasks") {
		t.Errorf("expected warning, got %q", out.String())
	}
}
