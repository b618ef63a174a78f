package models

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

func validTask() Task {
	created := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	return Task{
		ID:    "TASK-abc123",
		Title: "Create User Authentication System",
		Purpose: Purpose{
			DetailedDescription: "Implement secure user authentication",
			Alignment:           []string{"Security", "User Experience"},
			Urgency:             UrgencyStrategic,
		},
		Scope: Scope{
			Size:         SizeComplex,
			TimeEstimate: TimeSprint,
			Dependencies: []string{"User database"},
			Risks:        []string{"Security vulnerabilities"},
		},
		Outcome: Outcome{
			Type:                      OutcomeCustomerFacing,
			DetailedOutcomeDefinition: "Users can securely log in",
			AcceptanceCriteria:        []string{"Login works", "Passwords are hashed"},
			Metric:                    "Login success rate",
			ValidationMethod:          "A/B test",
		},
		Meta: Meta{
			Status:     StatusBacklog,
			Priority:   1,
			Created:    created,
			Updated:    created,
			Confidence: ConfidenceMedium,
			Team:       TeamBackend,
		},
	}
}

func TestNewTaskID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := NewTaskID()
		if !strings.HasPrefix(id, "TASK-") {
			t.Fatalf("NewTaskID() = %q, want TASK- prefix", id)
		}
		if len(id) != len("TASK-")+8 {
			t.Fatalf("NewTaskID() = %q, want 8 chars after prefix", id)
		}
		if seen[id] {
			t.Fatalf("NewTaskID() repeated %q", id)
		}
		seen[id] = true
	}
}

func TestUTCNow(t *testing.T) {
	now := UTCNow()
	if now.Location() != time.UTC {
		t.Errorf("UTCNow() location = %v, want UTC", now.Location())
	}
	if now.Nanosecond() != 0 {
		t.Errorf("UTCNow() nanoseconds = %d, want 0", now.Nanosecond())
	}
}

func TestNewTask_Defaults(t *testing.T) {
	task := NewTask("Build the thing")

	if !strings.HasPrefix(task.ID, "TASK-") {
		t.Errorf("NewTask ID = %q, want TASK- prefix", task.ID)
	}
	if task.Title != "Build the thing" {
		t.Errorf("NewTask Title = %q, want %q", task.Title, "Build the thing")
	}
	if task.ParentID != "" {
		t.Errorf("NewTask ParentID = %q, want empty", task.ParentID)
	}
	if task.Scope.Size != SizeUncertain {
		t.Errorf("NewTask Size = %q, want %q", task.Scope.Size, SizeUncertain)
	}
	if task.Scope.TimeEstimate != TimeSprint {
		t.Errorf("NewTask TimeEstimate = %q, want %q", task.Scope.TimeEstimate, TimeSprint)
	}
	if task.Meta.Status != StatusBacklog {
		t.Errorf("NewTask Status = %q, want %q", task.Meta.Status, StatusBacklog)
	}
	if task.Meta.Confidence != ConfidenceMedium {
		t.Errorf("NewTask Confidence = %q, want %q", task.Meta.Confidence, ConfidenceMedium)
	}
	if task.Meta.Created.IsZero() || task.Meta.Updated.IsZero() {
		t.Error("NewTask timestamps should be set")
	}
	if err := task.Validate(); err != nil {
		t.Errorf("NewTask should validate, got %v", err)
	}
}

func TestTask_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr string
	}{
		{"valid task", func(task *Task) {}, ""},
		{"missing id", func(task *Task) { task.ID = "" }, "no id"},
		{"blank title", func(task *Task) { task.Title = "   " }, "empty title"},
		{"oversized title", func(task *Task) { task.Title = strings.Repeat("x", MaxTitleLength+1) }, "exceeds"},
		{"bad urgency", func(task *Task) { task.Purpose.Urgency = "someday" }, "invalid urgency"},
		{"bad size", func(task *Task) { task.Scope.Size = "enormous" }, "invalid size"},
		{"bad time estimate", func(task *Task) { task.Scope.TimeEstimate = "forever" }, "invalid time estimate"},
		{"bad outcome type", func(task *Task) { task.Outcome.Type = "mystery" }, "invalid outcome type"},
		{"bad status", func(task *Task) { task.Meta.Status = "paused" }, "invalid status"},
		{"bad confidence", func(task *Task) { task.Meta.Confidence = "certain" }, "invalid confidence"},
		{"bad team", func(task *Task) { task.Meta.Team = "Platform" }, "invalid team"},
		{"empty team is fine", func(task *Task) { task.Meta.Team = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask()
			tt.mutate(&task)
			err := task.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestTask_JSONRoundTrip(t *testing.T) {
	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	original := validTask()
	original.ParentID = "TASK-parent1"
	original.Meta.DueDate = &due

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var decoded Task
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", decoded, original)
	}
}

func TestTask_JSONOmitsEmptyOptionals(t *testing.T) {
	task := validTask()
	task.ParentID = ""
	task.Meta.Priority = 0
	task.Meta.Team = ""
	task.Outcome.Metric = ""
	task.Outcome.ValidationMethod = ""

	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	for _, key := range []string{"parent_id", "priority", "team", "metric", "validation_method", "due_date"} {
		if strings.Contains(string(data), `"`+key+`"`) {
			t.Errorf("JSON should omit empty %q, got %s", key, data)
		}
	}
}

func TestTask_Touch(t *testing.T) {
	task := validTask()
	before := task.Meta.Updated
	task.Touch()
	if task.Meta.Updated.Before(before) {
		t.Errorf("Touch() moved Updated backwards: %v -> %v", before, task.Meta.Updated)
	}
	if task.Meta.Updated.Location() != time.UTC {
		t.Errorf("Touch() Updated location = %v, want UTC", task.Meta.Updated.Location())
	}
}
