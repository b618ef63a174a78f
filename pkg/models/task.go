// Package models defines the task data model shared across scopemate.
package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTitleLength is the longest title accepted by validation.
const MaxTitleLength = 120

// Purpose captures why a task exists.
type Purpose struct {
	// DetailedDescription explains what the task is for.
	DetailedDescription string `json:"detailed_description"`
	// Alignment lists the strategic goals this task supports.
	Alignment []string `json:"alignment"`
	// Urgency classifies how pressing the task is.
	Urgency Urgency `json:"urgency"`
}

// Scope captures how big a task is and what stands in its way.
type Scope struct {
	// Size classifies implementation complexity.
	Size Size `json:"size"`
	// TimeEstimate classifies expected duration.
	TimeEstimate TimeEstimate `json:"time_estimate"`
	// Dependencies lists external prerequisites.
	Dependencies []string `json:"dependencies"`
	// Risks lists potential blockers or challenges.
	Risks []string `json:"risks"`
}

// Outcome captures what done looks like.
type Outcome struct {
	// Type classifies the kind of result the task produces.
	Type OutcomeType `json:"type"`
	// DetailedOutcomeDefinition describes the expected end state.
	DetailedOutcomeDefinition string `json:"detailed_outcome_definition"`
	// AcceptanceCriteria lists conditions that must hold for the task to be done.
	AcceptanceCriteria []string `json:"acceptance_criteria"`
	// Metric is an optional success measurement.
	Metric string `json:"metric,omitempty"`
	// ValidationMethod is an optional way to verify the metric.
	ValidationMethod string `json:"validation_method,omitempty"`
}

// Meta carries bookkeeping fields for a task.
type Meta struct {
	// Status is the current lifecycle state.
	Status Status `json:"status"`
	// Priority is an optional ordering hint; zero means unset.
	Priority int `json:"priority,omitempty"`
	// Created is when the task was first defined, in UTC.
	Created time.Time `json:"created"`
	// Updated is when the task last changed, in UTC.
	Updated time.Time `json:"updated"`
	// DueDate is an optional deadline.
	DueDate *time.Time `json:"due_date,omitempty"`
	// Confidence is how sure we are about the estimates.
	Confidence Confidence `json:"confidence"`
	// Team is the group expected to do the work; empty means unassigned.
	Team Team `json:"team,omitempty"`
}

// Task is a node in the planning hierarchy. Tasks form a tree through
// ParentID; roots have an empty ParentID.
type Task struct {
	// ID uniquely identifies the task, e.g. "TASK-1a2b3c4d".
	ID string `json:"id"`
	// Title is a short human-readable name.
	Title string `json:"title"`
	// ParentID references the parent task; empty for root tasks.
	ParentID string `json:"parent_id,omitempty"`
	// Purpose explains why the task exists.
	Purpose Purpose `json:"purpose"`
	// Scope sizes the task and records dependencies and risks.
	Scope Scope `json:"scope"`
	// Outcome defines what completion means.
	Outcome Outcome `json:"outcome"`
	// Meta holds status, timestamps, and assignment.
	Meta Meta `json:"meta"`
}

// NewTaskID mints a task identifier of the form TASK-xxxxxxxx.
func NewTaskID() string {
	return "TASK-" + uuid.New().String()[:8]
}

// UTCNow returns the current time in UTC at second precision.
func UTCNow() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// NewTask builds a task with freshly minted ID, backlog status, and
// medium confidence. Callers fill in the rest.
func NewTask(title string) Task {
	now := UTCNow()
	return Task{
		ID:    NewTaskID(),
		Title: title,
		Purpose: Purpose{
			Alignment: []string{},
			Urgency:   UrgencyStrategic,
		},
		Scope: Scope{
			Size:         SizeUncertain,
			TimeEstimate: TimeSprint,
			Dependencies: []string{},
			Risks:        []string{},
		},
		Outcome: Outcome{
			Type:               OutcomeCustomerFacing,
			AcceptanceCriteria: []string{},
		},
		Meta: Meta{
			Status:     StatusBacklog,
			Created:    now,
			Updated:    now,
			Confidence: ConfidenceMedium,
		},
	}
}

// Touch bumps the updated timestamp.
func (t *Task) Touch() {
	t.Meta.Updated = UTCNow()
}

// Validate checks that the task's fields hold values the rest of the
// system can rely on.
func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("task has no id")
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task %s has an empty title", t.ID)
	}
	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		return fmt.Errorf("task %s title exceeds %d characters", t.ID, MaxTitleLength)
	}
	if !t.Purpose.Urgency.Valid() {
		return fmt.Errorf("task %s has invalid urgency %q", t.ID, t.Purpose.Urgency)
	}
	if !t.Scope.Size.Valid() {
		return fmt.Errorf("task %s has invalid size %q", t.ID, t.Scope.Size)
	}
	if !t.Scope.TimeEstimate.Valid() {
		return fmt.Errorf("task %s has invalid time estimate %q", t.ID, t.Scope.TimeEstimate)
	}
	if !t.Outcome.Type.Valid() {
		return fmt.Errorf("task %s has invalid outcome type %q", t.ID, t.Outcome.Type)
	}
	if !t.Meta.Status.Valid() {
		return fmt.Errorf("task %s has invalid status %q", t.ID, t.Meta.Status)
	}
	if !t.Meta.Confidence.Valid() {
		return fmt.Errorf("task %s has invalid confidence %q", t.ID, t.Meta.Confidence)
	}
	if t.Meta.Team != "" && !t.Meta.Team.Valid() {
		return fmt.Errorf("task %s has invalid team %q", t.ID, t.Meta.Team)
	}
	return nil
}
