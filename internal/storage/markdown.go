package storage

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/scopemate/scopemate/internal/analysis"
	"github.com/scopemate/scopemate/pkg/models"
)

// GenerateMarkdown renders the plan as a Markdown document with one section
// per task. Heading depth follows the task hierarchy, capped at h6.
func GenerateMarkdown(tasks []models.Task) string {
	var b strings.Builder

	b.WriteString("# Project Scope Plan\n\n")
	fmt.Fprintf(&b, "Generated on: %s UTC\n\n", time.Now().UTC().Format("2006-01-02 15:04:05"))
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "This document contains **%d** tasks.\n\n", len(tasks))
	b.WriteString("## Task Details\n")

	taskMap := make(map[string]models.Task, len(tasks))
	for _, task := range tasks {
		taskMap[task.ID] = task
	}
	depthMap := make(map[string]int, len(tasks))

	for _, task := range tasks {
		writeTaskSection(&b, task, analysis.TaskDepth(task, depthMap, taskMap))
	}

	return b.String()
}

// SaveMarkdownPlan writes the Markdown rendering of tasks to filename.
func SaveMarkdownPlan(tasks []models.Task, filename string) error {
	if err := os.WriteFile(filename, []byte(GenerateMarkdown(tasks)), 0644); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}

func writeTaskSection(b *strings.Builder, task models.Task, depth int) {
	level := 3 + depth
	if level > 6 {
		level = 6
	}
	fmt.Fprintf(b, "\n%s %s: %s\n\n", strings.Repeat("#", level), task.ID, task.Title)

	b.WriteString("**Purpose:**\n\n")
	fmt.Fprintf(b, "%s\n\n", task.Purpose.DetailedDescription)
	fmt.Fprintf(b, "*Urgency:* %s\n", titleCase(string(task.Purpose.Urgency)))
	if len(task.Purpose.Alignment) > 0 {
		fmt.Fprintf(b, "*Alignment:* %s\n", strings.Join(task.Purpose.Alignment, ", "))
	}

	b.WriteString("\n**Scope:**\n\n")
	fmt.Fprintf(b, "*Size:* %s\n", titleCase(string(task.Scope.Size)))
	fmt.Fprintf(b, "*Time Estimate:* %s\n", titleCase(string(task.Scope.TimeEstimate)))
	if len(task.Scope.Dependencies) > 0 {
		fmt.Fprintf(b, "*Dependencies:* %s\n", strings.Join(task.Scope.Dependencies, ", "))
	}
	if len(task.Scope.Risks) > 0 {
		b.WriteString("*Risks:*\n")
		for _, risk := range task.Scope.Risks {
			fmt.Fprintf(b, "- %s\n", risk)
		}
	}

	b.WriteString("\n**Outcome:**\n\n")
	fmt.Fprintf(b, "%s\n\n", task.Outcome.DetailedOutcomeDefinition)
	fmt.Fprintf(b, "*Type:* %s\n", titleCase(string(task.Outcome.Type)))
	if len(task.Outcome.AcceptanceCriteria) > 0 {
		b.WriteString("*Acceptance Criteria:*\n")
		for _, criterion := range task.Outcome.AcceptanceCriteria {
			fmt.Fprintf(b, "- %s\n", criterion)
		}
	}
	if task.Outcome.Metric != "" {
		fmt.Fprintf(b, "*Metric:* %s\n", task.Outcome.Metric)
	}
	if task.Outcome.ValidationMethod != "" {
		fmt.Fprintf(b, "*Validation Method:* %s\n", task.Outcome.ValidationMethod)
	}

	b.WriteString("\n**Meta:**\n\n")
	fmt.Fprintf(b, "*Status:* %s\n", titleCase(string(task.Meta.Status)))
	if task.Meta.Priority != 0 {
		fmt.Fprintf(b, "*Priority:* %d\n", task.Meta.Priority)
	}
	fmt.Fprintf(b, "*Confidence:* %s\n", titleCase(string(task.Meta.Confidence)))
	if task.Meta.Team != "" {
		fmt.Fprintf(b, "*Team:* %s\n", task.Meta.Team)
	}
	if task.Meta.DueDate != nil {
		fmt.Fprintf(b, "*Due:* %s\n", task.Meta.DueDate.Format("2006-01-02"))
	}
}

// titleCase uppercases the first letter, matching the document style for
// enum values like "complex" -> "Complex".
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
