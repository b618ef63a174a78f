package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/scopemate/scopemate/pkg/models"
)

// Status icons for the plan tree.
const (
	iconBacklog    = "[○]"
	iconDiscovery  = "[?]"
	iconInProgress = "[●]"
	iconReview     = "[◐]"
	iconDone       = "[✓]"
	iconArchived   = "[-]"
)

// planRenderer draws the static tree behind scopemate show.
type planRenderer struct {
	children map[string][]models.Task
	sb       strings.Builder

	titleStyle  lipgloss.Style
	idStyle     lipgloss.Style
	dimStyle    lipgloss.Style
	doneStyle   lipgloss.Style
	activeStyle lipgloss.Style
}

// Render returns a styled, non-interactive tree of the plan.
func Render(tasks []models.Task) string {
	roots, children := groupByParent(tasks)

	r := &planRenderer{
		children: children,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 2),
		idStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")), // Blue
		dimStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")), // Gray
		doneStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")), // Green
		activeStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")), // Yellow
	}

	r.sb.WriteString(r.titleStyle.Render(" Project Plan "))
	r.sb.WriteString(r.dimStyle.Render(fmt.Sprintf("  %d tasks", len(tasks))))
	r.sb.WriteString("\n\n")

	if len(tasks) == 0 {
		r.sb.WriteString(r.dimStyle.Render("The plan is empty."))
		r.sb.WriteString("\n")
		return r.sb.String()
	}

	for _, root := range roots {
		r.writeTask(root, 0)
	}
	return r.sb.String()
}

func (r *planRenderer) writeTask(task models.Task, depth int) {
	indent := strings.Repeat("  ", depth)
	prefix := ""
	if depth > 0 {
		prefix = r.dimStyle.Render("|-- ")
	}

	line := fmt.Sprintf("%s%s%s %s %s", indent, prefix,
		r.statusIcon(task.Meta.Status),
		r.idStyle.Render(task.ID),
		truncate(task.Title, 60))
	line += r.dimStyle.Render(fmt.Sprintf("  (%s, %s)", task.Scope.Size, task.Scope.TimeEstimate))
	if task.Meta.Team != "" {
		line += r.dimStyle.Render(fmt.Sprintf(" [%s]", task.Meta.Team))
	}

	r.sb.WriteString(line)
	r.sb.WriteString("\n")

	for _, child := range r.children[task.ID] {
		r.writeTask(child, depth+1)
	}
}

// statusIcon returns the styled lifecycle icon for a task.
func (r *planRenderer) statusIcon(status models.Status) string {
	switch status {
	case models.StatusDone:
		return r.doneStyle.Render(iconDone)
	case models.StatusInProgress:
		return r.activeStyle.Render(iconInProgress)
	case models.StatusReview:
		return r.activeStyle.Render(iconReview)
	case models.StatusDiscovery:
		return r.dimStyle.Render(iconDiscovery)
	case models.StatusArchived:
		return r.dimStyle.Render(iconArchived)
	default:
		return r.dimStyle.Render(iconBacklog)
	}
}

// groupByParent splits tasks into roots and a children index. Tasks
// whose parent is missing from the list count as roots so orphans stay
// visible.
func groupByParent(tasks []models.Task) ([]models.Task, map[string][]models.Task) {
	ids := make(map[string]bool, len(tasks))
	for _, task := range tasks {
		ids[task.ID] = true
	}

	children := make(map[string][]models.Task)
	var roots []models.Task
	for _, task := range tasks {
		if task.ParentID != "" && ids[task.ParentID] {
			children[task.ParentID] = append(children[task.ParentID], task)
			continue
		}
		roots = append(roots, task)
	}
	return roots, children
}

// truncate shortens s to maxLen runes, ellipsizing when it cuts.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
