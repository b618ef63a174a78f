// Package tui provides the interactive plan browser behind
// scopemate show --tree.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/scopemate/scopemate/pkg/models"
)

// row is one visible line of the task tree.
type row struct {
	task  models.Task
	depth int
}

// Browser is the bubbletea model for walking a task tree: arrow keys
// move, enter expands a task's details, / filters by title, q quits.
type Browser struct {
	tasks    []models.Task
	children map[string][]models.Task
	roots    []models.Task
	rows     []row

	cursor   int
	offset   int
	expanded map[string]bool

	filter    textinput.Model
	filtering bool
	query     string

	width    int
	height   int
	quitting bool

	titleStyle  lipgloss.Style
	cursorStyle lipgloss.Style
	idStyle     lipgloss.Style
	dimStyle    lipgloss.Style
	labelStyle  lipgloss.Style
	helpStyle   lipgloss.Style
}

// NewBrowser creates a Browser over the given tasks. Tasks keep their
// input order; children render beneath their parent.
func NewBrowser(tasks []models.Task) *Browser {
	filter := textinput.New()
	filter.Placeholder = "filter by title"
	filter.Prompt = "/"
	filter.CharLimit = 120

	b := &Browser{
		tasks:    tasks,
		expanded: make(map[string]bool),
		filter:   filter,
		width:    80,
		height:   24,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 2),
		cursorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")). // Yellow
			Bold(true),
		idStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")), // Blue
		dimStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")), // Gray
		labelStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true),
		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
	}

	b.index()
	b.rebuildRows()
	return b
}

func (b *Browser) index() {
	b.roots, b.children = groupByParent(b.tasks)
}

// rebuildRows flattens the tree depth-first, keeping only tasks that
// match the current filter (a task matches when its title or any
// descendant's title contains the query).
func (b *Browser) rebuildRows() {
	b.rows = b.rows[:0]
	for _, root := range b.roots {
		b.appendRows(root, 0)
	}

	if b.cursor >= len(b.rows) {
		b.cursor = len(b.rows) - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
	b.ensureVisible()
}

func (b *Browser) appendRows(task models.Task, depth int) {
	if !b.matches(task) {
		return
	}
	b.rows = append(b.rows, row{task: task, depth: depth})
	for _, child := range b.children[task.ID] {
		b.appendRows(child, depth+1)
	}
}

func (b *Browser) matches(task models.Task) bool {
	if b.query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(task.Title), strings.ToLower(b.query)) {
		return true
	}
	for _, child := range b.children[task.ID] {
		if b.matches(child) {
			return true
		}
	}
	return false
}

// Init implements tea.Model.
func (b *Browser) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if b.filtering {
			return b.updateFilter(msg)
		}

		switch msg.String() {
		case "q", "ctrl+c", "esc":
			b.quitting = true
			return b, tea.Quit

		case "up", "k":
			if b.cursor > 0 {
				b.cursor--
			}
			b.ensureVisible()

		case "down", "j":
			if b.cursor < len(b.rows)-1 {
				b.cursor++
			}
			b.ensureVisible()

		case "home", "g":
			b.cursor = 0
			b.ensureVisible()

		case "end", "G":
			b.cursor = len(b.rows) - 1
			if b.cursor < 0 {
				b.cursor = 0
			}
			b.ensureVisible()

		case "enter", " ":
			if len(b.rows) > 0 {
				id := b.rows[b.cursor].task.ID
				b.expanded[id] = !b.expanded[id]
			}

		case "/":
			b.filtering = true
			return b, b.filter.Focus()
		}

	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.ensureVisible()
	}

	return b, nil
}

// updateFilter routes keys to the filter input while it has focus. The
// row list tracks every keystroke; enter keeps the filter, escape
// clears it.
func (b *Browser) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		b.filtering = false
		b.filter.Blur()
		return b, nil

	case "esc":
		b.filtering = false
		b.filter.Blur()
		b.filter.Reset()
		b.query = ""
		b.rebuildRows()
		return b, nil
	}

	var cmd tea.Cmd
	b.filter, cmd = b.filter.Update(msg)
	b.query = b.filter.Value()
	b.rebuildRows()
	return b, cmd
}

// View implements tea.Model.
func (b *Browser) View() string {
	if b.quitting {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(b.titleStyle.Render(" Plan Browser "))
	sb.WriteString(b.dimStyle.Render(fmt.Sprintf("  %d of %d tasks", len(b.rows), len(b.tasks))))
	sb.WriteString("\n")

	if b.filtering || b.query != "" {
		sb.WriteString(b.filter.View())
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	visible := b.visibleRows()
	start := b.offset
	end := start + visible
	if end > len(b.rows) {
		end = len(b.rows)
	}

	if len(b.rows) == 0 {
		sb.WriteString(b.dimStyle.Render("No tasks match."))
		sb.WriteString("\n")
	}

	for i := start; i < end; i++ {
		sb.WriteString(b.renderRow(i))
	}

	if len(b.rows) > visible {
		sb.WriteString(b.dimStyle.Render(fmt.Sprintf("--- %d-%d of %d ---", start+1, end, len(b.rows))))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(b.helpStyle.Render("(arrows or j/k to move, enter for details, / to filter, q to quit)"))
	return sb.String()
}

func (b *Browser) renderRow(i int) string {
	var sb strings.Builder

	r := b.rows[i]
	task := r.task

	marker := "  "
	if i == b.cursor {
		marker = b.cursorStyle.Render("> ")
	}

	indent := strings.Repeat("  ", r.depth)
	branch := " "
	if len(b.children[task.ID]) > 0 {
		branch = "+"
		if b.expanded[task.ID] {
			branch = "-"
		}
	}

	sb.WriteString(marker)
	sb.WriteString(indent)
	sb.WriteString(branch)
	sb.WriteString(" ")
	sb.WriteString(b.idStyle.Render(task.ID))
	sb.WriteString(" ")
	sb.WriteString(task.Title)
	sb.WriteString(b.dimStyle.Render(fmt.Sprintf("  (%s, %s)", task.Scope.Size, task.Scope.TimeEstimate)))
	sb.WriteString("\n")

	if b.expanded[task.ID] {
		sb.WriteString(b.renderDetails(task, indent))
	}
	return sb.String()
}

func (b *Browser) renderDetails(task models.Task, indent string) string {
	var sb strings.Builder

	pad := indent + "      "
	write := func(label, value string) {
		if value == "" {
			return
		}
		sb.WriteString(pad)
		sb.WriteString(b.labelStyle.Render(label + ": "))
		sb.WriteString(value)
		sb.WriteString("\n")
	}

	write("Purpose", task.Purpose.DetailedDescription)
	write("Outcome", task.Outcome.DetailedOutcomeDefinition)
	if len(task.Scope.Dependencies) > 0 {
		write("Dependencies", strings.Join(task.Scope.Dependencies, ", "))
	}
	if len(task.Scope.Risks) > 0 {
		write("Risks", strings.Join(task.Scope.Risks, ", "))
	}

	status := fmt.Sprintf("%s (%s confidence)", task.Meta.Status, task.Meta.Confidence)
	if task.Meta.Team != "" {
		status += ", " + string(task.Meta.Team)
	}
	write("Status", status)

	return sb.String()
}

// visibleRows is how many tree rows fit between header and footer.
func (b *Browser) visibleRows() int {
	visible := b.height - 6
	if visible < 5 {
		visible = 5
	}
	return visible
}

// ensureVisible scrolls the window so the cursor stays on screen.
func (b *Browser) ensureVisible() {
	visible := b.visibleRows()
	if b.cursor < b.offset {
		b.offset = b.cursor
	}
	if b.cursor >= b.offset+visible {
		b.offset = b.cursor - visible + 1
	}
	if b.offset < 0 {
		b.offset = 0
	}
}

// Run opens the browser in the alternate screen and blocks until the
// user quits.
func Run(tasks []models.Task) error {
	p := tea.NewProgram(NewBrowser(tasks), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("plan browser: %w", err)
	}
	return nil
}
