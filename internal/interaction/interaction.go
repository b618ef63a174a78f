// Package interaction handles terminal prompts for the guided planning flow.
package interaction

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/scopemate/scopemate/pkg/models"
)

// Prompter reads answers line by line from a single input stream and writes
// questions to out. All reads go through one buffered reader so scripted
// input in tests behaves like a terminal session.
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

// New creates a Prompter reading from in and writing to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Out returns the writer prompts are rendered to.
func (p *Prompter) Out() io.Writer {
	return p.out
}

// Ask prints the question and returns the trimmed answer line.
func (p *Prompter) Ask(question string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", question)
	return p.readLine()
}

// AskRequired keeps asking until the user provides a non-empty answer.
func (p *Prompter) AskRequired(question string) (string, error) {
	for {
		answer, err := p.Ask(question)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		fmt.Fprintln(p.out, "A value is required.")
	}
}

// AskWithDefault prints the question with a default and returns the answer,
// falling back to the default when the user just presses enter.
func (p *Prompter) AskWithDefault(question, def string) (string, error) {
	fmt.Fprintf(p.out, "%s [%s]: ", question, def)
	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Choose keeps asking until the answer matches one of choices
// (case-insensitive). The matched choice is returned in its canonical form.
func (p *Prompter) Choose(question string, choices []string) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s (%s): ", question, strings.Join(choices, "/"))
		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		for _, choice := range choices {
			if strings.EqualFold(answer, choice) {
				return choice, nil
			}
		}
		fmt.Fprintf(p.out, "Invalid choice. Please enter one of: %s\n", strings.Join(choices, ", "))
	}
}

// Confirm asks a yes/no question. An empty answer takes the default.
func (p *Prompter) Confirm(question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		fmt.Fprintf(p.out, "%s [%s]: ", question, hint)
		answer, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer y or n.")
	}
}

// Header prints a section separator with a title.
func (p *Prompter) Header(title string) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, strings.Repeat("=", 60))
	fmt.Fprintln(p.out, title)
	fmt.Fprintln(p.out, strings.Repeat("=", 60))
}

// readLine reads one line, tolerating a final line without a trailing
// newline. A bare EOF with no input is an error so callers can abort
// cleanly when the input stream ends.
func (p *Prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	trimmed := strings.TrimSpace(line)
	if err != nil && trimmed == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return trimmed, nil
}

// BuildCustomSubtask walks the user through defining their own child task
// under parent. Estimates start at the parent's simpler defaults and the
// child inherits the parent's urgency, alignment, outcome type, and team.
func (p *Prompter) BuildCustomSubtask(parent models.Task) (models.Task, error) {
	p.Header("Add your own subtask")

	title, err := p.AskRequired("Subtask title")
	if err != nil {
		return models.Task{}, err
	}

	task := models.NewTask(ConciseTitle(parent.Title, title))
	task.ParentID = parent.ID

	description, err := p.AskWithDefault("What does this subtask cover?", "Subtask for: "+parent.Title)
	if err != nil {
		return models.Task{}, err
	}
	task.Purpose.DetailedDescription = description
	task.Purpose.Urgency = parent.Purpose.Urgency
	task.Purpose.Alignment = append([]string(nil), parent.Purpose.Alignment...)

	task.Scope.Size = parent.Scope.Size.Simpler()
	task.Scope.TimeEstimate = parent.Scope.TimeEstimate.Simpler()

	outcome, err := p.AskWithDefault("What does done look like?", "Outcome for: "+task.Title)
	if err != nil {
		return models.Task{}, err
	}
	task.Outcome.Type = parent.Outcome.Type
	task.Outcome.DetailedOutcomeDefinition = outcome
	task.Meta.Team = parent.Meta.Team

	return task, nil
}

// ConciseTitle trims a redundant parent title from a subtask title. When the
// parent title appears inside the raw title (case-insensitive), the text
// after the match is returned as long as something non-empty is left.
func ConciseTitle(parentTitle, rawTitle string) string {
	if parentTitle == "" || rawTitle == "" {
		return rawTitle
	}
	idx := strings.Index(strings.ToLower(rawTitle), strings.ToLower(parentTitle))
	if idx < 0 {
		return rawTitle
	}
	rest := strings.TrimSpace(rawTitle[idx+len(parentTitle):])
	if rest == "" {
		return rawTitle
	}
	return rest
}

// PrintStatus writes an icon and message, coloring only the icon.
func PrintStatus(w io.Writer, symbol, message string, attr color.Attribute) {
	c := color.New(attr)
	fmt.Fprintf(w, "%s %s\n", c.Sprint(symbol), message)
}

// Successf prints a green check line.
func Successf(w io.Writer, format string, args ...any) {
	PrintStatus(w, "✓", fmt.Sprintf(format, args...), color.FgGreen)
}

// Warnf prints a yellow warning line.
func Warnf(w io.Writer, format string, args ...any) {
	PrintStatus(w, "⚠", fmt.Sprintf(format, args...), color.FgYellow)
}

// Failf prints a red failure line.
func Failf(w io.Writer, format string, args ...any) {
	PrintStatus(w, "✗", fmt.Sprintf(format, args...), color.FgRed)
}
