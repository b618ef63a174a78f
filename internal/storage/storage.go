// Package storage persists plans to JSON with a Markdown mirror, and
// manages the session checkpoint file.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/scopemate/scopemate/pkg/models"
)

// CheckpointFile is the default checkpoint path in the working directory.
const CheckpointFile = ".scopemate_checkpoint.json"

// ErrNoPlan is returned when the requested plan file does not exist.
var ErrNoPlan = errors.New("plan file not found")

// payload is the on-disk plan shape: a single top-level tasks array.
type payload struct {
	Tasks []models.Task `json:"tasks"`
}

// SavePlan writes tasks as indented JSON to filename and mirrors the plan
// to a Markdown file alongside it.
func SavePlan(w io.Writer, tasks []models.Task, filename string) error {
	if err := writeTasks(tasks, filename); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	fmt.Fprintf(w, "✅ Plan saved to %s.\n", filename)

	mdPath := MarkdownPath(filename)
	if err := SaveMarkdownPlan(tasks, mdPath); err != nil {
		return fmt.Errorf("save markdown plan: %w", err)
	}
	fmt.Fprintf(w, "✅ Markdown plan saved to %s.\n", mdPath)
	return nil
}

// LoadPlan reads tasks back from a plan file. Tasks that fail validation
// are skipped with a warning instead of failing the whole load. Legacy
// fields from older files (scope-level owner and team) are dropped and a
// missing parent_id is treated as a root task.
func LoadPlan(w io.Writer, filename string) ([]models.Task, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoPlan, filename)
		}
		return nil, fmt.Errorf("read plan: %w", err)
	}

	var doc struct {
		Tasks []json.RawMessage `json:"tasks"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", filename, err)
	}

	tasks := make([]models.Task, 0, len(doc.Tasks))
	for _, raw := range doc.Tasks {
		task, err := decodeTask(raw)
		if err != nil {
			fmt.Fprintf(w, "[Warning] Skipping invalid task: %v\n", err)
			continue
		}
		tasks = append(tasks, task)
	}

	fmt.Fprintf(w, "✅ Loaded %d tasks from %s.\n", len(tasks), filename)
	return tasks, nil
}

// SaveCheckpoint writes tasks to a checkpoint file for later resumption.
func SaveCheckpoint(w io.Writer, tasks []models.Task, filename string) error {
	if err := writeTasks(tasks, filename); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	fmt.Fprintf(w, "[Checkpoint saved to %s]\n", filename)
	return nil
}

// CheckpointExists reports whether a checkpoint file is present.
func CheckpointExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// DeleteCheckpoint removes the checkpoint file if it exists.
func DeleteCheckpoint(w io.Writer, filename string) error {
	if !CheckpointExists(filename) {
		return nil
	}
	if err := os.Remove(filename); err != nil {
		return fmt.Errorf("delete checkpoint: %w", err)
	}
	fmt.Fprintf(w, "Checkpoint file %s deleted.\n", filename)
	return nil
}

// MarkdownPath converts a plan filename to its Markdown counterpart.
func MarkdownPath(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ".md"
}

func writeTasks(tasks []models.Task, filename string) error {
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.MarshalIndent(payload{Tasks: tasks}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}

// decodeTask unmarshals and validates one task entry. Unknown fields such
// as the legacy scope-level owner and team are ignored by the decoder, and
// list fields omitted by older files are normalized to empty slices.
func decodeTask(raw json.RawMessage) (models.Task, error) {
	var task models.Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return models.Task{}, err
	}
	if task.Purpose.Alignment == nil {
		task.Purpose.Alignment = []string{}
	}
	if task.Scope.Dependencies == nil {
		task.Scope.Dependencies = []string{}
	}
	if task.Scope.Risks == nil {
		task.Scope.Risks = []string{}
	}
	if task.Outcome.AcceptanceCriteria == nil {
		task.Outcome.AcceptanceCriteria = []string{}
	}
	if err := task.Validate(); err != nil {
		return models.Task{}, err
	}
	return task, nil
}
