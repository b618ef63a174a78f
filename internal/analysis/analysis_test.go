package analysis

import (
	"reflect"
	"testing"

	"github.com/scopemate/scopemate/pkg/models"
)

// makeTask builds a minimal valid task for tree tests.
func makeTask(id, parentID string, size models.Size, estimate models.TimeEstimate) models.Task {
	task := models.NewTask("Task " + id)
	task.ID = id
	task.ParentID = parentID
	task.Scope.Size = size
	task.Scope.TimeEstimate = estimate
	return task
}

func taskByID(t *testing.T, tasks []models.Task, id string) models.Task {
	t.Helper()
	for _, task := range tasks {
		if task.ID == id {
			return task
		}
	}
	t.Fatalf("task %s not found", id)
	return models.Task{}
}

func TestReconcileEstimates_RaisesParent(t *testing.T) {
	tasks := []models.Task{
		makeTask("TASK-parent", "", models.SizeStraightforward, models.TimeDays),
		makeTask("TASK-child", "TASK-parent", models.SizeComplex, models.TimeSprint),
	}

	adjusted, changes := ReconcileEstimates(tasks, 0)

	parent := taskByID(t, adjusted, "TASK-parent")
	if parent.Scope.Size != models.SizeComplex {
		t.Errorf("parent size = %q, want %q", parent.Scope.Size, models.SizeComplex)
	}
	if parent.Scope.TimeEstimate != models.TimeSprint {
		t.Errorf("parent time = %q, want %q", parent.Scope.TimeEstimate, models.TimeSprint)
	}
	if changes != 2 {
		t.Errorf("changes = %d, want 2", changes)
	}
}

func TestReconcileEstimates_PropagatesToGrandparent(t *testing.T) {
	tasks := []models.Task{
		makeTask("TASK-grandparent", "", models.SizeTrivial, models.TimeHours),
		makeTask("TASK-parent", "TASK-grandparent", models.SizeTrivial, models.TimeHours),
		makeTask("TASK-grandchild", "TASK-parent", models.SizePioneering, models.TimeMultiSprint),
	}

	adjusted, _ := ReconcileEstimates(tasks, 0)

	for _, id := range []string{"TASK-parent", "TASK-grandparent"} {
		task := taskByID(t, adjusted, id)
		if task.Scope.Size != models.SizePioneering {
			t.Errorf("%s size = %q, want %q", id, task.Scope.Size, models.SizePioneering)
		}
		if task.Scope.TimeEstimate != models.TimeMultiSprint {
			t.Errorf("%s time = %q, want %q", id, task.Scope.TimeEstimate, models.TimeMultiSprint)
		}
	}
}

func TestReconcileEstimates_NoParentBelowChild(t *testing.T) {
	tasks := []models.Task{
		makeTask("TASK-root", "", models.SizeTrivial, models.TimeHours),
		makeTask("TASK-a", "TASK-root", models.SizeComplex, models.TimeWeek),
		makeTask("TASK-b", "TASK-root", models.SizeStraightforward, models.TimeSprint),
		makeTask("TASK-a1", "TASK-a", models.SizeUncertain, models.TimeDays),
		makeTask("TASK-b1", "TASK-b", models.SizeTrivial, models.TimeMultiSprint),
	}

	adjusted, _ := ReconcileEstimates(tasks, 0)

	index := make(map[string]models.Task)
	for _, task := range adjusted {
		index[task.ID] = task
	}
	for _, task := range adjusted {
		if task.ParentID == "" {
			continue
		}
		parent := index[task.ParentID]
		if parent.Scope.TimeEstimate.Rank() < task.Scope.TimeEstimate.Rank() {
			t.Errorf("parent %s time %q ranks below child %s time %q",
				parent.ID, parent.Scope.TimeEstimate, task.ID, task.Scope.TimeEstimate)
		}
		if parent.Scope.Size.Rank() < task.Scope.Size.Rank() {
			t.Errorf("parent %s size %q ranks below child %s size %q",
				parent.ID, parent.Scope.Size, task.ID, task.Scope.Size)
		}
	}
}

func TestReconcileEstimates_IdempotentOnceConsistent(t *testing.T) {
	tasks := []models.Task{
		makeTask("TASK-root", "", models.SizeTrivial, models.TimeHours),
		makeTask("TASK-mid", "TASK-root", models.SizeComplex, models.TimeSprint),
		makeTask("TASK-leaf", "TASK-mid", models.SizePioneering, models.TimeMultiSprint),
	}

	first, _ := ReconcileEstimates(tasks, 0)
	second, changes := ReconcileEstimates(first, 0)

	if changes != 0 {
		t.Errorf("second run changes = %d, want 0", changes)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second run altered a consistent tree:\n got %+v\nwant %+v", second, first)
	}
}

func TestReconcileEstimates_ConsistentTreeUntouched(t *testing.T) {
	tasks := []models.Task{
		makeTask("TASK-root", "", models.SizePioneering, models.TimeMultiSprint),
		makeTask("TASK-child", "TASK-root", models.SizeTrivial, models.TimeHours),
	}

	adjusted, changes := ReconcileEstimates(tasks, 0)

	if changes != 0 {
		t.Errorf("changes = %d, want 0", changes)
	}
	if !reflect.DeepEqual(tasks, adjusted) {
		t.Error("consistent tree should come back unchanged")
	}
}

func TestReconcileEstimates_MissingParentIgnored(t *testing.T) {
	tasks := []models.Task{
		makeTask("TASK-orphan", "TASK-gone", models.SizePioneering, models.TimeMultiSprint),
	}

	adjusted, changes := ReconcileEstimates(tasks, 0)
	if changes != 0 {
		t.Errorf("changes = %d, want 0", changes)
	}
	if len(adjusted) != 1 {
		t.Fatalf("len(adjusted) = %d, want 1", len(adjusted))
	}
}

func TestIsLeafTask(t *testing.T) {
	tasks := []models.Task{
		makeTask("TASK-parent", "", models.SizeComplex, models.TimeSprint),
		makeTask("TASK-child", "TASK-parent", models.SizeTrivial, models.TimeHours),
		makeTask("TASK-standalone", "", models.SizeComplex, models.TimeSprint),
	}

	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"task with children is not a leaf", "TASK-parent", false},
		{"childless task is a leaf", "TASK-child", true},
		{"standalone task is a leaf", "TASK-standalone", true},
		{"unknown id is a leaf", "TASK-nonexistent", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLeafTask(tt.id, tasks); got != tt.want {
				t.Errorf("IsLeafTask(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestTaskDepth(t *testing.T) {
	root := makeTask("TASK-root", "", models.SizeComplex, models.TimeSprint)
	child := makeTask("TASK-child", "TASK-root", models.SizeTrivial, models.TimeHours)
	grandchild := makeTask("TASK-grandchild", "TASK-child", models.SizeTrivial, models.TimeHours)
	orphan := makeTask("TASK-orphan", "TASK-gone", models.SizeTrivial, models.TimeHours)

	taskMap := map[string]models.Task{
		root.ID:       root,
		child.ID:      child,
		grandchild.ID: grandchild,
		orphan.ID:     orphan,
	}
	depthMap := make(map[string]int)

	tests := []struct {
		task models.Task
		want int
	}{
		{root, 0},
		{child, 1},
		{grandchild, 2},
		{orphan, 1},
	}

	for _, tt := range tests {
		t.Run(tt.task.ID, func(t *testing.T) {
			if got := TaskDepth(tt.task, depthMap, taskMap); got != tt.want {
				t.Errorf("TaskDepth(%s) = %d, want %d", tt.task.ID, got, tt.want)
			}
		})
	}

	// Memoized results are reused
	if got := TaskDepth(grandchild, depthMap, map[string]models.Task{}); got != 2 {
		t.Errorf("memoized TaskDepth = %d, want 2", got)
	}
}

func TestFindLongDurationLeafTasks(t *testing.T) {
	tasks := []models.Task{
		makeTask("TASK-parent", "", models.SizeComplex, models.TimeSprint),
		makeTask("TASK-child", "TASK-parent", models.SizeTrivial, models.TimeHours),
		makeTask("TASK-standalone", "", models.SizeComplex, models.TimeSprint),
		makeTask("TASK-long", "", models.SizeStraightforward, models.TimeMultiSprint),
	}

	long := FindLongDurationLeafTasks(tasks)

	if len(long) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(long), long)
	}
	ids := map[string]bool{}
	for _, task := range long {
		ids[task.ID] = true
	}
	if !ids["TASK-standalone"] || !ids["TASK-long"] {
		t.Errorf("expected TASK-standalone and TASK-long, got %v", ids)
	}
	if ids["TASK-parent"] {
		t.Error("TASK-parent has children and should not be returned")
	}
}

func TestShouldDecompose(t *testing.T) {
	complexSprint := makeTask("TASK-a", "", models.SizeComplex, models.TimeSprint)
	simpleShort := makeTask("TASK-b", "", models.SizeTrivial, models.TimeHours)
	simpleLong := makeTask("TASK-c", "", models.SizeStraightforward, models.TimeMultiSprint)
	hardShort := makeTask("TASK-d", "", models.SizePioneering, models.TimeHours)

	tests := []struct {
		name     string
		task     models.Task
		depth    int
		maxDepth int
		isLeaf   bool
		want     bool
	}{
		{"complex sprint leaf decomposes", complexSprint, 0, 3, true, true},
		{"non-leaf never decomposes", complexSprint, 0, 3, false, false},
		{"trivial hours leaf does not", simpleShort, 0, 3, true, false},
		{"at max depth never decomposes", complexSprint, 3, 3, true, false},
		{"beyond max depth never decomposes", complexSprint, 4, 3, true, false},
		{"long duration alone is enough", simpleLong, 0, 3, true, true},
		{"hard size alone is enough", hardShort, 0, 3, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldDecompose(tt.task, tt.depth, tt.maxDepth, tt.isLeaf); got != tt.want {
				t.Errorf("ShouldDecompose() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecompositionCandidates(t *testing.T) {
	tasks := []models.Task{
		makeTask("TASK-parent", "", models.SizeComplex, models.TimeSprint),
		makeTask("TASK-child", "TASK-parent", models.SizeComplex, models.TimeSprint),
		makeTask("TASK-leafy", "", models.SizeTrivial, models.TimeHours),
	}

	candidates := DecompositionCandidates(tasks, 5)

	if len(candidates) != 1 {
		t.Fatalf("len = %d, want 1: %v", len(candidates), candidates)
	}
	if candidates[0].ID != "TASK-child" {
		t.Errorf("candidate = %s, want TASK-child", candidates[0].ID)
	}
}

func TestDecompositionCandidates_DepthLimit(t *testing.T) {
	tasks := []models.Task{
		makeTask("TASK-root", "", models.SizeComplex, models.TimeSprint),
		makeTask("TASK-mid", "TASK-root", models.SizeComplex, models.TimeSprint),
		makeTask("TASK-deep", "TASK-mid", models.SizeComplex, models.TimeSprint),
	}

	candidates := DecompositionCandidates(tasks, 2)

	// TASK-deep sits at depth 2, which is the limit; nothing qualifies
	// above it because the others have children.
	if len(candidates) != 0 {
		t.Errorf("len = %d, want 0: %v", len(candidates), candidates)
	}
}
