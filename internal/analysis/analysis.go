// Package analysis implements the pure tree logic over task lists:
// estimate reconciliation between parents and children, depth
// calculation, and decomposition candidate selection. Nothing in this
// package talks to an LLM or touches disk.
package analysis

import (
	"github.com/scopemate/scopemate/pkg/models"
)

// DefaultReconciliationPasses caps the fixed-point iteration when the
// caller does not supply a limit.
const DefaultReconciliationPasses = 10

// ReconcileEstimates walks the task tree and raises every parent whose
// size or time estimate ranks below the coarsest of its children, so the
// invariant "no parent is smaller than any child" holds for both scales.
// Raising a parent can expose an inconsistency one level up, so passes
// repeat until a full pass makes no change or maxPasses is reached.
// Returns the adjusted list and the number of estimates raised. Running
// it on an already-consistent tree changes nothing.
func ReconcileEstimates(tasks []models.Task, maxPasses int) ([]models.Task, int) {
	if maxPasses <= 0 {
		maxPasses = DefaultReconciliationPasses
	}

	adjusted := make([]models.Task, len(tasks))
	copy(adjusted, tasks)

	index := make(map[string]int, len(adjusted))
	for i, task := range adjusted {
		index[task.ID] = i
	}

	total := 0
	for pass := 0; pass < maxPasses; pass++ {
		changed := false

		for _, child := range adjusted {
			if child.ParentID == "" {
				continue
			}
			pi, ok := index[child.ParentID]
			if !ok {
				continue
			}
			parent := &adjusted[pi]

			if child.Scope.TimeEstimate.Rank() > parent.Scope.TimeEstimate.Rank() {
				parent.Scope.TimeEstimate = child.Scope.TimeEstimate
				parent.Touch()
				changed = true
				total++
			}
			if child.Scope.Size.Rank() > parent.Scope.Size.Rank() {
				parent.Scope.Size = child.Scope.Size
				parent.Touch()
				changed = true
				total++
			}
		}

		if !changed {
			break
		}
	}

	return adjusted, total
}

// IsLeafTask reports whether no task in the list claims the given id as
// its parent. Unknown ids are leaves by definition.
func IsLeafTask(id string, tasks []models.Task) bool {
	for _, task := range tasks {
		if task.ParentID == id {
			return false
		}
	}
	return true
}

// TaskDepth returns how many parent hops separate the task from its
// root: roots are depth 0. Results are memoized in depthMap. A parent id
// that is missing from taskMap ends the walk, so orphans count the
// dangling hop but no further.
func TaskDepth(task models.Task, depthMap map[string]int, taskMap map[string]models.Task) int {
	if d, ok := depthMap[task.ID]; ok {
		return d
	}

	depth := 0
	current := task
	for current.ParentID != "" {
		depth++
		parent, ok := taskMap[current.ParentID]
		if !ok {
			break
		}
		current = parent
	}

	depthMap[task.ID] = depth
	return depth
}

// FindLongDurationLeafTasks returns leaf tasks whose estimate is sprint
// length or longer. These are the prime candidates for another breakdown
// round.
func FindLongDurationLeafTasks(tasks []models.Task) []models.Task {
	var long []models.Task
	for _, task := range tasks {
		if task.Scope.TimeEstimate.LongDuration() && IsLeafTask(task.ID, tasks) {
			long = append(long, task)
		}
	}
	return long
}

// ShouldDecompose reports whether a task warrants breaking down: it must
// be a leaf above the depth limit, and either sized complex-or-harder or
// estimated at sprint length or longer.
func ShouldDecompose(task models.Task, depth, maxDepth int, isLeaf bool) bool {
	if depth >= maxDepth || !isLeaf {
		return false
	}
	return task.Scope.Size.Rank() >= models.SizeComplex.Rank() ||
		task.Scope.TimeEstimate.LongDuration()
}

// DecompositionCandidates returns the tasks ShouldDecompose selects,
// computing leaf status and depth for each task in the list.
func DecompositionCandidates(tasks []models.Task, maxDepth int) []models.Task {
	taskMap := make(map[string]models.Task, len(tasks))
	for _, task := range tasks {
		taskMap[task.ID] = task
	}
	depthMap := make(map[string]int, len(tasks))

	var candidates []models.Task
	for _, task := range tasks {
		depth := TaskDepth(task, depthMap, taskMap)
		if ShouldDecompose(task, depth, maxDepth, IsLeafTask(task.ID, tasks)) {
			candidates = append(candidates, task)
		}
	}
	return candidates
}
