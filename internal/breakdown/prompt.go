package breakdown

// breakdownPrompt asks for 2-5 subtasks of a task as a JSON object. The
// first slot carries optional time-pressure context, the second the task
// JSON.
const breakdownPrompt = `You are a product manager breaking down a task into smaller, more manageable subtasks.
%s
Break the task below into 2-5 subtasks. Each subtask must be:
1. SIMPLER and smaller than the parent task
2. A concrete, independently completable step toward the parent's outcome
3. Clearly distinct from the other subtasks

For each subtask, 'scope.size' must be one of ["trivial", "straightforward", "complex", "uncertain", "pioneering"] and 'scope.time_estimate' must be one of ["hours", "days", "week", "sprint", "multi-sprint"]. If the parent is complex, subtasks should be straightforward or simpler. If the parent takes a sprint or longer, subtasks should take days or less.

Return a JSON object with this structure:
{
  "subtasks": [
    {
      "title": "Short subtask title",
      "purpose": {
        "detailed_description": "Why this subtask matters"
      },
      "scope": {
        "size": "straightforward",
        "time_estimate": "days",
        "dependencies": [],
        "risks": []
      },
      "outcome": {
        "detailed_outcome_definition": "What done looks like",
        "acceptance_criteria": ["A specific, verifiable criterion"]
      }
    },
    ...
  ]
}

Here is the task to break down:
%s`

// timeBreakdownContext is injected when a task is long-running without being
// complexity-bound.
const timeBreakdownContext = `
NOTE: This task's time estimate is longer than ideal for a single unit of work, even though its complexity is manageable. Break this down into smaller time units: prefer subtasks completable in days or hours so progress stays visible.`
