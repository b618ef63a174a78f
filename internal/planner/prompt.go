package planner

// estimatePrompt asks the model to size a task. The first placeholder
// carries optional parent context for subtasks, the second the task JSON.
const estimatePrompt = `You are an AI assistant helping a product manager estimate the scope of an engineering task.

Based on this task description, estimate its scope with the following fields:
- 'size': one of ["trivial", "straightforward", "complex", "uncertain", "pioneering"]
- 'time_estimate': one of ["hours", "days", "week", "sprint", "multi-sprint"]
- 'dependencies': array of strings describing dependencies
- 'risks': array of strings describing potential blockers or challenges

Provide detailed reasoning for your estimates, considering:
1. The task complexity and unknowns
2. Skills and expertise required
3. Potential dependencies and risks
4. Similar tasks from typical product development
%s
Return your analysis as a JSON object with the fields above, plus a 'reasoning' field explaining your thinking.

Here is the task:
%s`

// estimateParentContext is folded into estimatePrompt for subtasks.
const estimateParentContext = `
IMPORTANT: This is a subtask with parent_id: %s. Subtasks should be SIMPLER than their parent tasks. If the parent task is complex, a subtask should typically be straightforward or simpler. If the parent task has a multi-sprint or sprint time estimate, a subtask should have a shorter estimate.
`

// alternativesPrompt asks for meaningfully different implementation strategies.
const alternativesPrompt = `You are a product manager helping to identify alternative approaches to a task.

For the following task, suggest 2-5 ALTERNATIVE APPROACHES or implementation methods. For example, if the task is 'Implement authentication', you might suggest:
1. Username/password based authentication with email verification
2. Social authentication using OAuth with platforms like Google, Facebook, etc.
3. Passwordless authentication using magic links sent to email

Each approach should be meaningfully different in IMPLEMENTATION STRATEGY, not just small variations.
Give each approach a short, clear name and a detailed description explaining the pros and cons.

IMPORTANT: For each approach, also include:
- 'scope': One of ["trivial", "straightforward", "complex", "uncertain", "pioneering"] indicating complexity
- 'time_estimate': One of ["hours", "days", "week", "sprint", "multi-sprint"] indicating time required

Return your response as a JSON object with this structure:
{
  "alternatives": [
    {
      "name": "Short name for approach 1",
      "description": "Detailed description of approach 1 with pros and cons",
      "scope": "straightforward",
      "time_estimate": "days"
    },
    {
      "name": "Short name for approach 2",
      "description": "Detailed description of approach 2 with pros and cons",
      "scope": "complex",
      "time_estimate": "sprint"
    }
  ]
}

Here is the task:
%s`

// parentUpdatePrompt folds a new child's context back into its parent.
const parentUpdatePrompt = `You are a product manager updating a parent task based on a new child task that was just created.

Review the parent task and the new child task details. Then update the parent task to:
1. Include any important details from the child task not already reflected in the parent
2. Ensure the parent's purpose and outcome descriptions accurately reflect all child tasks
3. Add any new risks or dependencies that this child task implies for the parent
4. Consider if the team assignment should be updated based on the child task

Return a JSON object with these updated fields, keeping most of the parent task the same, but updating:
- purpose.detailed_description: Enhanced description including child context
- scope.risks: Updated list of risks (merged from both parent and any new ones)
- outcome.detailed_outcome_definition: Enhanced description including child outcome
- meta.team: One of (Product, Design, Frontend, Backend, ML, Infra, Testing, Other), if it should be changed

Here is the parent task:
%s

Here is the new child task:
%s

Return ONLY these updated fields in a JSON structure like:
{
  "purpose": {
    "detailed_description": "Enhanced description..."
  },
  "scope": {
    "risks": ["Risk 1", "Risk 2", "New risk from child"]
  },
  "outcome": {
    "detailed_outcome_definition": "Enhanced outcome description..."
  },
  "meta": {
    "team": "Frontend"
  }
}`

// titleSystemPrompt constrains title generation to one short line.
const titleSystemPrompt = `You are a concise title generator. Generate a brief, clear title (maximum 60 characters) that captures the essence of a task based on its purpose and outcome description. Return ONLY the title with no additional text or quotes.`

// titleUserPrompt carries the purpose and outcome descriptions.
const titleUserPrompt = `Purpose: %s

Outcome: %s

Generate a concise title (max 60 chars):`
