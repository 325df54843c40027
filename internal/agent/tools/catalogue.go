package tools

// Tool names in the catalogue.
const (
	ToolAddTask      = "add_task"
	ToolListTasks    = "list_tasks"
	ToolCompleteTask = "complete_task"
	ToolDeleteTask   = "delete_task"
	ToolUpdateTask   = "update_task"
)

// Property describes one parameter of a tool, in a provider-neutral shape
// that providers translate into their own schema types.
type Property struct {
	Type        string
	Description string
	Enum        []string
}

// Definition describes one callable tool.
type Definition struct {
	Name        string
	Description string
	Properties  map[string]Property
	Required    []string
}

// Catalogue returns the tool definitions offered to the model. The order is
// stable.
func Catalogue() []Definition {
	return []Definition{
		{
			Name:        ToolAddTask,
			Description: "Create a new task for the user.",
			Properties: map[string]Property{
				"title": {
					Type:        "string",
					Description: "Short title of the task.",
				},
				"description": {
					Type:        "string",
					Description: "Optional longer description.",
				},
				"priority": {
					Type:        "string",
					Description: "Task priority.",
					Enum:        []string{"high", "medium", "low"},
				},
			},
			Required: []string{"title"},
		},
		{
			Name:        ToolListTasks,
			Description: "List the user's tasks.",
			Properties: map[string]Property{
				"status": {
					Type:        "string",
					Description: "Which tasks to list: every task, or only incomplete ones.",
					Enum:        []string{"all", "pending"},
				},
			},
			Required: []string{"status"},
		},
		{
			Name:        ToolCompleteTask,
			Description: "Mark a task as complete.",
			Properties: map[string]Property{
				"task_id": {
					Type:        "integer",
					Description: "ID of the task to complete.",
				},
			},
			Required: []string{"task_id"},
		},
		{
			Name:        ToolDeleteTask,
			Description: "Delete a task.",
			Properties: map[string]Property{
				"task_id": {
					Type:        "integer",
					Description: "ID of the task to delete.",
				},
			},
			Required: []string{"task_id"},
		},
		{
			Name:        ToolUpdateTask,
			Description: "Change the title of an existing task.",
			Properties: map[string]Property{
				"task_id": {
					Type:        "integer",
					Description: "ID of the task to update.",
				},
				"title": {
					Type:        "string",
					Description: "The new title.",
				},
			},
			Required: []string{"task_id", "title"},
		},
	}
}
