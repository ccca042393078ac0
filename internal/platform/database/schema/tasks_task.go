package schema

// TaskItemTable represents the 'tasks.item' table
type TaskItemTable struct {
	Table       string
	ID          string
	UserID      string
	ProjectID   string
	ParentID    string
	Title       string
	Description string
	Status      string
	Priority    string
	Position    string
	DueAt       string
	CompletedAt string
	CreatedAt   string
	UpdatedAt   string
}

// TaskItem is the schema definition for tasks.item
var TaskItem = TaskItemTable{
	Table:       "tasks.item",
	ID:          "id",
	UserID:      "userid",
	ProjectID:   "projectid",
	ParentID:    "parentid",
	Title:       "title",
	Description: "description",
	Status:      "status",
	Priority:    "priority",
	Position:    "position",
	DueAt:       "dueat",
	CompletedAt: "completedat",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t TaskItemTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.ProjectID, t.ParentID, t.Title, t.Description,
		t.Status, t.Priority, t.Position, t.DueAt, t.CompletedAt,
		t.CreatedAt, t.UpdatedAt,
	}
}
