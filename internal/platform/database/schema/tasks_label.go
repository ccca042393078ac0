package schema

// TaskLabelTable represents the 'tasks.label' table
type TaskLabelTable struct {
	Table     string
	ID        string
	UserID    string
	Name      string
	Color     string
	CreatedAt string
}

// TaskLabel is the schema definition for tasks.label
var TaskLabel = TaskLabelTable{
	Table:     "tasks.label",
	ID:        "id",
	UserID:    "userid",
	Name:      "name",
	Color:     "color",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t TaskLabelTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Name, t.Color, t.CreatedAt}
}
