package schema

// TaskProjectTable represents the 'tasks.project' table
type TaskProjectTable struct {
	Table      string
	ID         string
	UserID     string
	Name       string
	Slug       string
	Color      string
	IsArchived string
	CreatedAt  string
	UpdatedAt  string
}

// TaskProject is the schema definition for tasks.project
var TaskProject = TaskProjectTable{
	Table:      "tasks.project",
	ID:         "id",
	UserID:     "userid",
	Name:       "name",
	Slug:       "slug",
	Color:      "color",
	IsArchived: "isarchived",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}

// Columns returns all standard column names
func (t TaskProjectTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.Name, t.Slug, t.Color, t.IsArchived, t.CreatedAt, t.UpdatedAt,
	}
}
