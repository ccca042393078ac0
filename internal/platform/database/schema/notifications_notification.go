package schema

// NotificationTable represents the 'notifications.notification' table
type NotificationTable struct {
	Table     string
	ID        string
	UserID    string
	Kind      string
	Title     string
	Body      string
	IsRead    string
	CreatedAt string
}

// Notification is the schema definition for notifications.notification
var Notification = NotificationTable{
	Table:     "notifications.notification",
	ID:        "id",
	UserID:    "userid",
	Kind:      "kind",
	Title:     "title",
	Body:      "body",
	IsRead:    "isread",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t NotificationTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Kind, t.Title, t.Body, t.IsRead, t.CreatedAt}
}
