package schema

// UserPasswordResetTable represents the 'users.passwordreset' table
type UserPasswordResetTable struct {
	Table     string
	ID        string
	UserID    string
	TokenHash string
	Used      string
	ExpiresAt string
	CreatedAt string
}

// UserPasswordReset is the schema definition for users.passwordreset
//
// Rows are never deleted; consumed requests stay behind with used = TRUE
// as an audit trail of reset activity.
var UserPasswordReset = UserPasswordResetTable{
	Table:     "users.passwordreset",
	ID:        "id",
	UserID:    "userid",
	TokenHash: "tokenhash",
	Used:      "used",
	ExpiresAt: "expiresat",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t UserPasswordResetTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.TokenHash, t.Used, t.ExpiresAt, t.CreatedAt,
	}
}
