package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table        string
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	IsActive     string
	LastLoginAt  string
	CreatedAt    string
	UpdatedAt    string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:        "users.account",
	ID:           "id",
	Email:        "email",
	Name:         "name",
	PasswordHash: "passwordhash",
	Role:         "role",
	IsActive:     "isactive",
	LastLoginAt:  "lastloginat",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Name, t.PasswordHash, t.Role, t.IsActive,
		t.LastLoginAt, t.CreatedAt, t.UpdatedAt,
	}
}
