// Copyright (c) 2026 Revora. All rights reserved.

package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table       string
	ID          string
	Username    string
	Email       string
	Role        string
	Bio         string
	FirstName   string
	LastName    string
	IsSuperuser string
	IsConfirmed string
	CreatedAt   string
	UpdatedAt   string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:       "users.account",
	ID:          "id",
	Username:    "username",
	Email:       "email",
	Role:        "role",
	Bio:         "bio",
	FirstName:   "firstname",
	LastName:    "lastname",
	IsSuperuser: "issuperuser",
	IsConfirmed: "isconfirmed",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.Role, t.Bio, t.FirstName, t.LastName,
		t.IsSuperuser, t.IsConfirmed, t.CreatedAt, t.UpdatedAt,
	}
}
