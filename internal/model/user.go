package model

import "time"

// Role is a platform user's access level.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleEditor        Role = "editor"
	RoleReader        Role = "reader"
)

// User represents a platform account in the usuarios table.
// PasswordHash is bcrypt and never serialized.
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsAuthor  bool      `json:"is_author"`
	Active    bool      `json:"active"`
	PhotoPath string    `json:"photo_path,omitempty"`
	PasswordHash string `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Reader represents an external library reader in the lectores table.
type Reader struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Institution string    `json:"institution,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
