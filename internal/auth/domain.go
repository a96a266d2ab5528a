package auth

import "time"

// Role enumerates account roles.
type Role string

const (
	// RoleAdmin may manage master data, users and confirm documents.
	RoleAdmin Role = "ADMIN"
	// RoleStaff may read data and work on draft documents.
	RoleStaff Role = "STAFF"
)

// User represents an authenticated user account.
type User struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	Role               Role      `json:"role"`
	IsApproved         bool      `json:"is_approved"`
	DefaultWarehouseID *string   `json:"default_warehouse_id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the elevated role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
