package domain

import "time"

// Role determines what a logged-in account may do.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleUser     Role = "user"
)

// User is the domain model for accounts. Login is the primary identifier;
// question records reference it in their user and operator fields.
type User struct {
	Login        string
	PasswordHash string
	Role         Role
	Name         string
	Theme        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsStaff reports whether the account may work the operator queue.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleOperator
}
