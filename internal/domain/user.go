package domain

import "time"

// User is an account able to authenticate and act on tickets.
// DepartmentID is meaningful only for department managers and support
// agents, where it serves as a routing key.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         Role
	DepartmentID *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
