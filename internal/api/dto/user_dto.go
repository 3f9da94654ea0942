package dto

import (
	"time"

	"github.com/spec-kit/campus-helpdesk/internal/domain"
)

// RegisterRequest captures a registration payload. Department is
// optional and only meaningful for support and department accounts.
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RoleName   string `json:"role_name"`
	Department string `json:"department_name,omitempty"`
}

// LoginRequest captures a login payload. The username field carries
// the account email.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the self-service password change payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ResetPasswordRequest is the admin-only password overwrite payload.
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// UserResponse is the public account representation.
type UserResponse struct {
	ID           int64       `json:"id"`
	Email        string      `json:"email"`
	Role         domain.Role `json:"role"`
	DepartmentID *int64      `json:"department_id,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

// UserResponseFrom maps a domain user.
func UserResponseFrom(user *domain.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Role:         user.Role,
		DepartmentID: user.DepartmentID,
		CreatedAt:    user.CreatedAt,
	}
}
