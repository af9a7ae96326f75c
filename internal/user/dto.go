package user

import (
	"strings"

	"github.com/worktrack/payroll/internal"
	"github.com/worktrack/payroll/internal/auth"
)

const (
	minLoginLength    = 3
	minPasswordLength = 8
)

type CreateUserDTO struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Role     string `json:"role"`
}

func (d *CreateUserDTO) Validate() error {
	d.Login = strings.TrimSpace(d.Login)
	d.Name = strings.TrimSpace(d.Name)

	if len(d.Login) < minLoginLength {
		return internal.NewValidationError("login must be at least 3 characters", internal.ErrCodeValidationFailed)
	}
	if len(d.Password) < minPasswordLength {
		return internal.NewValidationError("password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	if d.Name == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	if d.Role == "" {
		d.Role = string(auth.RoleUser)
	}
	if !auth.Role(d.Role).Valid() {
		return internal.NewValidationError("role must be admin, moderator or user", internal.ErrCodeInvalidRole)
	}
	return nil
}

// UpdateUserDTO carries partial updates; empty fields keep their current
// value. Password, when set, replaces the credential outright.
type UpdateUserDTO struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Role     string `json:"role"`
}

func (d *UpdateUserDTO) Validate() error {
	d.Login = strings.TrimSpace(d.Login)
	d.Name = strings.TrimSpace(d.Name)

	if d.Login != "" && len(d.Login) < minLoginLength {
		return internal.NewValidationError("login must be at least 3 characters", internal.ErrCodeValidationFailed)
	}
	if d.Password != "" && len(d.Password) < minPasswordLength {
		return internal.NewValidationError("password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	if d.Role != "" && !auth.Role(d.Role).Valid() {
		return internal.NewValidationError("role must be admin, moderator or user", internal.ErrCodeInvalidRole)
	}
	return nil
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (d *ChangePasswordDTO) Validate() error {
	if d.CurrentPassword == "" {
		return internal.NewValidationError("current password is required", internal.ErrCodeValidationFailed)
	}
	if len(d.NewPassword) < minPasswordLength {
		return internal.NewValidationError("new password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}
