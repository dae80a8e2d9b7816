package service

import (
	"errors"

	"bailemos/internal/models"
)

// Caller is the authenticated principal a request runs as.
type Caller struct {
	ID   string
	Role models.Role
}

// IsAdmin reports whether the caller carries the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// Is reports whether the caller is the account id.
func (c Caller) Is(id string) bool {
	return c.ID != "" && c.ID == id
}

func hasCode(err error, code string) bool {
	var appErr *models.AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
