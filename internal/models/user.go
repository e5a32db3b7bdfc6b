package models

import (
	"strings"
	"time"

	"food-order-system/internal/apperr"
)

// User is a registered account. Usernames are unique case-insensitively.
type User struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         *string   `json:"name,omitempty" db:"name"`
	Email        *string   `json:"email,omitempty" db:"email"`
	Admin        bool      `json:"admin" db:"admin"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// RegisterRequest is the payload for POST /users/register.
type RegisterRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// LoginRequest is the payload for POST /users/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (req *RegisterRequest) Validate() error {
	if err := validateUsername(req.Username); err != nil {
		return err
	}
	if len(req.Password) < 6 {
		return apperr.FieldValidation("password", "must be at least 6 characters")
	}
	if req.Email != nil && !strings.Contains(*req.Email, "@") {
		return apperr.FieldValidation("email", "must be a valid email address")
	}
	return nil
}

func (req *LoginRequest) Validate() error {
	if req.Username == "" {
		return apperr.FieldValidation("username", "is required")
	}
	if req.Password == "" {
		return apperr.FieldValidation("password", "is required")
	}
	return nil
}

func validateUsername(username string) error {
	if len(username) == 0 {
		return apperr.FieldValidation("username", "is required")
	}
	if len(username) > 50 {
		return apperr.FieldValidation("username", "must not exceed 50 characters")
	}
	if strings.ContainsAny(username, " \t\n") {
		return apperr.FieldValidation("username", "must not contain whitespace")
	}
	return nil
}

// NormalizeUsername folds a username for case-insensitive comparison.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
