package handler

import (
	"strings"

	dErrors "fondos/pkg/domain-errors"
)

// RegisterRequest is the wire form of POST /auth/register.
type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Phone      string `json:"phone,omitempty"`
	Preference string `json:"notification_preference,omitempty"`
}

// Validate normalizes the request and checks the fields the handler owns;
// the service revalidates semantics.
func (r *RegisterRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	if r.Name == "" || r.Email == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "name, email and password are required")
	}
	if r.Preference == "" {
		r.Preference = "email"
	}
	return nil
}

// LoginRequest is the wire form of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "email and password are required")
	}
	return nil
}
