package handler

import (
	dErrors "fondos/pkg/domain-errors"
)

// UpdateProfileRequest is the wire form of PUT /clients/me. All fields are
// optional; absent fields are left unchanged.
type UpdateProfileRequest struct {
	Name       *string `json:"name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Preference *string `json:"notification_preference,omitempty"`
}

// Validate checks that at least one field is present. Field-level validation
// lives in the service and models.
func (r *UpdateProfileRequest) Validate() error {
	if r.Name == nil && r.Phone == nil && r.Preference == nil {
		return dErrors.New(dErrors.CodeValidation, "at least one field must be provided")
	}
	return nil
}
