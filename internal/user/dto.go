package user

import (
	"net/http"
	"net/mail"

	"github.com/fintrackhq/fintrack/internal"
)

const minPasswordLength = 8

// UpdateProfileDTO carries the optional fields of a self-service profile
// update. Each present field is validated independently.
type UpdateProfileDTO struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (d UpdateProfileDTO) Validate() error {
	errs := internal.FieldErrors{}
	validateOptionalFields(errs, d.Name, d.Email, d.Password)
	return fieldErrorsOrNil(errs)
}

// AdminCreateUserDTO is the admin-surface payload for creating a user.
type AdminCreateUserDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	RoleID   *int64 `json:"role_id,omitempty"`
}

func (d AdminCreateUserDTO) Validate() error {
	errs := internal.FieldErrors{}

	if d.Name == "" {
		errs["name"] = append(errs["name"], "name is required")
	} else if len(d.Name) > 255 {
		errs["name"] = append(errs["name"], "name must not exceed 255 characters")
	}

	if d.Email == "" {
		errs["email"] = append(errs["email"], "email is required")
	} else if _, err := mail.ParseAddress(d.Email); err != nil {
		errs["email"] = append(errs["email"], "email must be a valid email address")
	}

	if d.Password == "" {
		errs["password"] = append(errs["password"], "password is required")
	} else if len(d.Password) < minPasswordLength {
		errs["password"] = append(errs["password"], "password must be at least 8 characters")
	}

	return fieldErrorsOrNil(errs)
}

// AdminUpdateUserDTO is the admin-surface payload for a partial user update.
type AdminUpdateUserDTO struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	RoleID   *int64  `json:"role_id,omitempty"`
}

func (d AdminUpdateUserDTO) Validate() error {
	errs := internal.FieldErrors{}
	validateOptionalFields(errs, d.Name, d.Email, d.Password)
	return fieldErrorsOrNil(errs)
}

func validateOptionalFields(errs internal.FieldErrors, name, email, password *string) {
	if name != nil {
		if *name == "" {
			errs["name"] = append(errs["name"], "name must not be empty")
		} else if len(*name) > 255 {
			errs["name"] = append(errs["name"], "name must not exceed 255 characters")
		}
	}

	if email != nil {
		if _, err := mail.ParseAddress(*email); err != nil {
			errs["email"] = append(errs["email"], "email must be a valid email address")
		}
	}

	if password != nil && len(*password) < minPasswordLength {
		errs["password"] = append(errs["password"], "password must be at least 8 characters")
	}
}

func fieldErrorsOrNil(errs internal.FieldErrors) error {
	if len(errs) == 0 {
		return nil
	}
	return &internal.AppError{
		Type:       internal.ErrorTypeValidation,
		Message:    "validation failed",
		StatusCode: http.StatusUnprocessableEntity,
		Fields:     errs,
	}
}

type UsersResponse struct {
	Users []*User `json:"users"`
}
