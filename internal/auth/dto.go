package auth

import (
	"net/http"
	"net/mail"

	"github.com/fintrackhq/fintrack/internal"
)

const minPasswordLength = 8

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	if d.Email == "" {
		return internal.NewFieldValidationError("email", "email is required")
	}
	if _, err := mail.ParseAddress(d.Email); err != nil {
		return internal.NewFieldValidationError("email", "email must be a valid email address")
	}
	if d.Password == "" {
		return internal.NewFieldValidationError("password", "password is required")
	}
	return nil
}

// RegisterDTO is the transport shape for account creation.
type RegisterDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d RegisterDTO) Validate() error {
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
	} else if len(d.Email) > 255 {
		errs["email"] = append(errs["email"], "email must not exceed 255 characters")
	}

	if d.Password == "" {
		errs["password"] = append(errs["password"], "password is required")
	} else if len(d.Password) < minPasswordLength {
		errs["password"] = append(errs["password"], "password must be at least 8 characters")
	}

	if len(errs) > 0 {
		return &internal.AppError{
			Type:       internal.ErrorTypeValidation,
			Message:    "validation failed",
			StatusCode: http.StatusUnprocessableEntity,
			Fields:     errs,
		}
	}
	return nil
}

// RefreshTokenDTO for refresh token requests
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d RefreshTokenDTO) Validate() error {
	if d.RefreshToken == "" {
		return internal.NewFieldValidationError("refresh_token", "refresh_token is required")
	}
	return nil
}
