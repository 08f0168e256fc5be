package validation

import (
	"strings"
	"unicode"
)

// SignupRequest mirrors the fields needed for signup validation.
type SignupRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginRequest mirrors the fields needed for login validation.
type LoginRequest struct {
	Email    string
	Password string
}

// ValidateSignupRequest validates the fields of a signup request.
func ValidateSignupRequest(req SignupRequest) []FieldError {
	var errs []FieldError

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	} else if !ValidEmail(email) {
		errs = append(errs, FieldError{Field: "email", Message: "email must be a valid email address"})
	}

	errs = append(errs, validatePassword(req.Password)...)

	if strings.TrimSpace(req.FirstName) == "" {
		errs = append(errs, FieldError{Field: "firstName", Message: "firstName is required"})
	} else if len(req.FirstName) > 100 {
		errs = append(errs, FieldError{Field: "firstName", Message: "firstName must be at most 100 characters"})
	}

	if strings.TrimSpace(req.LastName) == "" {
		errs = append(errs, FieldError{Field: "lastName", Message: "lastName is required"})
	} else if len(req.LastName) > 100 {
		errs = append(errs, FieldError{Field: "lastName", Message: "lastName must be at most 100 characters"})
	}

	return errs
}

// ValidateLoginRequest validates the fields of a login request.
func ValidateLoginRequest(req LoginRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	}
	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}

	return errs
}

// validatePassword enforces the credential policy: at least 8 characters
// with an uppercase letter, a lowercase letter, and a digit.
func validatePassword(password string) []FieldError {
	if password == "" {
		return []FieldError{{Field: "password", Message: "password is required"}}
	}
	if len(password) < 8 {
		return []FieldError{{Field: "password", Message: "password must be at least 8 characters"}}
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return []FieldError{{
			Field:   "password",
			Message: "password must contain an uppercase letter, a lowercase letter, and a digit",
		}}
	}

	return nil
}
