package validation

import "regexp"

// FieldError describes a validation failure for a single request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether the given string looks like an email address.
func ValidEmail(email string) bool {
	return len(email) <= 254 && emailPattern.MatchString(email)
}
