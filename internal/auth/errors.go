package auth

import "net/http"

// Stable error codes shared with other implementations of this API.
const (
	CodeUserExists            = "USER_EXISTS"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeAccountDeactivated    = "ACCOUNT_DEACTIVATED"
	CodeProfileNotFound       = "PROFILE_NOT_FOUND"
	CodeInvalidToken          = "INVALID_TOKEN"
	CodeInvalidRefreshToken   = "INVALID_REFRESH_TOKEN"
	CodeMissingToken          = "MISSING_TOKEN"
	CodeRateLimitExceeded     = "RATE_LIMIT_EXCEEDED"
	CodeAuthRateLimitExceeded = "AUTH_RATE_LIMIT_EXCEEDED"
	CodeValidationError       = "VALIDATION_ERROR"
	CodeInternalError         = "INTERNAL_ERROR"
)

// Error is a policy rejection surfaced by the auth service, carrying the
// HTTP status and stable code the API layer should respond with. It is
// constructed only at the service boundary; infrastructure faults are
// returned as plain wrapped errors instead and rendered as a generic 500.
type Error struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *Error) Error() string {
	return e.Message
}

// Rejections returned by the service operations.
var (
	ErrUserExists = &Error{
		Status:  http.StatusConflict,
		Code:    CodeUserExists,
		Message: "An account with this email already exists",
	}
	ErrInvalidCredentials = &Error{
		Status:  http.StatusUnauthorized,
		Code:    CodeInvalidCredentials,
		Message: "Invalid email or password",
	}
	ErrAccountDeactivated = &Error{
		Status:  http.StatusForbidden,
		Code:    CodeAccountDeactivated,
		Message: "This account has been deactivated",
	}
	ErrProfileNotFound = &Error{
		Status:  http.StatusNotFound,
		Code:    CodeProfileNotFound,
		Message: "User profile not found",
	}
	ErrInvalidRefreshToken = &Error{
		Status:  http.StatusUnauthorized,
		Code:    CodeInvalidRefreshToken,
		Message: "Invalid or expired refresh token",
	}
)
