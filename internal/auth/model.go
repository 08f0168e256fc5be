package auth

import (
	"time"

	"github.com/google/uuid"
)

// Default profile settings applied at signup.
const (
	DefaultPreferredLanguage      = "en"
	DefaultSignLanguagePreference = "asl"
)

// User represents a row in the users table: the account holder's profile.
// The credential (password verifier) lives in a separate table, keyed by
// the same identifier.
type User struct {
	ID                     uuid.UUID
	Email                  string
	FirstName              string
	LastName               string
	IsActive               bool
	EmailVerified          bool
	PreferredLanguage      string
	SignLanguagePreference string
	Preferences            map[string]any
	LastLoginAt            *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Credential represents a row in the credentials table: the password-holding
// identity-provider account paired with a User.
type Credential struct {
	UserID        uuid.UUID
	Email         string
	PasswordHash  string
	EmailVerified bool
	CreatedAt     time.Time
}

// Identity is stored in the request context after authentication.
type Identity struct {
	ID    uuid.UUID
	Email string
}

// Session is the result of a successful signup, login, or refresh.
type Session struct {
	User         *User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// ProfileUpdate carries the mutable profile fields. Nil fields are left
// unchanged.
type ProfileUpdate struct {
	FirstName              *string
	LastName               *string
	PreferredLanguage      *string
	SignLanguagePreference *string
	Preferences            map[string]any
}
