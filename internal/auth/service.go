package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/communityhq/backend/internal/token"
)

// SignupInput carries the validated fields of a signup request.
type SignupInput struct {
	Email                  string
	Password               string
	FirstName              string
	LastName               string
	PreferredLanguage      string
	SignLanguagePreference string
}

// Service orchestrates signup, login, logout, and token refresh over the
// two backing stores and the token codec. It holds no cross-request state.
type Service struct {
	users        UserRepository
	creds        CredentialRepository
	tokens       *token.Codec
	bcryptCost   int
	storeTimeout time.Duration
}

// NewService creates a new auth Service.
func NewService(users UserRepository, creds CredentialRepository, tokens *token.Codec, bcryptCost int, storeTimeout time.Duration) *Service {
	return &Service{
		users:        users,
		creds:        creds,
		tokens:       tokens,
		bcryptCost:   bcryptCost,
		storeTimeout: storeTimeout,
	}
}

// withTimeout bounds a single store call so no operation can hang on an
// unreachable backend.
func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storeTimeout)
}

// Signup creates the credential and the profile record as a single logical
// unit. If the profile insert fails after the credential was created, the
// credential is deleted again so no orphaned password verifier remains.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	checkCtx, cancel := s.withTimeout(ctx)
	_, err := s.users.GetByEmail(checkCtx, email)
	cancel()
	switch {
	case err == nil:
		return nil, ErrUserExists
	case !errors.Is(err, ErrUserNotFound):
		return nil, fmt.Errorf("checking existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	userID := uuid.New()

	cred := &Credential{
		UserID:        userID,
		Email:         email,
		PasswordHash:  string(hash),
		EmailVerified: true,
	}

	credCtx, cancel := s.withTimeout(ctx)
	err = s.creds.Create(credCtx, cred)
	cancel()
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("creating credential: %w", err)
	}

	preferredLanguage := in.PreferredLanguage
	if preferredLanguage == "" {
		preferredLanguage = DefaultPreferredLanguage
	}
	signLanguage := in.SignLanguagePreference
	if signLanguage == "" {
		signLanguage = DefaultSignLanguagePreference
	}

	user := &User{
		ID:                     userID,
		Email:                  email,
		FirstName:              in.FirstName,
		LastName:               in.LastName,
		IsActive:               true,
		EmailVerified:          true,
		PreferredLanguage:      preferredLanguage,
		SignLanguagePreference: signLanguage,
		Preferences:            map[string]any{},
	}

	userCtx, cancel := s.withTimeout(ctx)
	err = s.users.Create(userCtx, user)
	cancel()
	if err != nil {
		s.compensateSignup(ctx, userID, email)
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("creating user profile: %w", err)
	}

	return s.openSession(ctx, user)
}

// compensateSignup removes the credential created by a signup whose profile
// insert failed. A failure here leaves an orphaned credential behind, which
// is logged loudly but does not change the error returned to the caller.
func (s *Service) compensateSignup(ctx context.Context, userID uuid.UUID, email string) {
	delCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.creds.Delete(delCtx, userID); err != nil {
		slog.Error("data integrity alarm: orphaned credential could not be removed after failed signup",
			"userId", userID, "email", email, "error", err)
	}
}

// Login verifies the password against the credential store, then loads and
// checks the profile. Credential failures of any kind collapse to a single
// invalid-credentials rejection; the active check runs only after the
// password verified, so deactivation is signalled to the account holder alone.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	credCtx, cancel := s.withTimeout(ctx)
	cred, err := s.creds.GetByEmail(credCtx, email)
	cancel()
	if err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("fetching credential: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	userCtx, cancel := s.withTimeout(ctx)
	user, err := s.users.GetByID(userCtx, cred.UserID)
	cancel()
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("fetching user profile: %w", err)
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	return s.openSession(ctx, user)
}

// Logout is best-effort: tokens are stateless and stay valid until natural
// expiry, so there is nothing to revoke server-side.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) {
	slog.Info("user logged out", "userId", userID)
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated. Every failure, including a
// deactivated or deleted account, collapses to the same rejection.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (accessToken string, expiresIn int64, err error) {
	claims, err := s.tokens.Verify(refreshToken, token.ClassRefresh)
	if err != nil {
		slog.Debug("refresh token rejected", "error", err)
		return "", 0, ErrInvalidRefreshToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", 0, ErrInvalidRefreshToken
	}

	userCtx, cancel := s.withTimeout(ctx)
	user, err := s.users.GetByID(userCtx, userID)
	cancel()
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", 0, ErrInvalidRefreshToken
		}
		return "", 0, fmt.Errorf("fetching user for refresh: %w", err)
	}
	if !user.IsActive {
		return "", 0, ErrInvalidRefreshToken
	}

	accessToken, expiresIn, err = s.tokens.IssueAccessToken(user.ID.String(), user.Email)
	if err != nil {
		return "", 0, fmt.Errorf("issuing access token: %w", err)
	}

	return accessToken, expiresIn, nil
}

// Resolve looks up an active user by ID, for request authentication.
func (s *Service) Resolve(ctx context.Context, userID uuid.UUID) (*User, error) {
	userCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	user, err := s.users.GetByID(userCtx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile applies a profile update for the given user.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*User, error) {
	userCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	user, err := s.users.Update(userCtx, userID, update)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return user, nil
}

// openSession stamps last-login and mints the access and refresh tokens.
// Runs after all policy checks passed.
func (s *Service) openSession(ctx context.Context, user *User) (*Session, error) {
	stampCtx, cancel := s.withTimeout(ctx)
	err := s.users.UpdateLastLogin(stampCtx, user.ID)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("stamping last login: %w", err)
	}
	now := time.Now().UTC()
	user.LastLoginAt = &now

	accessToken, expiresIn, err := s.tokens.IssueAccessToken(user.ID.String(), user.Email)
	if err != nil {
		return nil, fmt.Errorf("issuing access token: %w", err)
	}

	refreshToken, err := s.tokens.IssueRefreshToken(user.ID.String(), user.Email)
	if err != nil {
		return nil, fmt.Errorf("issuing refresh token: %w", err)
	}

	return &Session{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}
