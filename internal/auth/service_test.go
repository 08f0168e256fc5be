package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communityhq/backend/internal/auth"
	"github.com/communityhq/backend/internal/token"
)

const testBcryptCost = 4 // low cost for fast tests

func setupService(t *testing.T) (*auth.Service, *auth.InMemoryUserRepository, *auth.InMemoryCredentialRepository) {
	t.Helper()

	users := auth.NewInMemoryUserRepository()
	creds := auth.NewInMemoryCredentialRepository()
	codec := token.NewCodec("test-secret", time.Hour, 7*24*time.Hour)
	svc := auth.NewService(users, creds, codec, testBcryptCost, 5*time.Second)

	return svc, users, creds
}

func validSignup() auth.SignupInput {
	return auth.SignupInput{
		Email:     "a@x.com",
		Password:  "Abcdef12",
		FirstName: "A",
		LastName:  "B",
	}
}

// --- Signup ---

func TestSignup_Success(t *testing.T) {
	svc, _, creds := setupService(t)
	ctx := context.Background()

	session, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", session.User.Email)
	assert.True(t, session.User.IsActive)
	assert.True(t, session.User.EmailVerified)
	assert.Equal(t, "en", session.User.PreferredLanguage)
	assert.Equal(t, "asl", session.User.SignLanguagePreference)
	assert.NotNil(t, session.User.LastLoginAt)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Positive(t, session.ExpiresIn)
	assert.True(t, creds.Exists(session.User.ID), "credential should be stored")
}

func TestSignup_NormalizesEmail(t *testing.T) {
	svc, _, _ := setupService(t)

	in := validSignup()
	in.Email = "  Mixed.Case@X.COM "
	session, err := svc.Signup(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "mixed.case@x.com", session.User.Email)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	in := validSignup()
	in.Email = "A@X.com" // same address, different case
	_, err = svc.Signup(ctx, in)
	assert.ErrorIs(t, err, auth.ErrUserExists)
}

// failingUserRepo wraps a UserRepository and fails every Create call.
type failingUserRepo struct {
	auth.UserRepository
}

func (r *failingUserRepo) Create(context.Context, *auth.User) error {
	return errors.New("profile store unavailable")
}

func TestSignup_CompensatesFailedProfileCreation(t *testing.T) {
	users := auth.NewInMemoryUserRepository()
	creds := auth.NewInMemoryCredentialRepository()
	codec := token.NewCodec("test-secret", time.Hour, time.Hour)
	svc := auth.NewService(&failingUserRepo{users}, creds, codec, testBcryptCost, 5*time.Second)

	_, err := svc.Signup(context.Background(), validSignup())
	require.Error(t, err)

	// The credential created before the profile insert failed must be gone.
	_, err = creds.GetByEmail(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, auth.ErrCredentialNotFound)
}

// --- Login ---

func TestLogin_Success(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	signedUp, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	session, err := svc.Login(ctx, "a@x.com", "Abcdef12")
	require.NoError(t, err)

	assert.Equal(t, signedUp.User.ID, session.User.ID)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.NotNil(t, session.User.LastLoginAt)
}

func TestLogin_WrongPasswordAndUnknownEmailIndistinguishable(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	_, errWrongPassword := svc.Login(ctx, "a@x.com", "Wrong1234")
	_, errUnknownEmail := svc.Login(ctx, "nobody@x.com", "Abcdef12")

	assert.ErrorIs(t, errWrongPassword, auth.ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknownEmail, auth.ErrInvalidCredentials)
	assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	svc, users, _ := setupService(t)
	ctx := context.Background()

	session, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	users.SetActive(session.User.ID, false)

	_, err = svc.Login(ctx, "a@x.com", "Abcdef12")
	assert.ErrorIs(t, err, auth.ErrAccountDeactivated)
}

func TestLogin_MissingProfile(t *testing.T) {
	svc, users, _ := setupService(t)
	ctx := context.Background()

	session, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	// Simulate the data-integrity fault: credential present, profile gone.
	require.NoError(t, users.Delete(ctx, session.User.ID))

	_, err = svc.Login(ctx, "a@x.com", "Abcdef12")
	assert.ErrorIs(t, err, auth.ErrProfileNotFound)
}

// --- Refresh ---

func TestRefresh_IssuesNewAccessToken(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	session, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	accessToken, expiresIn, err := svc.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.Positive(t, expiresIn)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	session, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	_, _, err = svc.Refresh(ctx, session.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestRefresh_RejectsGarbage(t *testing.T) {
	svc, _, _ := setupService(t)

	_, _, err := svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestRefresh_RejectsDeactivatedAccount(t *testing.T) {
	svc, users, _ := setupService(t)
	ctx := context.Background()

	session, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	users.SetActive(session.User.ID, false)

	// Deactivation must not leak distinctly through refresh.
	_, _, err = svc.Refresh(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestRefresh_RejectsDeletedAccount(t *testing.T) {
	svc, users, _ := setupService(t)
	ctx := context.Background()

	session, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, session.User.ID))

	_, _, err = svc.Refresh(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

// --- Resolve ---

func TestResolve_ActiveUser(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	session, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	user, err := svc.Resolve(ctx, session.User.ID)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, user.ID)
}

func TestResolve_InactiveUser(t *testing.T) {
	svc, users, _ := setupService(t)
	ctx := context.Background()

	session, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	users.SetActive(session.User.ID, false)

	_, err = svc.Resolve(ctx, session.User.ID)
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestResolve_UnknownUser(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.Resolve(context.Background(), uuid.New())
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

// --- UpdateProfile ---

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	session, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	newFirst := "Alice"
	newSign := "bsl"
	user, err := svc.UpdateProfile(ctx, session.User.ID, auth.ProfileUpdate{
		FirstName:              &newFirst,
		SignLanguagePreference: &newSign,
		Preferences:            map[string]any{"theme": "dark"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice", user.FirstName)
	assert.Equal(t, "B", user.LastName, "unset fields stay unchanged")
	assert.Equal(t, "bsl", user.SignLanguagePreference)
	assert.Equal(t, map[string]any{"theme": "dark"}, user.Preferences)
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	svc, _, _ := setupService(t)

	name := "X"
	_, err := svc.UpdateProfile(context.Background(), uuid.New(), auth.ProfileUpdate{FirstName: &name})
	assert.ErrorIs(t, err, auth.ErrProfileNotFound)
}
