package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PostgresUserRepository implements UserRepository using pgxpool.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a UserRepository backed by the given connection pool.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `id, email, first_name, last_name, is_active, email_verified,
	       preferred_language, sign_language_preference, preferences,
	       last_login_at, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.IsActive, &u.EmailVerified,
		&u.PreferredLanguage, &u.SignLanguagePreference, &u.Preferences,
		&u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scanning user row: %w", err)
	}
	return &u, nil
}

// Create inserts a new user record.
func (r *PostgresUserRepository) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (id, email, first_name, last_name, is_active, email_verified,
		                   preferred_language, sign_language_preference, preferences)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		u.ID,
		u.Email,
		u.FirstName,
		u.LastName,
		u.IsActive,
		u.EmailVerified,
		u.PreferredLanguage,
		u.SignLanguagePreference,
		u.Preferences,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrEmailTaken
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

// GetByID retrieves a single user by its UUID.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a single user by case-normalized email.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

// Update applies the non-nil profile fields and returns the updated record.
func (r *PostgresUserRepository) Update(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*User, error) {
	query := `
		UPDATE users
		SET first_name = COALESCE($2, first_name),
		    last_name = COALESCE($3, last_name),
		    preferred_language = COALESCE($4, preferred_language),
		    sign_language_preference = COALESCE($5, sign_language_preference),
		    preferences = COALESCE($6, preferences),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	var prefs any
	if update.Preferences != nil {
		prefs = update.Preferences
	}

	return scanUser(r.pool.QueryRow(ctx, query, id,
		update.FirstName,
		update.LastName,
		update.PreferredLanguage,
		update.SignLanguagePreference,
		prefs,
	))
}

// UpdateLastLogin stamps the user's last-login time.
func (r *PostgresUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("updating last login: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes a user record. Only used as signup compensation.
func (r *PostgresUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// PostgresCredentialRepository implements CredentialRepository using pgxpool.
type PostgresCredentialRepository struct {
	pool *pgxpool.Pool
}

// NewCredentialRepository creates a CredentialRepository backed by the given pool.
func NewCredentialRepository(pool *pgxpool.Pool) CredentialRepository {
	return &PostgresCredentialRepository{pool: pool}
}

// Create inserts a new credential record.
func (r *PostgresCredentialRepository) Create(ctx context.Context, c *Credential) error {
	query := `
		INSERT INTO credentials (user_id, email, password_hash, email_verified)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		c.UserID,
		c.Email,
		c.PasswordHash,
		c.EmailVerified,
	).Scan(&c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrEmailTaken
		}
		return fmt.Errorf("inserting credential: %w", err)
	}

	return nil
}

// GetByEmail retrieves a credential by case-normalized email.
func (r *PostgresCredentialRepository) GetByEmail(ctx context.Context, email string) (*Credential, error) {
	query := `
		SELECT user_id, email, password_hash, email_verified, created_at
		FROM credentials
		WHERE LOWER(email) = LOWER($1)`

	var c Credential
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&c.UserID, &c.Email, &c.PasswordHash, &c.EmailVerified, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCredentialNotFound
		}
		return nil, fmt.Errorf("querying credential: %w", err)
	}

	return &c, nil
}

// Delete removes a credential record. Used by signup compensation.
func (r *PostgresCredentialRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM credentials WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("deleting credential: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrCredentialNotFound
	}
	return nil
}
