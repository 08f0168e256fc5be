package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryUserRepository stores user records in an in-process map, ideal for
// local development or tests.
type InMemoryUserRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]User
}

// NewInMemoryUserRepository constructs an empty in-memory user repository.
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{data: make(map[uuid.UUID]User)}
}

// Create stores a new user record.
func (r *InMemoryUserRepository) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.data {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrEmailTaken
		}
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.data[u.ID] = *u
	return nil
}

// GetByID returns a user by ID.
func (r *InMemoryUserRepository) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.data[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

// GetByEmail returns a user by case-normalized email.
func (r *InMemoryUserRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.data {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// Update applies the non-nil profile fields and returns the updated record.
func (r *InMemoryUserRepository) Update(_ context.Context, id uuid.UUID, update ProfileUpdate) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.data[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	if update.FirstName != nil {
		u.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		u.LastName = *update.LastName
	}
	if update.PreferredLanguage != nil {
		u.PreferredLanguage = *update.PreferredLanguage
	}
	if update.SignLanguagePreference != nil {
		u.SignLanguagePreference = *update.SignLanguagePreference
	}
	if update.Preferences != nil {
		u.Preferences = update.Preferences
	}
	u.UpdatedAt = time.Now().UTC()

	r.data[id] = u
	return &u, nil
}

// UpdateLastLogin stamps the user's last-login time.
func (r *InMemoryUserRepository) UpdateLastLogin(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.data[id]
	if !ok {
		return ErrUserNotFound
	}

	now := time.Now().UTC()
	u.LastLoginAt = &now
	u.UpdatedAt = now
	r.data[id] = u
	return nil
}

// Delete removes a user record.
func (r *InMemoryUserRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.data, id)
	return nil
}

// SetActive toggles a user's active flag. Test and admin helper; there is
// no HTTP surface for deactivation in this service.
func (r *InMemoryUserRepository) SetActive(id uuid.UUID, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.data[id]; ok {
		u.IsActive = active
		r.data[id] = u
	}
}

// InMemoryCredentialRepository stores credential records in an in-process map.
type InMemoryCredentialRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]Credential
}

// NewInMemoryCredentialRepository constructs an empty in-memory credential repository.
func NewInMemoryCredentialRepository() *InMemoryCredentialRepository {
	return &InMemoryCredentialRepository{data: make(map[uuid.UUID]Credential)}
}

// Create stores a new credential record.
func (r *InMemoryCredentialRepository) Create(_ context.Context, c *Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.data {
		if strings.EqualFold(existing.Email, c.Email) {
			return ErrEmailTaken
		}
	}

	c.CreatedAt = time.Now().UTC()
	r.data[c.UserID] = *c
	return nil
}

// GetByEmail returns a credential by case-normalized email.
func (r *InMemoryCredentialRepository) GetByEmail(_ context.Context, email string) (*Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.data {
		if strings.EqualFold(c.Email, email) {
			return &c, nil
		}
	}
	return nil, ErrCredentialNotFound
}

// Delete removes a credential record.
func (r *InMemoryCredentialRepository) Delete(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[userID]; !ok {
		return ErrCredentialNotFound
	}
	delete(r.data, userID)
	return nil
}

// Exists reports whether a credential is stored for the given user. Used by
// tests to inspect the store directly.
func (r *InMemoryCredentialRepository) Exists(userID uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.data[userID]
	return ok
}
