package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/communityhq/backend/internal/api/response"
	"github.com/communityhq/backend/internal/auth"
	"github.com/communityhq/backend/internal/token"
)

const identityKey contextKey = "identity"

// Resolver re-checks a token's subject against the user store, so a token
// never outlives account deactivation or deletion.
type Resolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (*auth.User, error)
}

// Auth is middleware that extracts the bearer token from the Authorization
// header, verifies it as an access token, re-resolves the subject, and
// attaches the caller's Identity to the request context. A missing token and
// an invalid token get distinct codes; every other failure collapses into
// the invalid-token rejection so a stale token is indistinguishable from a
// bad one.
func Auth(codec *token.Codec, resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, errCode := authenticate(r, codec, resolver)
			if identity == nil {
				if errCode == auth.CodeMissingToken {
					response.Err(w, http.StatusUnauthorized, auth.CodeMissingToken, "Authorization token is required")
					return
				}
				response.Err(w, http.StatusUnauthorized, auth.CodeInvalidToken, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth performs the same steps as Auth but proceeds unauthenticated
// on any failure, for routes that personalize without requiring login.
// Partial identity is never attached.
func OptionalAuth(codec *token.Codec, resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, _ := authenticate(r, codec, resolver)
			if identity != nil {
				ctx := context.WithValue(r.Context(), identityKey, identity)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func authenticate(r *http.Request, codec *token.Codec, resolver Resolver) (*auth.Identity, string) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, auth.CodeMissingToken
	}

	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return nil, auth.CodeMissingToken
	}

	claims, err := codec.Verify(raw, token.ClassAccess)
	if err != nil {
		slog.Debug("access token rejected", "error", err)
		return nil, auth.CodeInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, auth.CodeInvalidToken
	}

	user, err := resolver.Resolve(r.Context(), userID)
	if err != nil {
		return nil, auth.CodeInvalidToken
	}

	return &auth.Identity{ID: user.ID, Email: user.Email}, ""
}

// GetIdentity retrieves the authenticated Identity from the request context.
func GetIdentity(ctx context.Context) *auth.Identity {
	if id, ok := ctx.Value(identityKey).(*auth.Identity); ok {
		return id
	}
	return nil
}
