package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/communityhq/backend/internal/api/middleware"
	"github.com/communityhq/backend/internal/api/response"
	"github.com/communityhq/backend/internal/api/validation"
	"github.com/communityhq/backend/internal/auth"
)

type signupRequest struct {
	Email                  string `json:"email"`
	Password               string `json:"password"`
	FirstName              string `json:"firstName"`
	LastName               string `json:"lastName"`
	PreferredLanguage      string `json:"preferredLanguage"`
	SignLanguagePreference string `json:"signLanguagePreference"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type updateProfileRequest struct {
	FirstName              *string        `json:"firstName"`
	LastName               *string        `json:"lastName"`
	PreferredLanguage      *string        `json:"preferredLanguage"`
	SignLanguagePreference *string        `json:"signLanguagePreference"`
	Preferences            map[string]any `json:"preferences"`
}

type userResponse struct {
	ID                     string         `json:"id"`
	Email                  string         `json:"email"`
	FirstName              string         `json:"firstName"`
	LastName               string         `json:"lastName"`
	IsActive               bool           `json:"isActive"`
	EmailVerified          bool           `json:"emailVerified"`
	PreferredLanguage      string         `json:"preferredLanguage"`
	SignLanguagePreference string         `json:"signLanguagePreference"`
	Preferences            map[string]any `json:"preferences"`
	LastLoginAt            *string        `json:"lastLoginAt,omitempty"`
	CreatedAt              string         `json:"createdAt"`
	UpdatedAt              string         `json:"updatedAt"`
}

type sessionResponse struct {
	User         userResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int64        `json:"expiresIn"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// AuthHandler handles the /auth endpoints.
type AuthHandler struct {
	service *auth.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	fieldErrors := validation.ValidateSignupRequest(validation.SignupRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, auth.CodeValidationError, "Input validation failed", fieldErrors)
		return
	}

	session, err := h.service.Signup(r.Context(), auth.SignupInput{
		Email:                  req.Email,
		Password:               req.Password,
		FirstName:              req.FirstName,
		LastName:               req.LastName,
		PreferredLanguage:      req.PreferredLanguage,
		SignLanguagePreference: req.SignLanguagePreference,
	})
	if err != nil {
		renderError(w, "signup failed", err)
		return
	}

	response.Success(w, http.StatusCreated, newSessionResponse(session))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	fieldErrors := validation.ValidateLoginRequest(validation.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, auth.CodeValidationError, "Input validation failed", fieldErrors)
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		renderError(w, "login failed", err)
		return
	}

	response.Success(w, http.StatusOK, newSessionResponse(session))
}

// Logout handles POST /auth/logout. Requires an access token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	h.service.Logout(r.Context(), identity.ID)

	response.Success(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.RefreshToken == "" {
		response.ErrWithDetails(w, http.StatusBadRequest, auth.CodeValidationError, "Input validation failed",
			[]validation.FieldError{{Field: "refreshToken", Message: "refreshToken is required"}})
		return
	}

	accessToken, expiresIn, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		renderError(w, "token refresh failed", err)
		return
	}

	response.Success(w, http.StatusOK, refreshResponse{
		AccessToken: accessToken,
		ExpiresIn:   expiresIn,
	})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	user, err := h.service.Resolve(r.Context(), identity.ID)
	if err != nil {
		renderError(w, "profile lookup failed", err)
		return
	}

	response.Success(w, http.StatusOK, map[string]userResponse{"user": newUserResponse(user)})
}

// UpdateMe handles PATCH /auth/me.
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var req updateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), identity.ID, auth.ProfileUpdate{
		FirstName:              req.FirstName,
		LastName:               req.LastName,
		PreferredLanguage:      req.PreferredLanguage,
		SignLanguagePreference: req.SignLanguagePreference,
		Preferences:            req.Preferences,
	})
	if err != nil {
		renderError(w, "profile update failed", err)
		return
	}

	response.Success(w, http.StatusOK, map[string]userResponse{"user": newUserResponse(user)})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Err(w, http.StatusBadRequest, auth.CodeValidationError, "Request body must be valid JSON")
		return false
	}
	return true
}

// renderError maps a service failure onto the response envelope. Policy
// rejections carry their own status and code; anything else is an
// infrastructure fault logged server-side and reported generically.
func renderError(w http.ResponseWriter, logMsg string, err error) {
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		if authErr.Details != nil {
			response.ErrWithDetails(w, authErr.Status, authErr.Code, authErr.Message, authErr.Details)
			return
		}
		response.Err(w, authErr.Status, authErr.Code, authErr.Message)
		return
	}

	slog.Error(logMsg, "error", err)
	response.Err(w, http.StatusInternalServerError, auth.CodeInternalError, "An internal error occurred")
}

func newSessionResponse(s *auth.Session) sessionResponse {
	return sessionResponse{
		User:         newUserResponse(s.User),
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    s.ExpiresIn,
	}
}

func newUserResponse(u *auth.User) userResponse {
	resp := userResponse{
		ID:                     u.ID.String(),
		Email:                  u.Email,
		FirstName:              u.FirstName,
		LastName:               u.LastName,
		IsActive:               u.IsActive,
		EmailVerified:          u.EmailVerified,
		PreferredLanguage:      u.PreferredLanguage,
		SignLanguagePreference: u.SignLanguagePreference,
		Preferences:            u.Preferences,
		CreatedAt:              u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:              u.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if u.LastLoginAt != nil {
		last := u.LastLoginAt.UTC().Format(time.RFC3339)
		resp.LastLoginAt = &last
	}
	return resp
}
