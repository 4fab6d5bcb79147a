package handlers

import (
	"errors"
	"net/http"
	"time"

	"codeforge/internal/logger"
	"codeforge/internal/models"
	"codeforge/internal/security"
	"codeforge/internal/service"
	"codeforge/internal/validation"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
	csrf        *security.CSRFGenerator
	log         *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, csrf *security.CSRFGenerator, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		csrf:        csrf,
		log:         log,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	CSRFToken   string       `json:"csrfToken"`
}

type meResponse struct {
	User      *models.User `json:"user"`
	CSRFToken string       `json:"csrfToken,omitempty"`
}

// Register creates an account
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	user, err := h.authService.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		var ve validation.ValidationError
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			respondWithError(w, h.log, http.StatusConflict, ErrEmailInUse, "", nil)
		case errors.Is(err, service.ErrWeakPassword):
			respondWithError(w, h.log, http.StatusBadRequest, ErrPasswordTooWeak, "", nil)
		case errors.As(err, &ve):
			respondWithError(w, h.log, http.StatusBadRequest, ve.Message, "", nil)
		default:
			respondWithError(w, h.log, http.StatusInternalServerError, "Failed to create account", "Error registering user", err)
		}
		return
	}

	h.log.Info("User registered", "user_id", user.ID)
	respondWithJSON(w, h.log, http.StatusCreated, meResponse{User: user})
}

// Login opens a session. The session id goes into an HttpOnly cookie and the
// response carries a bearer token plus the CSRF token for cookie clients.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondWithError(w, h.log, http.StatusUnauthorized, ErrInvalidLogin, "", nil)
			return
		}
		respondWithError(w, h.log, http.StatusInternalServerError, ErrInternalServerError, "Error logging in", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, result.Session.ID, result.Session.ExpiresAt))
	respondWithJSON(w, h.log, http.StatusOK, loginResponse{
		User:        result.User,
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt,
		CSRFToken:   h.csrf.Token(result.Session.ID),
	})
}

// Logout ends the caller's session, if any
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity := GetIdentityFromContext(r.Context())
	if identity != nil && identity.SessionID != "" {
		if err := h.authService.Logout(r.Context(), identity.SessionID); err != nil {
			respondWithError(w, h.log, http.StatusInternalServerError, ErrInternalServerError, "Error logging out", err)
			return
		}
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, security.SessionCookieName))
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the signed-in user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := GetIdentityFromContext(r.Context())
	resp := meResponse{User: identity.User}
	if identity.ViaCookie {
		resp.CSRFToken = h.csrf.Token(identity.SessionID)
	}
	respondWithJSON(w, h.log, http.StatusOK, resp)
}
