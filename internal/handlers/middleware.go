package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"codeforge/internal/logger"
	"codeforge/internal/models"
	"codeforge/internal/security"
	"codeforge/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const IdentityContextKey ContextKey = "identity"

// Identity describes who is making a request. Exactly one of User and
// ClientID is set.
type Identity struct {
	User      *models.User
	SessionID string
	// ViaCookie is true when the user was authenticated by the session
	// cookie rather than a bearer token
	ViaCookie bool
	ClientID  string
}

// UserID returns the signed-in user's id, or "" for anonymous clients
func (id *Identity) UserID() string {
	if id == nil || id.User == nil {
		return ""
	}
	return id.User.ID
}

// Key identifies the client's quiz controller
func (id *Identity) Key() string {
	if id.User != nil {
		return "user:" + id.User.ID
	}
	return "client:" + id.ClientID
}

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	csrf        *security.CSRFGenerator
	limiter     *security.RateLimiter
	log         *logger.Logger
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, csrf *security.CSRFGenerator, limiter *security.RateLimiter, log *logger.Logger) *Middleware {
	return &Middleware{
		authService: authService,
		csrf:        csrf,
		limiter:     limiter,
		log:         log,
	}
}

// Identify resolves the caller from a bearer token, the session cookie or
// the anonymous client cookie, issuing a client cookie when none exists.
// A bearer token that does not validate is rejected outright.
func (m *Middleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := &Identity{}

		if token, ok := bearerToken(r); ok {
			user, sessionID, err := m.authService.ValidateToken(r.Context(), token)
			if err != nil {
				respondWithError(w, m.log, http.StatusUnauthorized, ErrUnauthorized, "Rejected bearer token", err)
				return
			}
			identity.User = user
			identity.SessionID = sessionID
		} else if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
			user, err := m.authService.ValidateSession(r.Context(), cookie.Value)
			switch {
			case err == nil:
				identity.User = user
				identity.SessionID = cookie.Value
				identity.ViaCookie = true
			case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrSessionExpired):
				http.SetCookie(w, security.CreateDeleteCookie(r, security.SessionCookieName))
			default:
				respondWithError(w, m.log, http.StatusInternalServerError, ErrInternalServerError, "Error validating session", err)
				return
			}
		}

		if identity.User == nil {
			if cookie, err := r.Cookie(security.ClientCookieName); err == nil && cookie.Value != "" {
				identity.ClientID = cookie.Value
			} else {
				identity.ClientID = security.GenerateSessionID()
				http.SetCookie(w, security.CreateClientCookie(r, identity.ClientID))
			}
		}

		ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// RequireAuth is middleware that requires a signed-in user
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if GetIdentityFromContext(r.Context()).UserID() == "" {
			respondWithError(w, m.log, http.StatusUnauthorized, ErrUnauthorized, "", nil)
			return
		}
		next(w, r)
	}
}

// CSRFProtect checks the CSRF header on state-changing requests
// authenticated by the session cookie
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := GetIdentityFromContext(r.Context())
		if identity != nil && identity.ViaCookie && !isSafeMethod(r.Method) {
			if !m.csrf.Valid(identity.SessionID, r.Header.Get(security.CSRFHeader)) {
				respondWithError(w, m.log, http.StatusForbidden, ErrInvalidCSRFToken, "", nil)
				return
			}
		}
		next(w, r)
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// RateLimit limits requests per client IP
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r)
		if !m.limiter.Allow(ip) {
			m.log.Warn("Rate limit exceeded", "ip", ip, "path", r.URL.Path)
			respondWithError(w, m.log, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging middleware logs HTTP requests
func Logging(log *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

// GetIdentityFromContext retrieves the caller identity from the request context
func GetIdentityFromContext(ctx context.Context) *Identity {
	identity, ok := ctx.Value(IdentityContextKey).(*Identity)
	if !ok {
		return nil
	}
	return identity
}
