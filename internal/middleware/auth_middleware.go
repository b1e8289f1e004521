package middleware

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/authcore/authcore/internal/service"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "token"

type contextKey string

const accountIDKey contextKey = "account_id"

// AccountID returns the authenticated account id installed by RequireAuth.
func AccountID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey).(string)
	return id, ok
}

type AuthMiddleware struct {
	tokens   *service.TokenService
	sessions *service.SessionService
	logger   *logrus.Logger
}

func NewAuthMiddleware(tokens *service.TokenService, sessions *service.SessionService, logger *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:   tokens,
		sessions: sessions,
		logger:   logger,
	}
}

// RequireAuth authenticates the session cookie and rejects revoked sessions.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil || cookie.Value == "" {
			m.respondUnauthorized(w, "Not authorized, login again")
			return
		}

		claims, err := m.tokens.Verify(cookie.Value)
		if err != nil {
			m.logger.WithError(err).Debug("Token verification failed")
			m.respondUnauthorized(w, "Invalid or expired session")
			return
		}

		revoked, err := m.sessions.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			// Revocation store being down should not lock everyone out.
			m.logger.WithError(err).Warn("Session revocation check failed")
		} else if revoked {
			m.respondUnauthorized(w, "Session has been logged out")
			return
		}

		ctx := context.WithValue(r.Context(), accountIDKey, claims.AccountID())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"` + message + `"}}`))
}
