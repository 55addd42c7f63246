package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/fintrack-app/fintrack-api/internal/domain"
	"github.com/fintrack-app/fintrack-api/internal/port"
	"github.com/fintrack-app/fintrack-api/internal/service"

	"go.uber.org/zap"
)

type contextKey string

const identityKey contextKey = "identity"

// AuthMiddleware validates Bearer tokens issued by the identity provider,
// auto-provisions the profile on first access and injects the identity
// into the request context.
func AuthMiddleware(verifier port.TokenVerifier, users *service.UserService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("auth: missing token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("auth: invalid token format",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			identity, err := verifier.Verify(parts[1])
			if err != nil {
				logger.Warn("auth: invalid or expired token",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}

			// First authenticated access creates the profile; cached
			// afterwards, so this is not a per-request store hit.
			if _, err := users.EnsureUser(r.Context(), identity); err != nil {
				handleServiceError(w, err, logger)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext extracts the authenticated identity from context.
func IdentityFromContext(ctx context.Context) *domain.Identity {
	v, _ := ctx.Value(identityKey).(*domain.Identity)
	return v
}

// ownerID is a shortcut for the authenticated owner id.
func ownerID(r *http.Request) string {
	if id := IdentityFromContext(r.Context()); id != nil {
		return id.OwnerID
	}
	return ""
}
