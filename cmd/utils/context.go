package utils

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

type contextKey string

const UserIDKey contextKey = "userID"

func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserIDFromContext returns the caller set by AuthMiddleware.
func GetUserIDFromContext(r *http.Request) (uuid.UUID, error) {
	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, Unauthorized("Unauthorized")
	}
	return userID, nil
}

// AuthMiddleware requires a valid "Authorization: Bearer <token>" header.
// Missing or malformed headers get 401, bad tokens get 403.
func AuthMiddleware(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, tokenString, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			if !ok || scheme != "Bearer" || strings.TrimSpace(tokenString) == "" {
				WriteError(w, r, Unauthorized("Unauthorized: No token provided"))
				return
			}

			userID, err := tokens.Verify(strings.TrimSpace(tokenString))
			if err != nil {
				WriteError(w, r, Forbidden("Invalid or expired token"))
				return
			}

			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("user_id", userID.String())
			})
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
