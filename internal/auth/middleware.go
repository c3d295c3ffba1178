package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/vaashuyko/wishlist-api/internal/apierr"
	"github.com/vaashuyko/wishlist-api/internal/models"
)

// UserLookup resolves a token subject to a live user record.
type UserLookup interface {
	GetUserByID(id int64) (models.User, error)
}

type contextKey string

const userContextKey = contextKey("currentUser")

// Middleware gates protected routes. It strips the bearer scheme, validates
// the token and resolves the subject to an existing user, which is placed on
// the request context. A missing or malformed Authorization header is a
// transport error; an invalid, expired or orphaned token yields the single
// generic unauthorized error so callers cannot tell which check failed.
func Middleware(tokens *TokenService, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, tokenStr, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || tokenStr == "" {
				apierr.WriteHTTP(w, "Not authenticated", http.StatusUnauthorized)
				return
			}

			subject, err := tokens.Validate(tokenStr)
			if err != nil {
				apierr.Write(w, err)
				return
			}

			user, err := users.GetUserByID(subject)
			if err != nil {
				// Subject no longer exists (e.g. deleted user): same error
				// as an invalid token.
				apierr.Write(w, apierr.Unauthorized())
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user placed by Middleware.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}
