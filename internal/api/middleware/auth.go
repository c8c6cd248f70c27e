package middleware

import (
	"context"
	"errors"
	"net/http"
	"taskboard/internal/common"
	"taskboard/internal/common/security"
	"taskboard/internal/domain/model"
	"taskboard/internal/domain/repository"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const UserCtxKey contextKey = "user"

// Authenticator resolves bearer tokens to live user records. The user row
// is re-fetched on every request so deactivation and role changes take
// effect immediately; there is no revocation list.
type Authenticator struct {
	users repository.UserRepository
}

func NewAuthenticator(users repository.UserRepository) *Authenticator {
	return &Authenticator{users: users}
}

// Authenticate must run after jwtauth.Verifier, which parses the
// Authorization header and leaves the token (or the verification error) in
// the request context.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			switch jwtauth.ErrorReason(err) {
			case jwtauth.ErrNoTokenFound:
				common.RespondWithError(w, http.StatusUnauthorized, "Access token required")
			case jwtauth.ErrExpired:
				common.RespondWithError(w, http.StatusUnauthorized, "Token expired")
			default:
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			}
			return
		}

		userID, err := security.GetUserIDFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		user, err := a.users.FindByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				common.RespondWithError(w, http.StatusUnauthorized, "User not found")
				return
			}
			common.RespondWithInternalError(w, err)
			return
		}
		if !user.IsActive {
			common.RespondWithError(w, http.StatusUnauthorized, "Account is deactivated")
			return
		}

		ctx := context.WithValue(r.Context(), UserCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles restricts a route to users whose role is in the allowed set.
// Must run after Authenticate.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				// Unreachable when the middleware ordering is correct.
				common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !allowed[user.Role] {
				common.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(UserCtxKey).(*model.User)
	return user, ok
}
