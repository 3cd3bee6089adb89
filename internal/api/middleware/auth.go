package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"judge_client/internal/common"
	"judge_client/internal/common/security"
)

type contextKey string

const (
	UserIDCtxKey    contextKey = "userID"
	UserEmailCtxKey contextKey = "userEmail"
)

// Authenticator rejects requests without a valid token.
func Authenticator(next http.Handler) http.Handler {
	return identify(next, true)
}

// OptionalAuthenticator lets anonymous requests through but still rejects
// a token that is present and invalid.
func OptionalAuthenticator(next http.Handler) http.Handler {
	return identify(next, false)
}

func identify(next http.Handler, required bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context()) // Set by jwtauth.Verifier

		if errors.Is(err, jwtauth.ErrNoTokenFound) || (err == nil && token == nil) {
			if required {
				common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}
			next.ServeHTTP(w, r)
			return
		}
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token: "+err.Error())
			return
		}

		userID, err := security.GetUserIDFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
			return
		}
		email, err := security.GetEmailFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
		ctx = context.WithValue(ctx, UserEmailCtxKey, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Helper to get user ID from context
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int64)
	return userID, ok
}

func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailCtxKey).(string)
	return email, ok
}
