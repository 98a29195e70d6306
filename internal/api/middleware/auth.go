package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/jwtauth/v5"

	"leet_tracker/internal/app/service"
	"leet_tracker/internal/common"
	"leet_tracker/internal/common/security"
)

type contextKey string

const (
	UsernameCtxKey  contextKey = "username"
	SessionIDCtxKey contextKey = "sessionID"
)

// Authenticator rejects requests without a verified token backed by a live
// session. jwtauth.Verifier must run first.
func Authenticator(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				if strings.Contains(err.Error(), "token not found") || token == nil {
					common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
				} else {
					common.RespondWithError(w, http.StatusUnauthorized, "Invalid token: "+err.Error())
				}
				return
			}
			if token == nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx, err := withSession(r.Context(), auth, claims)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser attaches the caller's identity when a valid session token is
// present and lets anonymous requests through untouched.
func CurrentUser(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err == nil && token != nil {
				if ctx, err := withSession(r.Context(), auth, claims); err == nil {
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withSession(ctx context.Context, auth *service.AuthService, claims map[string]interface{}) (context.Context, error) {
	username, err := security.GetUsernameFromClaims(claims)
	if err != nil {
		return nil, err
	}
	sid, err := security.GetSessionIDFromClaims(claims)
	if err != nil {
		return nil, err
	}
	sess, err := auth.Session(ctx, sid)
	if err != nil {
		return nil, err
	}
	if sess.Username != username {
		return nil, common.ErrUnauthorized
	}

	ctx = context.WithValue(ctx, UsernameCtxKey, username)
	ctx = context.WithValue(ctx, SessionIDCtxKey, sid)
	return ctx, nil
}

func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameCtxKey).(string)
	return username, ok
}

func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(SessionIDCtxKey).(string)
	return sid, ok
}
