package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/techdetails/storefront-api/internal/model"
	"github.com/techdetails/storefront-api/internal/repository"
	"github.com/techdetails/storefront-api/shared/auth"
	"github.com/techdetails/storefront-api/shared/httpjson"
)

type contextKey struct{}

var userContextKey = contextKey{}

// UserFromContext returns the authenticated user attached by Authenticator,
// or nil for anonymous requests.
func UserFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// WithUser attaches a user to a context. Exposed for handler tests.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// Authenticator resolves the session cookie into a user on every request.
// Every failure path degrades to anonymous: a missing cookie, an invalid or
// expired token, and a token for a since-deleted user are all treated
// identically so callers can never distinguish them. The gate itself never
// rejects and never mutates state.
type Authenticator struct {
	tokens   auth.TokenService
	userRepo repository.UserRepository
}

// NewAuthenticator creates a new Authenticator instance.
func NewAuthenticator(tokens auth.TokenService, userRepo repository.UserRepository) *Authenticator {
	return &Authenticator{
		tokens:   tokens,
		userRepo: userRepo,
	}
}

// Handler is the chi middleware that attaches the resolved user, if any.
func (a *Authenticator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(auth.SessionCookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		subject, err := a.tokens.VerifySession(cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		user, err := a.userRepo.GetUser(r.Context(), subject)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			httpjson.Error(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdminPage guards admin page routes with redirects instead of JSON
// errors: anonymous visitors go to the login page with the requested path
// preserved, authenticated non-admins go home.
func RequireAdminPage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			http.Redirect(w, r, "/login?returnUrl="+url.QueryEscape(r.URL.Path), http.StatusFound)
			return
		}

		if !user.IsAdmin() {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects anonymous requests with 401 and authenticated
// non-admins with 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			httpjson.Error(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		if !user.IsAdmin() {
			httpjson.Error(w, http.StatusForbidden, "not authorized")
			return
		}

		next.ServeHTTP(w, r)
	})
}
