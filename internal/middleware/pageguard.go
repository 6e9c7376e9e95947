package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/techdetails/storefront-api/shared/auth"
)

// PageGuard protects page routes ahead of rendering. It performs only a
// structural token check (signature and expiry) and deliberately skips the
// directory lookup: a token for a since-deleted user still passes here and
// is caught by the Authenticator deeper in. The tradeoff buys a guard with
// no database round-trip per request.
type PageGuard struct {
	tokens auth.TokenService

	// protectedPrefixes require a valid token; unauthenticated requests are
	// redirected to the login page with the original path preserved.
	protectedPrefixes []string

	// authPaths (login, register) redirect the other way: an already
	// authenticated visitor is sent to their account page.
	authPaths map[string]struct{}
}

// NewPageGuard creates a PageGuard over static path sets.
func NewPageGuard(tokens auth.TokenService, protectedPrefixes, authPaths []string) *PageGuard {
	authSet := make(map[string]struct{}, len(authPaths))
	for _, path := range authPaths {
		authSet[path] = struct{}{}
	}

	return &PageGuard{
		tokens:            tokens,
		protectedPrefixes: protectedPrefixes,
		authPaths:         authSet,
	}
}

// Handler is the chi middleware implementing the guard's decision table.
func (g *PageGuard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if g.isProtected(path) {
			if !g.hasValidToken(r) {
				redirectToLogin(w, r, path)
				return
			}

			next.ServeHTTP(w, r)
			return
		}

		if _, ok := g.authPaths[path]; ok && g.hasValidToken(r) {
			http.Redirect(w, r, "/account", http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (g *PageGuard) isProtected(path string) bool {
	for _, prefix := range g.protectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}

	return false
}

func (g *PageGuard) hasValidToken(r *http.Request) bool {
	cookie, err := r.Cookie(auth.SessionCookieName)
	if err != nil {
		return false
	}

	_, err = g.tokens.VerifySession(cookie.Value)

	return err == nil
}

func redirectToLogin(w http.ResponseWriter, r *http.Request, returnPath string) {
	target := "/login?returnUrl=" + url.QueryEscape(returnPath)
	http.Redirect(w, r, target, http.StatusFound)
}
