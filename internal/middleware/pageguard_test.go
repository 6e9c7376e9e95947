package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techdetails/storefront-api/shared/auth"
)

func newGuardFixture() (auth.TokenService, *PageGuard) {
	tokens := auth.NewTokenService("test-secret", "storefront-test", time.Hour, time.Hour)
	guard := NewPageGuard(tokens, []string{"/account", "/checkout", "/orders"}, []string{"/login", "/register"})

	return tokens, guard
}

func serveGuarded(guard *PageGuard, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	guard.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	return rec
}

func withSession(t *testing.T, tokens auth.TokenService, req *http.Request) *http.Request {
	t.Helper()

	token, err := tokens.IssueSession("user-123")
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})

	return req
}

func TestGuardRedirectsAnonymousFromProtectedPage(t *testing.T) {
	_, guard := newGuardFixture()

	rec := serveGuarded(guard, httptest.NewRequest(http.MethodGet, "/account/settings", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?returnUrl=%2Faccount%2Fsettings", rec.Header().Get("Location"))
}

func TestGuardAllowsAuthenticatedOnProtectedPage(t *testing.T) {
	tokens, guard := newGuardFixture()

	req := withSession(t, tokens, httptest.NewRequest(http.MethodGet, "/checkout", nil))

	assert.Equal(t, http.StatusOK, serveGuarded(guard, req).Code)
}

func TestGuardRedirectsAuthenticatedFromAuthPage(t *testing.T) {
	tokens, guard := newGuardFixture()

	req := withSession(t, tokens, httptest.NewRequest(http.MethodGet, "/login", nil))
	rec := serveGuarded(guard, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/account", rec.Header().Get("Location"))
}

func TestGuardAllowsAnonymousOnAuthPage(t *testing.T) {
	_, guard := newGuardFixture()

	rec := serveGuarded(guard, httptest.NewRequest(http.MethodGet, "/register", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuardIgnoresPublicPages(t *testing.T) {
	tokens, guard := newGuardFixture()

	rec := serveGuarded(guard, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	req := withSession(t, tokens, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, serveGuarded(guard, req).Code)
}

func TestGuardTreatsInvalidTokenAsAnonymous(t *testing.T) {
	_, guard := newGuardFixture()

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "garbage"})

	rec := serveGuarded(guard, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?returnUrl=%2Forders", rec.Header().Get("Location"))
}

func TestGuardDoesNotProtectPrefixLookalikes(t *testing.T) {
	_, guard := newGuardFixture()

	// /accounting shares a prefix string but is not under /account.
	rec := serveGuarded(guard, httptest.NewRequest(http.MethodGet, "/accounting", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
