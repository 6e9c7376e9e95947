package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/techdetails/storefront-api/internal/middleware"
	"github.com/techdetails/storefront-api/internal/model"
	"github.com/techdetails/storefront-api/internal/repository"
	"github.com/techdetails/storefront-api/internal/usecase"
	"github.com/techdetails/storefront-api/shared/auth"
	"github.com/techdetails/storefront-api/shared/validation"
)

// fakeUserRepo backs the auth flow with an in-memory user map. Only the
// methods the auth endpoints reach are implemented.
type fakeUserRepo struct {
	repository.UserRepository
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, mongo.CommandError{Code: 11000, Message: "duplicate key"}
		}
	}

	stored := *user
	stored.ID = bson.NewObjectID()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.users[stored.ID.Hex()] = &stored

	copied := stored
	return &copied, nil
}

func (r *fakeUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}

// stubResetUsecase returns canned results so handler status mapping can be
// exercised without a token store.
type stubResetUsecase struct {
	requestErr  error
	resetErr    error
	validateErr error
}

func (s *stubResetUsecase) RequestPasswordReset(context.Context, string) error { return s.requestErr }
func (s *stubResetUsecase) ResetPassword(context.Context, string, string) error {
	return s.resetErr
}
func (s *stubResetUsecase) ValidateResetToken(context.Context, string) error {
	return s.validateErr
}

type authTestServer struct {
	handler *AuthHandler
	tokens  auth.TokenService
	reset   *stubResetUsecase
}

func newAuthTestServer(t *testing.T) *authTestServer {
	t.Helper()

	validator, err := validation.NewValidator()
	require.NoError(t, err)

	logger := zerolog.Nop()
	tokens := auth.NewTokenService("test-secret", "storefront-test", time.Hour, time.Hour)
	reset := &stubResetUsecase{}

	authUsecase := usecase.NewAuthUsecase(newFakeUserRepo(), tokens)
	h := NewAuthHandler(authUsecase, reset, tokens, validator, false, &logger)

	return &authTestServer{handler: h, tokens: tokens, reset: reset}
}

func postJSON(handlerFunc http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handlerFunc(rec, req)

	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == auth.SessionCookieName {
			return cookie
		}
	}

	t.Fatal("session cookie not set")
	return nil
}

func TestRegisterSetsCookieAndReturnsUser(t *testing.T) {
	ts := newAuthTestServer(t)

	rec := postJSON(ts.handler.Register, "/api/auth/register",
		`{"name":"Alice","email":"Alice@Example.com","password":"secret-pass"}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)

	subject, err := ts.tokens.VerifySession(cookie.Value)
	require.NoError(t, err)
	assert.NotEmpty(t, subject)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	var user map[string]any
	require.NoError(t, json.Unmarshal(body["user"], &user))
	assert.Equal(t, "alice@example.com", user["email"])
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, user, "password_hash")
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	ts := newAuthTestServer(t)

	rec := postJSON(ts.handler.Register, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"secret-pass"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(ts.handler.Register, "/api/auth/register",
		`{"name":"Impostor","email":"ALICE@example.com","password":"other-pass"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "EMAIL_EXISTS", body["code"])
}

func TestRegisterValidationErrors(t *testing.T) {
	ts := newAuthTestServer(t)

	rec := postJSON(ts.handler.Register, "/api/auth/register",
		`{"name":"","email":"not-an-email","password":"abc"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields, "password")
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ts := newAuthTestServer(t)

	rec := postJSON(ts.handler.Register, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"secret-pass"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	wrongPassword := postJSON(ts.handler.Login, "/api/auth/login",
		`{"email":"alice@example.com","password":"wrong-pass"}`)
	unknownEmail := postJSON(ts.handler.Login, "/api/auth/login",
		`{"email":"nobody@example.com","password":"secret-pass"}`)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestLoginAfterRegister(t *testing.T) {
	ts := newAuthTestServer(t)

	rec := postJSON(ts.handler.Register, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"secret-pass"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(ts.handler.Login, "/api/auth/login",
		`{"email":"alice@example.com","password":"secret-pass"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(t, rec)
	_, err := ts.tokens.VerifySession(cookie.Value)
	assert.NoError(t, err)
}

func TestLogoutExpiresCookie(t *testing.T) {
	ts := newAuthTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	ts.handler.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(t, rec)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestCurrentUser(t *testing.T) {
	ts := newAuthTestServer(t)

	t.Run("anonymous gets 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ts.handler.CurrentUser(rec, httptest.NewRequest(http.MethodGet, "/api/auth/user", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("authenticated gets own profile", func(t *testing.T) {
		user := &model.User{ID: bson.NewObjectID(), Name: "Alice", Email: "alice@example.com", Role: model.RoleUser}

		req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
		req = req.WithContext(middleware.WithUser(req.Context(), user))

		rec := httptest.NewRecorder()
		ts.handler.CurrentUser(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "alice@example.com")
	})
}

func TestForgotPasswordAlwaysSucceeds(t *testing.T) {
	ts := newAuthTestServer(t)

	rec := postJSON(ts.handler.ForgotPassword, "/api/auth/forgot-password",
		`{"email":"nobody@example.com"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestResetPasswordStatusMapping(t *testing.T) {
	ts := newAuthTestServer(t)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, http.StatusOK},
		{"invalid token", usecase.ErrResetTokenInvalid, http.StatusBadRequest},
		{"consumed token", usecase.ErrResetTokenNotFound, http.StatusBadRequest},
		{"expired token", usecase.ErrResetTokenExpired, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts.reset.resetErr = tc.err

			rec := postJSON(ts.handler.ResetPassword, "/api/auth/reset-password",
				`{"token":"some-token","password":"new-password"}`)

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestVerifyResetToken(t *testing.T) {
	ts := newAuthTestServer(t)

	t.Run("valid token", func(t *testing.T) {
		ts.reset.validateErr = nil

		req := httptest.NewRequest(http.MethodGet, "/api/auth/verify-reset-token?token=some-token", nil)
		rec := httptest.NewRecorder()
		ts.handler.VerifyResetToken(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"valid":true}`, rec.Body.String())
	})

	t.Run("invalid token", func(t *testing.T) {
		ts.reset.validateErr = usecase.ErrResetTokenInvalid

		req := httptest.NewRequest(http.MethodGet, "/api/auth/verify-reset-token?token=bad", nil)
		rec := httptest.NewRecorder()
		ts.handler.VerifyResetToken(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"valid":false`)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/verify-reset-token", nil)
		rec := httptest.NewRecorder()
		ts.handler.VerifyResetToken(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
