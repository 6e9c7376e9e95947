package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techdetails/storefront-api/internal/model"
	"github.com/techdetails/storefront-api/shared/auth"
)

func newTestTokenService() auth.TokenService {
	return auth.NewTokenService("test-secret", "storefront-test", time.Hour, 15*time.Minute)
}

func TestRegisterIssuesSessionForNewUser(t *testing.T) {
	repo := newFakeUserRepo()
	tokens := newTestTokenService()
	uc := NewAuthUsecase(repo, tokens)

	user, token, err := uc.Register(context.Background(), RegisterParams{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "secret-pass", user.PasswordHash)

	subject, err := tokens.VerifySession(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), subject)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewAuthUsecase(repo, newTestTokenService())

	_, _, err := uc.Register(context.Background(), RegisterParams{
		Name: "Alice", Email: "alice@example.com", Password: "secret-pass",
	})
	require.NoError(t, err)

	_, _, err = uc.Register(context.Background(), RegisterParams{
		Name: "Impostor", Email: "ALICE@example.com", Password: "other-pass",
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLoginAfterRegister(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewAuthUsecase(repo, newTestTokenService())

	registered, _, err := uc.Register(context.Background(), RegisterParams{
		Name: "Alice", Email: "alice@example.com", Password: "secret-pass",
	})
	require.NoError(t, err)

	user, token, err := uc.Login(context.Background(), LoginParams{
		Email: "alice@example.com", Password: "secret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewAuthUsecase(repo, newTestTokenService())

	_, _, err := uc.Register(context.Background(), RegisterParams{
		Name: "Alice", Email: "alice@example.com", Password: "secret-pass",
	})
	require.NoError(t, err)

	_, _, err = uc.Login(context.Background(), LoginParams{
		Email: "alice@example.com", Password: "wrong-pass",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmailIndistinguishable(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewAuthUsecase(repo, newTestTokenService())

	_, _, err := uc.Login(context.Background(), LoginParams{
		Email: "nobody@example.com", Password: "whatever",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
}
