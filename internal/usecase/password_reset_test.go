package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techdetails/storefront-api/internal/model"
	"github.com/techdetails/storefront-api/shared/mailer"
	"github.com/techdetails/storefront-api/shared/security"
)

func newResetFixture(t *testing.T) (*fakeUserRepo, *fakeResetTokenRepo, PasswordResetUsecase, *model.User) {
	t.Helper()

	userRepo := newFakeUserRepo()
	tokenRepo := newFakeResetTokenRepo()
	logger := zerolog.Nop()

	passwordHash, err := security.HashPassword("original-pass")
	require.NoError(t, err)

	user, err := userRepo.CreateUser(context.Background(), &model.User{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: passwordHash,
		Role:         model.RoleUser,
	})
	require.NoError(t, err)

	// Mail delivery fails against the zero-value dialer; request paths must
	// swallow that.
	uc := NewPasswordResetUsecase(
		userRepo, tokenRepo, newTestTokenService(), mailer.NewMailer(mailer.Config{}),
		15*time.Minute, "http://localhost:8080", &logger)

	return userRepo, tokenRepo, uc, user
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	_, tokenRepo, uc, _ := newResetFixture(t)

	err := uc.RequestPasswordReset(context.Background(), "nobody@example.com")
	require.NoError(t, err)

	assert.Empty(t, tokenRepo.tokens)
}

func TestRequestPasswordResetStoresToken(t *testing.T) {
	_, tokenRepo, uc, user := newResetFixture(t)

	err := uc.RequestPasswordReset(context.Background(), "alice@example.com")
	require.NoError(t, err)

	require.Len(t, tokenRepo.tokens, 1)
	for _, record := range tokenRepo.tokens {
		assert.Equal(t, user.ID, record.UserID)
		assert.Equal(t, "alice@example.com", record.Email)
		assert.True(t, record.ExpiresAt.After(time.Now()))
	}
}

func TestRequestPasswordResetReplacesPriorToken(t *testing.T) {
	_, tokenRepo, uc, _ := newResetFixture(t)

	require.NoError(t, uc.RequestPasswordReset(context.Background(), "alice@example.com"))
	require.NoError(t, uc.RequestPasswordReset(context.Background(), "alice@example.com"))

	assert.Len(t, tokenRepo.tokens, 1)
}

func TestResetPasswordIsSingleUse(t *testing.T) {
	userRepo, tokenRepo, uc, user := newResetFixture(t)

	require.NoError(t, uc.RequestPasswordReset(context.Background(), "alice@example.com"))

	var token string
	for value := range tokenRepo.tokens {
		token = value
	}

	require.NoError(t, uc.ResetPassword(context.Background(), token, "brand-new-pass"))

	updated, err := userRepo.GetUser(context.Background(), user.ID.Hex())
	require.NoError(t, err)

	ok, err := security.VerifyPassword("brand-new-pass", updated.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	// The record was consumed; the same token cannot be replayed.
	err = uc.ResetPassword(context.Background(), token, "another-pass")
	assert.ErrorIs(t, err, ErrResetTokenNotFound)
}

func TestResetPasswordRejectsGarbageToken(t *testing.T) {
	_, _, uc, _ := newResetFixture(t)

	err := uc.ResetPassword(context.Background(), "not-a-token", "new-pass")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestResetPasswordExpiredRecord(t *testing.T) {
	_, tokenRepo, uc, _ := newResetFixture(t)

	require.NoError(t, uc.RequestPasswordReset(context.Background(), "alice@example.com"))

	for _, record := range tokenRepo.tokens {
		record.ExpiresAt = time.Now().Add(-time.Minute)
	}

	var token string
	for value := range tokenRepo.tokens {
		token = value
	}

	err := uc.ResetPassword(context.Background(), token, "new-pass")
	assert.ErrorIs(t, err, ErrResetTokenExpired)
}

func TestValidateResetToken(t *testing.T) {
	_, tokenRepo, uc, _ := newResetFixture(t)

	require.NoError(t, uc.RequestPasswordReset(context.Background(), "alice@example.com"))

	var token string
	for value := range tokenRepo.tokens {
		token = value
	}

	assert.NoError(t, uc.ValidateResetToken(context.Background(), token))
	assert.ErrorIs(t, uc.ValidateResetToken(context.Background(), "garbage"), ErrResetTokenInvalid)
}
