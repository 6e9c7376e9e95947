package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/techdetails/storefront-api/internal/model"
	"github.com/techdetails/storefront-api/internal/repository"
	"github.com/techdetails/storefront-api/shared/auth"
	"github.com/techdetails/storefront-api/shared/mailer"
	"github.com/techdetails/storefront-api/shared/security"
)

// PasswordResetUsecase defines the business logic for password reset
// operations.
type PasswordResetUsecase interface {
	// RequestPasswordReset initiates the password reset process for a given
	// email. It succeeds whether or not the email exists.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword consumes a reset token and sets the new password.
	ResetPassword(ctx context.Context, token, newPassword string) error

	// ValidateResetToken checks whether a reset token is still usable.
	ValidateResetToken(ctx context.Context, token string) error
}

var (
	ErrResetTokenInvalid  = errors.New("invalid password reset token")
	ErrResetTokenNotFound = errors.New("password reset token not found")
	ErrResetTokenExpired  = errors.New("password reset token has expired")
)

type passwordResetUsecase struct {
	userRepo  repository.UserRepository
	tokenRepo repository.PasswordResetTokenRepository
	tokens    auth.TokenService
	mailer    *mailer.Mailer
	resetTTL  time.Duration
	baseURL   string
	logger    *zerolog.Logger
}

// NewPasswordResetUsecase creates a new instance of PasswordResetUsecase.
func NewPasswordResetUsecase(
	userRepo repository.UserRepository,
	tokenRepo repository.PasswordResetTokenRepository,
	tokens auth.TokenService,
	m *mailer.Mailer,
	resetTTL time.Duration,
	baseURL string,
	logger *zerolog.Logger,
) PasswordResetUsecase {
	return &passwordResetUsecase{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokens:    tokens,
		mailer:    m,
		resetTTL:  resetTTL,
		baseURL:   baseURL,
		logger:    logger,
	}
}

func (u *passwordResetUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// To prevent email enumeration, do not reveal that the email
			// does not exist.
			u.logger.Info().Msg("password reset requested for unknown email")
			return nil
		}
		return err
	}

	tokenStr, err := u.tokens.IssueReset(user.ID.Hex())
	if err != nil {
		return err
	}

	// One live token per user: the upsert replaces any prior token.
	if err := u.tokenRepo.UpsertToken(ctx, &model.PasswordResetToken{
		UserID:    user.ID,
		Token:     tokenStr,
		Email:     user.Email,
		ExpiresAt: time.Now().Add(u.resetTTL),
	}); err != nil {
		return err
	}

	// Past this point failures are swallowed: the caller always sees
	// success, operators see the log.
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", u.baseURL, tokenStr)
	htmlBody := fmt.Sprintf(`
		<p>Hello,</p>
		<p>You requested to reset the password for your Tech Details Shop account.</p>
		<p>Please click the link below to choose a new password:</p>

		<p><a href="%s">%s</a></p>

		<p>This link will expire in %s.</p>
		<p>If you didn't request this, you can safely ignore this email.</p>

		<p>Thank you,</p>
		<p>Tech Details Shop Team</p>
	`, resetLink, resetLink, u.resetTTL)

	if err := u.mailer.SendHTML([]string{user.Email}, "Password Reset - Tech Details Shop", htmlBody); err != nil {
		u.logger.Error().Err(err).Msg("failed to send password reset email")
	}

	return nil
}

func (u *passwordResetUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := u.tokens.VerifyReset(token)
	if err != nil {
		return ErrResetTokenInvalid
	}

	// The signature alone is not enough: the server-side record must still
	// exist. A consumed token has no record.
	record, err := u.tokenRepo.GetToken(ctx, token)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrResetTokenNotFound
		}
		return err
	}

	if time.Now().After(record.ExpiresAt) {
		return ErrResetTokenExpired
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if _, err := u.userRepo.UpdateUser(ctx, userID, repository.UpdateUserParams{
		PasswordHash: &passwordHash,
	}); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return err
	}

	return u.tokenRepo.DeleteToken(ctx, token)
}

func (u *passwordResetUsecase) ValidateResetToken(ctx context.Context, token string) error {
	if _, err := u.tokens.VerifyReset(token); err != nil {
		return ErrResetTokenInvalid
	}

	record, err := u.tokenRepo.GetToken(ctx, token)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrResetTokenNotFound
		}
		return err
	}

	if time.Now().After(record.ExpiresAt) {
		return ErrResetTokenExpired
	}

	return nil
}
