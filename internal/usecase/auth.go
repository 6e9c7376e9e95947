package usecase

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/techdetails/storefront-api/internal/model"
	"github.com/techdetails/storefront-api/internal/repository"
	"github.com/techdetails/storefront-api/shared/auth"
	"github.com/techdetails/storefront-api/shared/security"
)

// AuthUsecase defines the interface for authentication-related use cases.
type AuthUsecase interface {
	Register(ctx context.Context, params RegisterParams) (*model.User, string, error)
	Login(ctx context.Context, params LoginParams) (*model.User, string, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

type authUsecase struct {
	userRepo repository.UserRepository
	tokens   auth.TokenService
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(userRepo repository.UserRepository, tokens auth.TokenService) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// NormalizeEmail lowercases and trims an email address. All directory
// lookups and writes use the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) (*model.User, string, error) {
	email := NormalizeEmail(params.Email)

	// Fast-path duplicate check for a friendlier error. The unique index on
	// email remains the source of truth for the race window.
	if _, err := u.userRepo.GetUserByEmail(ctx, email); err == nil {
		return nil, "", ErrUserAlreadyExists
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, "", err
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, "", err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Name:         params.Name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         model.RoleUser,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, "", ErrUserAlreadyExists
		}

		return nil, "", err
	}

	token, err := u.tokens.IssueSession(user.ID.Hex())
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (*model.User, string, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, NormalizeEmail(params.Email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Indistinguishable from a wrong password so accounts cannot be
			// enumerated.
			return nil, "", ErrInvalidCredentials
		}

		return nil, "", err
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return nil, "", err
	} else if !ok {
		return nil, "", ErrInvalidCredentials
	}

	token, err := u.tokens.IssueSession(user.ID.Hex())
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (u *authUsecase) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}
