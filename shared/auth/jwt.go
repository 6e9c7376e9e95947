package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// purposePasswordReset discriminates reset tokens from session tokens so
// neither can be replayed as the other.
const purposePasswordReset = "password-reset"

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, expired, or wrong purpose. Callers must not surface the
// distinction to clients.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims carried by session and password reset tokens.
type Claims struct {
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-limited tokens using a
// symmetric secret loaded from configuration.
type TokenService struct {
	secret     []byte
	issuer     string
	sessionTTL time.Duration
	resetTTL   time.Duration
}

// NewTokenService creates a new TokenService instance.
func NewTokenService(secret, issuer string, sessionTTL, resetTTL time.Duration) TokenService {
	return TokenService{
		secret:     []byte(secret),
		issuer:     issuer,
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
	}
}

// SessionTTL returns the configured session token lifetime.
func (s *TokenService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// IssueSession generates a session token for the given user ID.
func (s *TokenService) IssueSession(userID string) (string, error) {
	return s.generate(userID, "", s.sessionTTL)
}

// IssueReset generates a short-lived password reset token for the given
// user ID.
func (s *TokenService) IssueReset(userID string) (string, error) {
	return s.generate(userID, purposePasswordReset, s.resetTTL)
}

// VerifySession verifies a session token and returns its subject. Reset
// tokens are rejected.
func (s *TokenService) VerifySession(tokenStr string) (string, error) {
	claims, err := s.verify(tokenStr)
	if err != nil {
		return "", err
	}

	if claims.Purpose != "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// VerifyReset verifies a password reset token and returns its subject.
// Session tokens are rejected.
func (s *TokenService) VerifyReset(tokenStr string) (string, error) {
	claims, err := s.verify(tokenStr)
	if err != nil {
		return "", err
	}

	if claims.Purpose != purposePasswordReset {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

func (s *TokenService) generate(userID, purpose string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenStr, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	return tokenStr, nil
}

func (s *TokenService) verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return s.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
