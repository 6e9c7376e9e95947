package security

import (
	"errors"

	"github.com/matthewhartstonge/argon2"
)

// ErrCorruptCredential is returned when a stored password hash cannot be
// decoded. It indicates data corruption rather than a failed verification.
var ErrCorruptCredential = errors.New("stored credential is corrupt")

// HashPassword hashes a plaintext password with argon2id using the default
// work factor. The plaintext is never persisted or logged.
func HashPassword(password string) (string, error) {
	cfg := argon2.DefaultConfig()

	encoded, err := cfg.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

// VerifyPassword checks a plaintext password against an encoded hash.
// A mismatch returns (false, nil); a hash that cannot be decoded returns
// ErrCorruptCredential.
func VerifyPassword(password, encoded string) (bool, error) {
	ok, err := argon2.VerifyEncoded([]byte(password), []byte(encoded))
	if err != nil {
		return false, errors.Join(ErrCorruptCredential, err)
	}

	return ok, nil
}
