package security

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/angelmondragon/ordermanagement-api/pkg/config"
	"golang.org/x/crypto/pbkdf2"
)

// ErrInvalidHash signals a stored credential that cannot be decoded.
var ErrInvalidHash = fmt.Errorf("invalid pbkdf2 credential")

// ErrEmptyPassword is returned when hashing an empty password.
var ErrEmptyPassword = fmt.Errorf("password cannot be empty")

// Credential is the persisted salt and derived key, both hex encoded, plus
// the iteration count the key was derived with. The plaintext password is
// never part of it.
type Credential struct {
	Salt       string
	Hash       string
	Iterations int
}

// Params captures the PBKDF2 parameters used for new credentials.
type Params struct {
	Iterations int
	KeyLen     int
	SaltLen    int
}

// HashPassword derives a fresh credential for the provided password using a
// new random salt, so hashing the same password twice yields different salts.
func HashPassword(password string, cfg config.PasswordConfig) (Credential, error) {
	if password == "" {
		return Credential{}, ErrEmptyPassword
	}

	params := paramsFromConfig(cfg)
	raw := make([]byte, params.SaltLen)
	if _, err := rand.Read(raw); err != nil {
		return Credential{}, fmt.Errorf("generate salt: %w", err)
	}
	salt := hex.EncodeToString(raw)

	key := derive(password, salt, params.Iterations, params.KeyLen)
	return Credential{Salt: salt, Hash: hex.EncodeToString(key), Iterations: params.Iterations}, nil
}

// VerifyPassword reports whether password matches the stored credential.
// Iterations and key length come from the credential itself, so changing the
// configured parameters only affects credentials hashed afterwards. A
// credential without a recorded iteration count uses the configured one.
func VerifyPassword(password string, cred Credential, cfg config.PasswordConfig) (bool, error) {
	if cred.Salt == "" || cred.Hash == "" || cred.Iterations < 0 {
		return false, ErrInvalidHash
	}
	stored, err := hex.DecodeString(cred.Hash)
	if err != nil || len(stored) == 0 {
		return false, ErrInvalidHash
	}

	iterations := cred.Iterations
	if iterations == 0 {
		iterations = paramsFromConfig(cfg).Iterations
	}
	computed := derive(password, cred.Salt, iterations, len(stored))

	if subtle.ConstantTimeCompare(stored, computed) == 1 {
		return true, nil
	}
	return false, nil
}

// The hex salt text itself is the PBKDF2 salt input.
func derive(password, salt string, iterations, keyLen int) []byte {
	return pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLen, sha512.New)
}

// Bounds match config.PasswordConfig validation; clamping only applies to
// configs built without Load, such as in tests.
func paramsFromConfig(cfg config.PasswordConfig) Params {
	return Params{
		Iterations: clampInt(cfg.Iterations, config.MinPBKDF2Iterations, config.MaxPBKDF2Iterations),
		KeyLen:     clampInt(cfg.KeyLen, config.MinPBKDF2KeyLen, config.MaxPBKDF2KeyLen),
		SaltLen:    clampInt(cfg.SaltLen, config.MinPBKDF2SaltLen, config.MaxPBKDF2SaltLen),
	}
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
