package security_test

import (
	"encoding/hex"
	"testing"

	"github.com/angelmondragon/ordermanagement-api/pkg/config"
	"github.com/angelmondragon/ordermanagement-api/pkg/security"
)

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		Iterations: 10000,
		KeyLen:     64,
		SaltLen:    16,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := testPasswordConfig()

	cred, err := security.HashPassword("s3cret!", cfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if cred.Salt == "" || cred.Hash == "" {
		t.Fatal("HashPassword returned empty credential")
	}
	if cred.Hash == "s3cret!" || cred.Salt == "s3cret!" {
		t.Fatal("credential must not contain the plaintext")
	}

	ok, err := security.VerifyPassword("s3cret!", cred, cfg)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for valid credential: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword failed for the correct password")
	}

	ok, err = security.VerifyPassword("s3cret", cred, cfg)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestVerifyPasswordUsesStoredIterations(t *testing.T) {
	cfg := testPasswordConfig()
	cred, err := security.HashPassword("secret", cfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if cred.Iterations != 10000 {
		t.Fatalf("expected credential to record 10000 iterations, got %d", cred.Iterations)
	}

	raised := cfg
	raised.Iterations = 20000
	ok, err := security.VerifyPassword("secret", cred, raised)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if !ok {
		t.Fatal("credential hashed before an iteration bump must keep verifying")
	}

	rehashed, err := security.HashPassword("secret", raised)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if rehashed.Iterations != 20000 {
		t.Fatalf("expected new credential to record 20000 iterations, got %d", rehashed.Iterations)
	}
	if ok, _ := security.VerifyPassword("secret", rehashed, cfg); !ok {
		t.Fatal("credential hashed at 20000 iterations must verify under a 10000 config")
	}
}

func TestVerifyPasswordFallsBackToConfiguredIterations(t *testing.T) {
	cfg := testPasswordConfig()
	cred, err := security.HashPassword("secret", cfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	cred.Iterations = 0
	if ok, err := security.VerifyPassword("secret", cred, cfg); err != nil || !ok {
		t.Fatalf("expected legacy credential to verify, ok=%v err=%v", ok, err)
	}
}

func TestVerifyPasswordIsCaseSensitive(t *testing.T) {
	cfg := testPasswordConfig()
	cred, err := security.HashPassword("Password", cfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	ok, err := security.VerifyPassword("password", cred, cfg)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if ok {
		t.Fatal("passwords differing only in case must not verify")
	}
}

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	cfg := testPasswordConfig()
	first, err := security.HashPassword("same-password", cfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	second, err := security.HashPassword("same-password", cfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if first.Salt == second.Salt {
		t.Fatal("expected distinct salts for repeated hashing")
	}
	if first.Hash == second.Hash {
		t.Fatal("expected distinct hashes for repeated hashing")
	}

	raw, err := hex.DecodeString(first.Salt)
	if err != nil {
		t.Fatalf("salt should be hex encoded: %v", err)
	}
	if len(raw) != 16 {
		t.Fatalf("expected 16 byte salt, got %d", len(raw))
	}
	key, err := hex.DecodeString(first.Hash)
	if err != nil {
		t.Fatalf("hash should be hex encoded: %v", err)
	}
	if len(key) != 64 {
		t.Fatalf("expected 64 byte key, got %d", len(key))
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := security.HashPassword("", testPasswordConfig()); err != security.ErrEmptyPassword {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	cfg := testPasswordConfig()
	if _, err := security.VerifyPassword("irrelevant", security.Credential{Salt: "abcd", Hash: "not-hex"}, cfg); err == nil {
		t.Fatal("expected error for malformed hash")
	}
	if _, err := security.VerifyPassword("irrelevant", security.Credential{}, cfg); err == nil {
		t.Fatal("expected error for empty credential")
	}
}
