// Package cryptox derives and checks password verifiers for journal accounts.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/dmitrijs2005/tradejournal/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of per-account salts.
const SaltSize = 32

// DeriveKey stretches password with salt using Argon2id
// (1 pass, 64 MiB, 4 lanes, 32-byte output).
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// MakeVerifier hashes a derived key. Only the verifier is stored.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// NewSalt returns a fresh random salt.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// NewVerifier derives the stored verifier for password and salt, wiping the
// intermediate key.
func NewVerifier(password, salt []byte) []byte {
	key := DeriveKey(password, salt)
	defer common.WipeByteArray(key)
	return MakeVerifier(key)
}

// CheckPassword reports whether password matches the stored verifier.
func CheckPassword(password, salt, verifier []byte) bool {
	candidate := NewVerifier(password, salt)
	return subtle.ConstantTimeCompare(candidate, verifier) == 1
}
