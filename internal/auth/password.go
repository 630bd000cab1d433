// Package auth implements credential hashing and verification.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/emslab/labadmin/internal/config"
)

// Schemes accepted by NewHasher.
const (
	SchemeLegacy = "legacy"
	SchemeBcrypt = "bcrypt"
)

// Hasher produces password digests in the configured scheme and verifies
// digests of either scheme.
//
// The legacy scheme is an unsalted SHA-256 hex digest: equal plaintexts always
// produce identical digests. That property is required for compatibility with
// password_hash rows written by the previous system and is a documented
// weakness; deployments without legacy rows should configure bcrypt.
type Hasher struct {
	scheme string
	cost   int
}

// NewHasher creates a Hasher from AuthConfig.
func NewHasher(cfg config.AuthConfig) *Hasher {
	return &Hasher{
		scheme: strings.ToLower(cfg.PasswordScheme),
		cost:   cfg.BcryptCost,
	}
}

// Hash digests the UTF-8 bytes of password using the configured scheme.
func (h *Hasher) Hash(password string) (string, error) {
	if h.scheme == SchemeBcrypt {
		digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
		if err != nil {
			return "", fmt.Errorf("bcrypt hash: %w", err)
		}
		return string(digest), nil
	}
	return LegacyDigest(password), nil
}

// Verify reports whether password matches storedDigest. Bcrypt digests are
// recognized by their "$2" prefix; anything else is treated as a legacy hex
// digest and compared case-insensitively in constant time.
func (h *Hasher) Verify(password, storedDigest string) bool {
	if strings.HasPrefix(storedDigest, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(storedDigest), []byte(password)) == nil
	}

	computed := LegacyDigest(password)
	stored := strings.ToLower(storedDigest)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(stored)) == 1
}

// LegacyDigest returns the unsalted SHA-256 hex digest of password.
func LegacyDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
