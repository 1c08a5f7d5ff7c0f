package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters; 16 MiB of memory per derivation.
const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
	saltLen      = 16
)

// HashPassword derives a key from the password and a fresh random salt.
// Stored form is hex(hash) + "." + hex(salt).
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(hash) + "." + hex.EncodeToString(salt), nil
}

// VerifyPassword re-derives the key with the stored salt and compares the
// digests in constant time.
func VerifyPassword(password, stored string) (bool, error) {
	parts := strings.Split(stored, ".")
	if len(parts) != 2 {
		return false, errors.New("malformed password hash")
	}

	hash, err := hex.DecodeString(parts[0])
	if err != nil {
		return false, err
	}
	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false, err
	}

	derived, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare(hash, derived) == 1, nil
}
