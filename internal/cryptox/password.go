// Package cryptox hashes and verifies operator passwords with argon2id.
//
// The stored form is argon2id$<salt-hex>$<key-hex>; the cost parameters are
// fixed by this package.
package cryptox

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fileboard/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	hashScheme = "argon2id"
	saltSize   = 16
	keySize    = 32
)

// DeriveKey stretches password with salt.
func DeriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, keySize)
}

// HashPassword returns the stored form of password with a fresh salt.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: empty password", common.ErrorValidation)
	}
	salt := common.GenerateRandByteArray(saltSize)
	pw := []byte(password)
	defer common.WipeByteArray(pw)

	key := DeriveKey(pw, salt)
	return strings.Join([]string{hashScheme, hex.EncodeToString(salt), hex.EncodeToString(key)}, "$"), nil
}

// VerifyPassword reports whether password matches the stored hash. A
// malformed hash is an error, a wrong password is not.
func VerifyPassword(stored, password string) (bool, error) {
	salt, want, err := parseHash(stored)
	if err != nil {
		return false, err
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)

	got := DeriveKey(pw, salt)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func parseHash(stored string) (salt, key []byte, err error) {
	parts := strings.Split(strings.TrimSpace(stored), "$")
	if len(parts) != 3 || parts[0] != hashScheme {
		return nil, nil, fmt.Errorf("%w: password hash must look like %s$<salt>$<key>", common.ErrorValidation, hashScheme)
	}
	if salt, err = hex.DecodeString(parts[1]); err != nil || len(salt) == 0 {
		return nil, nil, fmt.Errorf("%w: bad password hash salt", common.ErrorValidation)
	}
	if key, err = hex.DecodeString(parts[2]); err != nil || len(key) != keySize {
		return nil, nil, fmt.Errorf("%w: bad password hash key", common.ErrorValidation)
	}
	return salt, key, nil
}
