// Package cryptox hashes and verifies user passwords with argon2id.
//
// Hashes are self-describing strings:
//
//	argon2id$v=19$m=65536,t=1,p=4$<salt base64>$<key base64>
//
// so parameters can be raised later without breaking stored users.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/equilibri/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltSize    = 16
	keySize     = 32
	timeCost    = 1
	memoryCost  = 64 * 1024
	parallelism = 4

	// upper bounds accepted from stored hashes
	maxTimeCost   = 16
	maxMemoryCost = 1024 * 1024
)

var ErrMalformedHash = errors.New("malformed password hash")

// dummyHash is verified against when a login is unknown so that both failure
// paths cost one argon2 derivation.
var dummyHash = mustHash([]byte("equilibri-dummy-password"))

func deriveKey(password, salt []byte, t, m uint32, p uint8) []byte {
	return argon2.IDKey(password, salt, t, m, p, keySize)
}

// HashPassword derives an argon2id key from password and a fresh random salt.
func HashPassword(password []byte) (string, error) {
	if len(password) == 0 {
		return "", fmt.Errorf("%w: empty password", common.ErrInvalidArgument)
	}
	salt := common.GenerateRandByteArray(saltSize)
	key := deriveKey(password, salt, timeCost, memoryCost, parallelism)

	return fmt.Sprintf("argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, memoryCost, timeCost, parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// VerifyPassword reports whether password matches encoded. Malformed hashes
// never match.
func VerifyPassword(password []byte, encoded string) bool {
	salt, key, t, m, p, err := decodeHash(encoded)
	if err != nil {
		return false
	}
	candidate := argon2.IDKey(password, salt, t, m, p, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, candidate) == 1
}

// BurnVerification runs a verification against a fixed hash and discards the
// result.
func BurnVerification(password []byte) {
	_ = VerifyPassword(password, dummyHash)
}

func decodeHash(encoded string) (salt, key []byte, t, m uint32, p uint8, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[0] != "argon2id" {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}

	var version int
	if _, err = fmt.Sscanf(parts[1], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}
	if _, err = fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &m, &t, &p); err != nil {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}
	if t == 0 || t > maxTimeCost || m == 0 || m > maxMemoryCost || p == 0 {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}
	if salt, err = base64.RawStdEncoding.DecodeString(parts[3]); err != nil {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}
	if key, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(key) == 0 {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}
	return salt, key, t, m, p, nil
}

func mustHash(password []byte) string {
	h, err := HashPassword(password)
	if err != nil {
		panic(err)
	}
	return h
}
