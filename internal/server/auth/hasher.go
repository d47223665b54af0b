// Package auth implements the credential hasher and the session token codec.
// Both are pure functions of their inputs plus immutable configuration, so
// they are safe for concurrent use without coordination.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argon2id cost parameters. Changing them flips NeedsRehash for stored hashes.
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2SaltLen = 16
	argon2KeyLen  = 32
)

// ErrEmptyPassword is returned when attempting to hash an empty password.
var ErrEmptyPassword = errors.New("password cannot be empty")

// PasswordHasher turns plaintext passwords into storable hashes and checks
// candidates against them.
type PasswordHasher interface {
	// Hash produces a salted argon2id hash of the password. Two calls with
	// the same input yield different strings.
	Hash(password string) (string, error)

	// Verify reports whether the password matches the encoded hash.
	// A structurally malformed hash is treated as a non-match, never an error.
	Verify(password, encoded string) bool

	// NeedsRehash reports whether the stored hash uses a scheme or cost
	// parameters other than the currently configured ones.
	NeedsRehash(encoded string) bool
}

// Argon2idHasher implements PasswordHasher using argon2id with PHC-formatted
// output: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>.
type Argon2idHasher struct{}

func NewArgon2idHasher() *Argon2idHasher {
	return &Argon2idHasher{}
}

func (h *Argon2idHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("salt generation error: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)

	return encoded, nil
}

func (h *Argon2idHasher) Verify(password, encoded string) bool {
	version, memory, time, threads, salt, expected, ok := decodeHash(encoded)
	if !ok || version != argon2.Version {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(expected)))

	return subtle.ConstantTimeCompare(computed, expected) == 1
}

func (h *Argon2idHasher) NeedsRehash(encoded string) bool {
	version, memory, time, threads, salt, key, ok := decodeHash(encoded)
	if !ok {
		return true
	}
	return version != argon2.Version ||
		memory != argon2Memory ||
		time != argon2Time ||
		threads != argon2Threads ||
		len(salt) != argon2SaltLen ||
		len(key) != argon2KeyLen
}

// decodeHash parses a PHC argon2id string. ok is false on any structural
// problem; callers treat that as a non-match.
func decodeHash(encoded string) (version int, memory, time uint32, threads uint8, salt, key []byte, ok bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return 0, 0, 0, 0, nil, nil, false
	}

	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return 0, 0, 0, 0, nil, nil, false
	}

	var p uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &p); err != nil {
		return 0, 0, 0, 0, nil, nil, false
	}
	if p == 0 || p > 255 {
		return 0, 0, 0, 0, nil, nil, false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, 0, nil, nil, false
	}

	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return 0, 0, 0, 0, nil, nil, false
	}

	return version, memory, time, uint8(p), salt, key, true
}
