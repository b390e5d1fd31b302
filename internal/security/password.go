// Copyright (c) 2026 masdens1250
// MIFTAH - SPARTA security hub
// This source code is licensed under the MIT license found in the LICENSE file.

// Package security provides the password hashing primitive for operator
// credentials. Hashes use Argon2id with a per-hash random salt and are
// stored in the standard PHC string format, so parameters can be tightened
// later without invalidating existing hashes.
package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrHashFormat is returned when a stored hash cannot be parsed.
var ErrHashFormat = errors.New("malformed password hash")

// ErrMismatch is returned by Verify when the password does not match.
var ErrMismatch = errors.New("password does not match hash")

// Parameters fixed per deployment. The values follow the Argon2id defaults
// used by the reference argon2 implementations: 64 MiB, 3 passes.
const (
	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

// Hasher hashes and verifies operator passwords.
type Hasher struct{}

// NewHasher returns a password hasher with the deployment parameters.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Hash derives an Argon2id hash of password under a fresh random salt and
// returns it encoded as a PHC string.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("reading salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// Verify checks password against a stored PHC hash. It returns nil on
// match, ErrMismatch on a wrong password, and ErrHashFormat when the stored
// value cannot be parsed. The comparison is constant time.
func (h *Hasher) Verify(encoded, password string) error {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return ErrHashFormat
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return ErrHashFormat
	}
	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return ErrHashFormat
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return ErrHashFormat
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return ErrHashFormat
	}

	got := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(want)))
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrMismatch
	}
	return nil
}
