// Package password wraps Argon2id hashing and verification behind PHC-encoded
// hash strings, so stored hashes carry their own parameters.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrMismatch is returned when a password does not verify against a stored
// hash. A malformed stored hash yields the same error on purpose: callers
// must not be able to tell the two cases apart.
var ErrMismatch = errors.New("password verification failed")

// Config holds the Argon2id work parameters embedded into every hash.
type Config struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultConfig is tuned for interactive logins: 64 MB memory, 3 iterations,
// 4 lanes.
func DefaultConfig() Config {
	return Config{
		Memory:      64 * 1024,
		Time:        3,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Hasher derives and verifies Argon2id password hashes. The zero value is not
// usable; construct with NewHasher.
type Hasher struct {
	cfg Config
}

func NewHasher(cfg Config) *Hasher {
	return &Hasher{cfg: cfg}
}

// Hash derives a salted Argon2id hash of password and encodes it as
// $argon2id$v=19$m=...,t=...,p=...$salt$digest. A fresh random salt is drawn
// on every call.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.cfg.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	digest := argon2.IDKey(
		[]byte(password),
		salt,
		h.cfg.Time,
		h.cfg.Memory,
		h.cfg.Parallelism,
		h.cfg.KeyLength,
	)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.cfg.Memory,
		h.cfg.Time,
		h.cfg.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	), nil
}

// Verify re-derives a hash of password using the parameters embedded in
// encodedHash and compares digests in constant time. It returns ErrMismatch
// on wrong password and on a stored hash that cannot be parsed.
func (h *Hasher) Verify(password, encodedHash string) error {
	memory, time, parallelism, salt, digest, ok := decodeHash(encodedHash)
	if !ok {
		return ErrMismatch
	}

	computed := argon2.IDKey(
		[]byte(password),
		salt,
		time,
		memory,
		parallelism,
		uint32(len(digest)),
	)

	if subtle.ConstantTimeCompare(computed, digest) != 1 {
		return ErrMismatch
	}
	return nil
}

func decodeHash(encodedHash string) (memory, time uint32, parallelism uint8, salt, digest []byte, ok bool) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return 0, 0, 0, nil, nil, false
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &parallelism); err != nil {
		return 0, 0, 0, nil, nil, false
	}
	// argon2.IDKey panics below these minimums instead of returning an error.
	if time < 1 || parallelism < 1 || memory < 8*uint32(parallelism) {
		return 0, 0, 0, nil, nil, false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return 0, 0, 0, nil, nil, false
	}
	digest, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(digest) == 0 {
		return 0, 0, 0, nil, nil, false
	}

	return memory, time, parallelism, salt, digest, true
}
