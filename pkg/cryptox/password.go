package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// MaxPasswordLength bounds hash input so a caller cannot feed us megabytes
// of data to chew through. Anything a human types fits comfortably.
const MaxPasswordLength = 1024

// maxVerifyMemoryKiB caps the memory cost a stored hash may demand during
// verification (1 GiB). No hash we ever wrote comes close.
const maxVerifyMemoryKiB = 1 << 20

var (
	// ErrEmptyPassword is returned when an empty plaintext reaches HashPassword.
	ErrEmptyPassword = errors.New("cryptox: empty password")

	// ErrPasswordTooLong is returned when the plaintext exceeds MaxPasswordLength.
	ErrPasswordTooLong = errors.New("cryptox: password exceeds maximum length")

	// ErrMismatch is returned by VerifyPassword for any failed comparison,
	// including malformed stored hashes, so the cause cannot be distinguished.
	ErrMismatch = errors.New("cryptox: password does not match")
)

// Params are the Argon2id cost parameters. Tune Iterations/Memory so a single
// hash lands in the 100-300ms range on the target hardware.
type Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	KeyLength   uint32
	SaltLength  uint32
}

// DefaultParams follows the OWASP Argon2id recommendation (19 MiB, t=2, p=1).
func DefaultParams() Params {
	return Params{
		Memory:      19 * 1024,
		Iterations:  2,
		Parallelism: 1,
		KeyLength:   32,
		SaltLength:  16,
	}
}

var params = DefaultParams()

// SetParams overrides the process-wide hashing cost. Call once during startup,
// before any hashing happens.
func SetParams(p Params) {
	if p.Memory == 0 || p.Iterations == 0 || p.Parallelism == 0 {
		return
	}
	if p.KeyLength == 0 {
		p.KeyLength = 32
	}
	if p.SaltLength == 0 {
		p.SaltLength = 16
	}
	params = p
}

// HashPassword generates a PHC-format Argon2id hash string including salt and
// parameters. Empty or oversized input is rejected before any work is done.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}

	salt := make([]byte, params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey(
		[]byte(password+GetPepper()),
		salt,
		params.Iterations,
		params.Memory,
		params.Parallelism,
		params.KeyLength,
	)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		params.Memory,
		params.Iterations,
		params.Parallelism,
		b64Salt,
		b64Hash,
	), nil
}

// VerifyPassword compares a plaintext password against a PHC-style Argon2id
// hash. A malformed stored hash is a mismatch, never a panic: the caller gets
// ErrMismatch either way so the failure cause cannot leak.
func VerifyPassword(password, encodedHash string) error {
	// Parse PHC format: $argon2id$v=19$m=X,t=Y,p=Z$salt$hash
	parts := make([]string, 0, 6)
	start := 0
	for i := range len(encodedHash) {
		if encodedHash[i] == '$' {
			parts = append(parts, encodedHash[start:i])
			start = i + 1
		}
	}
	parts = append(parts, encodedHash[start:])

	// Expected structure: ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	if len(parts) != 6 || parts[1] != "argon2id" || parts[2] != "v=19" {
		return ErrMismatch
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return ErrMismatch
	}

	// argon2.IDKey panics on zero rounds or parallelism and on memory below
	// 8 KiB per lane, and an absurd m would attempt that allocation. Anything
	// outside sane bounds is a corrupt hash, which is a mismatch.
	if iters < 1 || par < 1 || mem < 8*uint32(par) || mem > maxVerifyMemoryKiB {
		return ErrMismatch
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return ErrMismatch
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return ErrMismatch
	}
	if len(expected) == 0 {
		return ErrMismatch
	}

	// Recompute with the cost parameters embedded in the stored hash so old
	// hashes keep verifying after a cost bump.
	computed := argon2.IDKey(
		[]byte(password+GetPepper()),
		salt,
		iters,
		mem,
		par,
		uint32(len(expected)), // #nosec G115 - bounded by base64 input size
	)

	if subtle.ConstantTimeCompare(computed, expected) == 1 {
		return nil
	}
	return ErrMismatch
}
