package hasher

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// SaltFactor is the bcrypt work factor. Hashing cost grows exponentially
// with it, which is the point: brute forcing stored hashes stays expensive.
const SaltFactor = 10

type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(candidate, storedHash string) (bool, error)
}

type bcryptHasher struct{}

func NewHasher() Hasher {
	return &bcryptHasher{}
}

func (h *bcryptHasher) Hash(plaintext string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(plaintext), SaltFactor)
	if err != nil {
		return "", err
	}

	return string(hashedPassword), nil
}

// Verify reports whether candidate matches storedHash. A mismatch is a
// (false, nil) result; only a malformed stored hash produces an error.
func (h *bcryptHasher) Verify(candidate, storedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(candidate))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
