// Package password provides one-way hashing and verification of user
// passwords. Plaintext and digests must never be logged or returned to
// clients.
package password

import "golang.org/x/crypto/bcrypt"

// Cost is the bcrypt work factor used for all new hashes.
const Cost = 10

// Hasher hashes plaintext passwords and verifies candidates against a
// stored digest.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// BcryptHasher is the production Hasher. bcrypt salts each digest and
// performs the comparison itself, so Verify needs no extra constant-time
// handling.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: Cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
