package auth

import "golang.org/x/crypto/bcrypt"

// BcryptHasher implements PasswordHasher with bcrypt. The produced digest
// embeds cost and salt, so Verify needs no external parameters.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher with the given work factor. Cost 0 falls
// back to 10, matching what registered digests were created with.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = 10
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", ErrRegistry.NewWithCause(CodeHashingFailed, err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the stored digest. bcrypt's
// comparison is constant time over the hash output.
func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

var _ PasswordHasher = (*BcryptHasher)(nil)
