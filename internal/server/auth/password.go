package auth

import (
	"github.com/dmitrijs2005/idkeeper/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// Verifier checks a plain password against a stored verifier blob.
type Verifier interface {
	Verify(plain string, blob []byte) bool
}

// PasswordHasher produces blobs its own Verify accepts.
type PasswordHasher interface {
	Verifier
	Hash(plain string) ([]byte, error)
}

// BcryptVerifier hashes and verifies with bcrypt. Zero Cost means
// bcrypt.DefaultCost.
type BcryptVerifier struct {
	Cost int
}

func (v BcryptVerifier) Hash(plain string) ([]byte, error) {
	cost := v.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	p := []byte(plain)
	defer common.WipeByteArray(p)
	return bcrypt.GenerateFromPassword(p, cost)
}

// Verify reports false for an empty blob, which is how guests are stored.
func (v BcryptVerifier) Verify(plain string, blob []byte) bool {
	if len(blob) == 0 {
		return false
	}
	p := []byte(plain)
	defer common.WipeByteArray(p)
	return bcrypt.CompareHashAndPassword(blob, p) == nil
}
