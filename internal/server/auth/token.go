// Package auth holds the pure building blocks of the identity core: opaque
// token generation, expiry arithmetic, signed activation tokens, password
// verification and language preference normalisation.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/idkeeper/internal/common"
)

// TokenConfig carries token lifetimes in seconds.
type TokenConfig struct {
	AccessTokenTTLSeconds  int64
	RefreshTokenTTLSeconds int64
	ActivationTTLSeconds   int64
}

// Validate requires non-negative lifetimes and a refresh lifetime strictly
// longer than the access lifetime.
func (c TokenConfig) Validate() error {
	if c.AccessTokenTTLSeconds < 0 || c.RefreshTokenTTLSeconds < 0 || c.ActivationTTLSeconds < 0 {
		return errors.New("token lifetimes must not be negative")
	}
	if c.RefreshTokenTTLSeconds <= c.AccessTokenTTLSeconds {
		return fmt.Errorf("refresh token ttl (%ds) must exceed access token ttl (%ds)",
			c.RefreshTokenTTLSeconds, c.AccessTokenTTLSeconds)
	}
	return nil
}

// GenerateToken returns a fresh opaque token: common.TokenSize bytes of
// crypto/rand, hex encoded.
func GenerateToken() (string, error) {
	return common.MakeRandHexString(common.TokenSize)
}

// ExpiryFrom returns base + seconds. A zero duration yields a timestamp that
// is already expired at base.
func ExpiryFrom(base time.Time, seconds int64) time.Time {
	return base.Add(time.Duration(seconds) * time.Second)
}
