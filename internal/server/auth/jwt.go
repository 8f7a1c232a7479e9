package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/idkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// VerifyClaims is the payload of an activation verify token. ExpiresAt is
// kept alongside the registered exp claim because exp only has second
// precision.
type VerifyClaims struct {
	jwt.RegisteredClaims
	AccountID        string    `json:"accountId"`
	VerifyExpireDate time.Time `json:"verifyExpireDate"`
}

// GenerateVerifyToken signs {accountID, expiresAt} with HS256.
func GenerateVerifyToken(accountID string, expiresAt time.Time, secretKey []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, VerifyClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		AccountID:        accountID,
		VerifyExpireDate: expiresAt,
	})

	s, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("sign verify token: %w", err)
	}
	return s, nil
}

// ParseVerifyToken checks the signature and returns the embedded account id
// and expiry. Tampered or malformed tokens yield common.ErrInvalidToken,
// tokens with now >= expiry yield common.ErrTokenExpired.
func ParseVerifyToken(tokenString string, secretKey []byte, now time.Time) (string, time.Time, error) {
	claims := &VerifyClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !token.Valid {
		return "", time.Time{}, errors.Join(common.ErrInvalidToken, err)
	}
	if claims.AccountID == "" || claims.VerifyExpireDate.IsZero() {
		return "", time.Time{}, common.ErrInvalidToken
	}
	if !now.Before(claims.VerifyExpireDate) {
		return "", time.Time{}, common.ErrTokenExpired
	}

	return claims.AccountID, claims.VerifyExpireDate, nil
}
