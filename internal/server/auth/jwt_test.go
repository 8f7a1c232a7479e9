package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/idkeeper/internal/common"
)

func TestVerifyToken_RoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	now := time.Date(2021, 6, 1, 12, 0, 0, 123456789, time.UTC)
	expires := ExpiryFrom(now, 3600)

	tok, err := GenerateVerifyToken("acc-123", expires, secret)
	if err != nil {
		t.Fatalf("GenerateVerifyToken error: %v", err)
	}

	gotID, gotExp, err := ParseVerifyToken(tok, secret, now)
	if err != nil {
		t.Fatalf("ParseVerifyToken error: %v", err)
	}
	if gotID != "acc-123" {
		t.Fatalf("account id mismatch: got %q", gotID)
	}
	if !gotExp.Equal(expires) {
		t.Fatalf("expiry mismatch: got %v want %v", gotExp, expires)
	}
}

func TestParseVerifyToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	now := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	expires := ExpiryFrom(now, 60)

	tok, err := GenerateVerifyToken("acc-1", expires, secret)
	if err != nil {
		t.Fatalf("GenerateVerifyToken error: %v", err)
	}

	if _, _, err := ParseVerifyToken(tok, secret, expires.Add(-time.Nanosecond)); err != nil {
		t.Fatalf("token must still be valid just before expiry: %v", err)
	}

	_, _, err = ParseVerifyToken(tok, secret, expires)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestParseVerifyToken_WrongSecret(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tok, err := GenerateVerifyToken("acc-2", now.Add(time.Hour), []byte("right-secret"))
	if err != nil {
		t.Fatalf("GenerateVerifyToken error: %v", err)
	}

	_, _, err = ParseVerifyToken(tok, []byte("wrong-secret"), now)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestParseVerifyToken_Tampered(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	now := time.Now()
	tok, err := GenerateVerifyToken("acc-3", now.Add(time.Hour), secret)
	if err != nil {
		t.Fatalf("GenerateVerifyToken error: %v", err)
	}

	parts := strings.Split(tok, ".")
	other, err := GenerateVerifyToken("acc-evil", now.Add(time.Hour), []byte("attacker"))
	if err != nil {
		t.Fatalf("GenerateVerifyToken error: %v", err)
	}
	forged := strings.Split(other, ".")[1]
	tampered := parts[0] + "." + forged + "." + parts[2]

	_, _, err = ParseVerifyToken(tampered, secret, now)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken for swapped payload, got %v", err)
	}
}

func TestParseVerifyToken_Malformed(t *testing.T) {
	t.Parallel()

	_, _, err := ParseVerifyToken("not.a.jwt", []byte("k"), time.Now())
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}

	// legacy placeholder format is rejected
	_, _, err = ParseVerifyToken(`{"id":"acc-1","verifyExpireDate":"2099-01-01T00:00:00Z"}`, []byte("k"), time.Now())
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken for JSON payload, got %v", err)
	}
}
