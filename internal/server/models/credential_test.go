package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCredential_Validity(t *testing.T) {
	t0 := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	c := Credential{
		AccessTokenExpireDate:  t0.Add(10 * time.Minute),
		RefreshTokenExpireDate: t0.Add(time.Hour),
	}

	tests := []struct {
		name        string
		now         time.Time
		wantAccess  bool
		wantRefresh bool
		wantState   CredentialState
	}{
		{"issued", t0, true, true, CredentialValid},
		{"one second before access expiry", t0.Add(10*time.Minute - time.Second), true, true, CredentialValid},
		{"at access expiry", t0.Add(10 * time.Minute), false, true, CredentialAccessExpired},
		{"between expiries", t0.Add(30 * time.Minute), false, true, CredentialAccessExpired},
		{"at refresh expiry", t0.Add(time.Hour), false, false, CredentialFullyExpired},
		{"long after", t0.Add(48 * time.Hour), false, false, CredentialFullyExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantAccess, c.IsAccessTokenValid(tt.now))
			assert.Equal(t, tt.wantRefresh, c.IsRefreshTokenValid(tt.now))
			assert.Equal(t, tt.wantState, c.State(tt.now))
		})
	}
}

func TestCredentialState_String(t *testing.T) {
	assert.Equal(t, "valid", CredentialValid.String())
	assert.Equal(t, "access_expired", CredentialAccessExpired.String())
	assert.Equal(t, "fully_expired", CredentialFullyExpired.String())
	assert.Equal(t, "unknown", CredentialState(42).String())
}

func TestParseActivationKind(t *testing.T) {
	k, err := ParseActivationKind("email")
	assert.NoError(t, err)
	assert.Equal(t, ActivationEmail, k)

	k, err = ParseActivationKind("phone")
	assert.NoError(t, err)
	assert.Equal(t, ActivationPhone, k)

	_, err = ParseActivationKind("fax")
	assert.Error(t, err)
}

func TestAccount_IsActivated(t *testing.T) {
	assert.False(t, Account{IsGuest: true}.IsActivated())
	now := time.Now()
	assert.True(t, Account{ActivateDate: &now}.IsActivated())
}
