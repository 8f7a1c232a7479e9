package auth

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/dmitrijs2005/idkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken()
	require.NoError(t, err)
	b, err := GenerateToken()
	require.NoError(t, err)

	assert.Len(t, a, common.TokenSize*2)
	assert.NotEqual(t, a, b)

	raw, err := hex.DecodeString(a)
	require.NoError(t, err)
	assert.Len(t, raw, common.TokenSize)
}

func TestExpiryFrom(t *testing.T) {
	t0 := time.Date(2021, 6, 1, 12, 0, 0, 500, time.UTC)

	assert.Equal(t, t0.Add(15*time.Minute), ExpiryFrom(t0, 900))
	assert.Equal(t, t0, ExpiryFrom(t0, 0), "zero duration is already expired at base")
	assert.Equal(t, t0.Add(-time.Second), ExpiryFrom(t0, -1), "no clamping")
}

func TestTokenConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     TokenConfig
		wantErr bool
	}{
		{"ok", TokenConfig{AccessTokenTTLSeconds: 60, RefreshTokenTTLSeconds: 180, ActivationTTLSeconds: 3600}, false},
		{"zero access allowed", TokenConfig{AccessTokenTTLSeconds: 0, RefreshTokenTTLSeconds: 1}, false},
		{"refresh equal to access", TokenConfig{AccessTokenTTLSeconds: 60, RefreshTokenTTLSeconds: 60}, true},
		{"refresh shorter", TokenConfig{AccessTokenTTLSeconds: 60, RefreshTokenTTLSeconds: 30}, true},
		{"negative activation", TokenConfig{AccessTokenTTLSeconds: 1, RefreshTokenTTLSeconds: 2, ActivationTTLSeconds: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
