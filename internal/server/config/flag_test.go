package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-m", "memory", "-d", "db", "-u", "mongodb://x", "-n", "ids",
				"-s", "secret", "-t", "1", "-r", "3", "-v", "60", "-l", "debug", "-o", "http://otel:4318",
			},
			expected: &Config{
				EndpointAddrGRPC:             "127.0.0.1:9090",
				StorageDriver:                "memory",
				DatabaseDSN:                  "db",
				MongoURI:                     "mongodb://x",
				MongoDatabase:                "ids",
				SecretKey:                    "secret",
				AccessTokenValidityDuration:  1 * time.Minute,
				RefreshTokenValidityDuration: 3 * time.Minute,
				ActivationValidityDuration:   time.Hour,
				LogLevel:                     "debug",
				OTLPEndpoint:                 "http://otel:4318",
			},
		},
		{
			name:     "foreign flags are ignored",
			args:     []string{"-c", "cfg.json", "-x", "1"},
			expected: &Config{},
		},
		{
			name:    "non-numeric duration",
			args:    []string{"-t", "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}
			err := parseFlags(config, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

func TestParseFlags_UnsetDurationsKeepSubMinuteValues(t *testing.T) {
	config := &Config{AccessTokenValidityDuration: 30 * time.Second}
	require.NoError(t, parseFlags(config, []string{"-a", ":1"}))
	assert.Equal(t, 30*time.Second, config.AccessTokenValidityDuration)
}
