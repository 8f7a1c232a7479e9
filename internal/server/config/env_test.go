package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_OverlaysSetVariables(t *testing.T) {
	withoutDotenv(t)
	t.Setenv("IDKEEPER_GRPC_ADDR", ":7000")
	t.Setenv("IDKEEPER_STORAGE", "mongo")
	t.Setenv("IDKEEPER_ACCESS_TOKEN_TTL", "90s")

	var c Config
	c.LoadDefaults()
	require.NoError(t, parseEnv(&c))

	assert.Equal(t, ":7000", c.EndpointAddrGRPC)
	assert.Equal(t, StorageMongo, c.StorageDriver)
	assert.Equal(t, 90*time.Second, c.AccessTokenValidityDuration)
	assert.Equal(t, 30*24*time.Hour, c.RefreshTokenValidityDuration, "unset variables keep defaults")
}

func TestParseEnv_BadDuration(t *testing.T) {
	withoutDotenv(t)
	t.Setenv("IDKEEPER_REFRESH_TOKEN_TTL", "forever")

	var c Config
	assert.Error(t, parseEnv(&c))
}

func TestParseEnv_DotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("IDKEEPER_MONGO_DATABASE=from_dotenv\n"), 0o600))

	orig := dotenvFile
	dotenvFile = path
	t.Cleanup(func() { dotenvFile = orig })

	// registers cleanup so the variable loaded from the file is removed again
	t.Setenv("IDKEEPER_MONGO_DATABASE", "")
	require.NoError(t, os.Unsetenv("IDKEEPER_MONGO_DATABASE"))

	var c Config
	c.LoadDefaults()
	require.NoError(t, parseEnv(&c))
	assert.Equal(t, "from_dotenv", c.MongoDatabase)
}
