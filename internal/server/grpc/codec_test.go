package grpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestJSONCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(codecName)
	require.NotNil(t, c)
	assert.Equal(t, "json", c.Name())

	b, err := c.Marshal(&VerifyAccessTokenRequest{AccessToken: "abc"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"accessToken":"abc"}`, string(b))

	var out VerifyAccessTokenRequest
	require.NoError(t, c.Unmarshal(b, &out))
	assert.Equal(t, "abc", out.AccessToken)
}
