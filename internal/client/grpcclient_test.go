package client

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/idkeeper/internal/logging"
	"github.com/dmitrijs2005/idkeeper/internal/server/auth"
	gs "github.com/dmitrijs2005/idkeeper/internal/server/grpc"
	"github.com/dmitrijs2005/idkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/idkeeper/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

func newBufClient(t *testing.T, tokens auth.TokenConfig) *GRPCClient {
	t.Helper()

	svc := services.NewAuthenticationService(
		repomanager.NewMemoryRepositoryManager(), tokens, []byte("secret"),
		auth.BcryptVerifier{Cost: bcrypt.MinCost}, logging.Nop{},
	)
	srv := gs.NewGRPCServer("bufnet", logging.Nop{}, svc)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	c := &GRPCClient{endpointURL: "passthrough:///bufnet"}
	err := c.InitGRPCClient(grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	})
	return c
}

var defaultTokens = auth.TokenConfig{AccessTokenTTLSeconds: 900, RefreshTokenTTLSeconds: 86400, ActivationTTLSeconds: 3600}

func TestRegisterDeviceAndActivate(t *testing.T) {
	c := newBufClient(t, defaultTokens)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	_, err := c.RequestActivation(ctx, "email")
	assert.ErrorIs(t, err, ErrNoSession)

	resp, err := c.RegisterDevice(ctx, "d-1", "iPhone", "iOS", []string{"en"})
	require.NoError(t, err)
	assert.Equal(t, resp.AccountID, c.Session().AccountID)

	ok, err := c.Verify(ctx, c.Session().AccessToken)
	require.NoError(t, err)
	assert.True(t, ok)

	act, err := c.RequestActivation(ctx, "phone")
	require.NoError(t, err)
	assert.Equal(t, "phone", act.Kind)

	_, err = c.RequestActivation(ctx, "fax")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegisterDevice_InvalidInput(t *testing.T) {
	c := newBufClient(t, defaultTokens)

	_, err := c.RegisterDevice(context.Background(), "", "iPhone", "iOS", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestInterceptor_RefreshesRejectedAccessToken(t *testing.T) {
	c := newBufClient(t, defaultTokens)
	ctx := context.Background()

	_, err := c.RegisterDevice(ctx, "d-1", "iPhone", "iOS", nil)
	require.NoError(t, err)

	sess := c.Session()
	c.SetSession(Session{AccountID: sess.AccountID, AccessToken: "stale", RefreshToken: sess.RefreshToken})

	_, err = c.RequestActivation(ctx, "email")
	require.NoError(t, err)

	after := c.Session()
	assert.NotEqual(t, "stale", after.AccessToken)
	assert.NotEqual(t, sess.RefreshToken, after.RefreshToken)
}

func TestInterceptor_GivesUpWhenRefreshFails(t *testing.T) {
	c := newBufClient(t, defaultTokens)

	c.SetSession(Session{AccessToken: "stale", RefreshToken: "also-stale"})

	_, err := c.RequestActivation(context.Background(), "email")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefresh_NoSession(t *testing.T) {
	c := newBufClient(t, defaultTokens)
	assert.ErrorIs(t, c.Refresh(context.Background()), ErrNoSession)
}
