package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/idkeeper/internal/common"
	"github.com/dmitrijs2005/idkeeper/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestServer(t *testing.T) (*GRPCServer, string) {
	t.Helper()
	svc := newAuthService(repomanager.NewMemoryRepositoryManager())
	_, cred, err := svc.CreateAccount(context.Background(), "d-1", "iPhone", "iOS", nil, t0)
	require.NoError(t, err)

	s := NewGRPCServer("", nopLogger{}, svc)
	s.now = func() time.Time { return t0 }
	return s, cred.AccessToken
}

func TestInterceptor_UnprotectedAllowsWithoutToken(t *testing.T) {
	s, _ := newTestServer(t)

	info := &grpc.UnaryServerInfo{FullMethod: fullMethod("Ping")}
	handlerCalled := false
	h := func(ctx context.Context, req any) (any, error) {
		handlerCalled = true
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
	require.NoError(t, err)
	assert.True(t, handlerCalled)
	assert.Equal(t, "ok", resp)
}

func TestInterceptor_MissingToken(t *testing.T) {
	s, _ := newTestServer(t)

	info := &grpc.UnaryServerInfo{FullMethod: fullMethod("RequestActivation")}
	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called when token missing")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestInterceptor_ValidTokenPutsCredentialInContext(t *testing.T) {
	s, token := newTestServer(t)

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AccessTokenHeaderName, token))
	info := &grpc.UnaryServerInfo{FullMethod: fullMethod("RequestActivation")}

	var accountID string
	h := func(ctx context.Context, req any) (any, error) {
		cred, ok := credentialFromContext(ctx)
		if ok {
			accountID = cred.AccountID
		}
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(ctx, nil, info, h)
	require.NoError(t, err)
	assert.NotEmpty(t, accountID)
}

func TestInterceptor_ExpiredToken(t *testing.T) {
	s, token := newTestServer(t)
	s.now = func() time.Time { return t0.Add(time.Hour) }

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AccessTokenHeaderName, token))
	info := &grpc.UnaryServerInfo{FullMethod: fullMethod("RequestActivation")}
	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called for expired token")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(ctx, nil, info, h)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}
