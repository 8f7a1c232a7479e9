// Package client is a gRPC client for the identity service. It keeps the
// device's token pair and refreshes it transparently when the access token
// is rejected.
package client

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/idkeeper/internal/common"
	gs "github.com/dmitrijs2005/idkeeper/internal/server/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Session is the token pair held by a device.
type Session struct {
	AccountID    string
	AccessToken  string
	RefreshToken string
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      *gs.IdentityClient

	mu      sync.Mutex
	session Session
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the access token and, when the server
// rejects it, rotates the pair once and retries the call.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	sess := s.Session()
	if sess.AccessToken == "" || method == "/"+gs.ServiceName+"/RefreshToken" {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	err := invoker(withAccessToken(ctx, sess.AccessToken), method, req, reply, cc, opts...)
	if status.Code(err) != codes.Unauthenticated || sess.RefreshToken == "" {
		return err
	}

	if rerr := s.Refresh(ctx); rerr != nil {
		return err
	}

	return invoker(withAccessToken(ctx, s.Session().AccessToken), method, req, reply, cc, opts...)
}

func NewIdentityClientService(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(extra ...grpc.DialOption) error {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, extra...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = gs.NewIdentityClient(conn)
	return nil
}

// Session returns a copy of the current token pair.
func (s *GRPCClient) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// SetSession restores a previously saved token pair.
func (s *GRPCClient) SetSession(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = sess
}

// RegisterDevice creates a guest account for the device and keeps its
// token pair.
func (s *GRPCClient) RegisterDevice(ctx context.Context, deviceUUID, device, platform string, languages []string) (*gs.CreateAccountResponse, error) {
	resp, err := s.client.CreateAccount(ctx, &gs.CreateAccountRequest{
		DeviceUUID: deviceUUID,
		Device:     device,
		Platform:   platform,
		Languages:  languages,
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	s.SetSession(Session{
		AccountID:    resp.AccountID,
		AccessToken:  resp.Credential.AccessToken,
		RefreshToken: resp.Credential.RefreshToken,
	})
	return resp, nil
}

// Refresh rotates the stored token pair.
func (s *GRPCClient) Refresh(ctx context.Context) error {
	sess := s.Session()
	if sess.RefreshToken == "" {
		return ErrNoSession
	}

	resp, err := s.client.RefreshToken(ctx, &gs.RefreshTokenRequest{RefreshToken: sess.RefreshToken})
	if err != nil {
		return s.mapError(err)
	}

	s.mu.Lock()
	s.session.AccessToken = resp.Credential.AccessToken
	s.session.RefreshToken = resp.Credential.RefreshToken
	s.mu.Unlock()
	return nil
}

// Verify asks the server whether token is a live access token.
func (s *GRPCClient) Verify(ctx context.Context, token string) (bool, error) {
	resp, err := s.client.VerifyAccessToken(ctx, &gs.VerifyAccessTokenRequest{AccessToken: token})
	if err != nil {
		return false, s.mapError(err)
	}
	return resp.Valid, nil
}

// RequestActivation starts email or phone verification for the session's
// account.
func (s *GRPCClient) RequestActivation(ctx context.Context, kind string) (*gs.RequestActivationResponse, error) {
	if s.Session().AccessToken == "" {
		return nil, ErrNoSession
	}
	resp, err := s.client.RequestActivation(ctx, &gs.RequestActivationRequest{Kind: kind})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &gs.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.InvalidArgument:
		return ErrInvalidInput
	case codes.Unavailable:
		return ErrUnavailable
	default:
		return err
	}
}
