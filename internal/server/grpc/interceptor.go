package grpc

import (
	"context"

	"github.com/dmitrijs2005/idkeeper/internal/common"
	"github.com/dmitrijs2005/idkeeper/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const credentialKey ctxKey = "credential"

// protectedMethods require a valid access token in the call metadata.
var protectedMethods = map[string]bool{
	fullMethod("RequestActivation"): true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !protectedMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			accessToken = values[0]
		}
	}
	if accessToken == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	cred, found, err := s.auth.GetCredentialFromAccessToken(ctx, accessToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if !found || !cred.IsAccessTokenValid(s.now()) {
		return nil, status.Error(codes.Unauthenticated, "invalid or expired token")
	}

	return handler(context.WithValue(ctx, credentialKey, cred), req)
}

func credentialFromContext(ctx context.Context) (*models.Credential, bool) {
	c, ok := ctx.Value(credentialKey).(*models.Credential)
	return c, ok
}
