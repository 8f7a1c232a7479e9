package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/idkeeper/internal/common"
	"github.com/dmitrijs2005/idkeeper/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) CreateAccount(ctx context.Context, req *CreateAccountRequest) (*CreateAccountResponse, error) {
	if req.DeviceUUID == "" || req.Device == "" || req.Platform == "" {
		return nil, status.Error(codes.InvalidArgument, "deviceUuid, device and platform are required")
	}

	account, cred, err := s.auth.CreateAccount(ctx, req.DeviceUUID, req.Device, req.Platform, req.Languages, s.now())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &CreateAccountResponse{
		AccountID:  account.ID,
		IsGuest:    account.IsGuest,
		Languages:  account.Preferences.Languages,
		Credential: credentialMessage(cred),
	}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *RefreshTokenRequest) (*RefreshTokenResponse, error) {
	if req.RefreshToken == "" {
		return nil, status.Error(codes.InvalidArgument, "refreshToken is required")
	}

	cred, err := s.auth.RefreshCredential(ctx, req.RefreshToken, s.now())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &RefreshTokenResponse{Credential: credentialMessage(cred)}, nil
}

func (s *GRPCServer) VerifyAccessToken(ctx context.Context, req *VerifyAccessTokenRequest) (*VerifyAccessTokenResponse, error) {
	if req.AccessToken == "" {
		return nil, status.Error(codes.InvalidArgument, "accessToken is required")
	}

	ok, err := s.auth.VerifyAccessToken(ctx, req.AccessToken, s.now())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &VerifyAccessTokenResponse{Valid: ok}, nil
}

func (s *GRPCServer) RequestActivation(ctx context.Context, req *RequestActivationRequest) (*RequestActivationResponse, error) {
	cred, ok := credentialFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	kind, err := models.ParseActivationKind(req.Kind)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	a, err := s.auth.RequestActivation(ctx, cred.AccountID, kind, s.now())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &RequestActivationResponse{
		ActivationID:     a.ID,
		Kind:             string(a.Kind),
		VerifyExpireDate: a.VerifyExpireDate,
	}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *PingRequest) (*PingResponse, error) {
	if err := s.auth.Ping(ctx); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &PingResponse{Status: "OK"}, nil
}

// toStatus maps service errors onto gRPC codes. Anything unrecognised is
// treated as a storage failure.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, common.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrDuplicateEmail):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		return status.Error(codes.Unavailable, "service unavailable")
	}
}
