// Package grpc exposes the authentication service over gRPC.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/idkeeper/internal/logging"
	"github.com/dmitrijs2005/idkeeper/internal/server/services"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// defaultHealthInterval is how often storage reachability is re-checked
// for the health service.
const defaultHealthInterval = 15 * time.Second

type GRPCServer struct {
	address        string
	auth           *services.AuthenticationService
	logger         logging.Logger
	now            func() time.Time
	healthInterval time.Duration
}

func NewGRPCServer(address string, l logging.Logger, auth *services.AuthenticationService) *GRPCServer {
	return &GRPCServer{
		address:        address,
		auth:           auth,
		logger:         l.With("module", "grpc_server"),
		now:            time.Now,
		healthInterval: defaultHealthInterval,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis and stops gracefully when ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(s.accessTokenInterceptor),
	)
	srv.RegisterService(&IdentityServiceDesc, s)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	s.updateHealth(ctx, healthServer)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		s.watchHealth(ctx, healthServer)
		s.logger.Info(ctx, "Stopping gRPC server...")
		healthServer.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	<-stopped
	return nil
}

// watchHealth re-checks storage every healthInterval until ctx is done.
func (s *GRPCServer) watchHealth(ctx context.Context, hs *health.Server) {
	ticker := time.NewTicker(s.healthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.updateHealth(ctx, hs)
		}
	}
}

// updateHealth marks the server NOT_SERVING while storage is unreachable.
func (s *GRPCServer) updateHealth(ctx context.Context, hs *health.Server) {
	st := grpc_health_v1.HealthCheckResponse_SERVING
	if err := s.auth.Ping(ctx); err != nil {
		s.logger.Warn(ctx, "storage unreachable", "error", err)
		st = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	hs.SetServingStatus("", st)
	hs.SetServingStatus(ServiceName, st)
}
