// Package grpc exposes the lookup pipeline as a gRPC service.
package grpc

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_zap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"leetstats/internal/core"
	"leetstats/pkg/logger"
)

// Server represents the gRPC server
type Server struct {
	server *grpc.Server
	addr   string
	health *health.Server
	stop   chan struct{}
	once   sync.Once
}

// NewServer creates a new gRPC server with the stats, health and
// reflection services registered
func NewServer(addr string, fetcher core.Fetcher, timeout time.Duration) *Server {
	healthServer := health.NewServer()
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	recoveryOpts := []grpc_recovery.Option{
		grpc_recovery.WithRecoveryHandler(func(p interface{}) error {
			logger.Errorf("gRPC handler panic recovered: %v", p)
			return status.Errorf(codes.Internal, "internal error")
		}),
	}

	zapLogger := logger.L()
	server := grpc.NewServer(
		grpc.UnaryInterceptor(grpc_middleware.ChainUnaryServer(
			grpc_zap.UnaryServerInterceptor(zapLogger),
			grpc_recovery.UnaryServerInterceptor(recoveryOpts...),
		)),
		grpc.StreamInterceptor(grpc_middleware.ChainStreamServer(
			grpc_zap.StreamServerInterceptor(zapLogger),
			grpc_recovery.StreamServerInterceptor(recoveryOpts...),
		)),
	)

	server.RegisterService(&StatsServiceDesc, NewStatsService(fetcher, timeout))
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	reflection.Register(server)

	return &Server{
		server: server,
		addr:   addr,
		health: healthServer,
		stop:   make(chan struct{}),
	}
}

// Start begins listening for gRPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	go s.Serve(listener)
	return nil
}

// Serve accepts connections on lis until Stop
func (s *Server) Serve(lis net.Listener) {
	logger.Infof("gRPC server listening on %s", lis.Addr())
	if err := s.server.Serve(lis); err != nil {
		logger.Errorf("gRPC server stopped: %v", err)
	}
}

// Stop gracefully shuts down the server
func (s *Server) Stop() {
	s.once.Do(func() {
		logger.Info("gRPC server stopping...")
		s.health.Shutdown()
		s.server.GracefulStop()
		close(s.stop)
		logger.Info("gRPC server stopped")
	})
}

// WaitForShutdown blocks until server is stopped
func (s *Server) WaitForShutdown(ctx context.Context) {
	select {
	case <-ctx.Done():
		s.Stop()
	case <-s.stop:
	}
}
