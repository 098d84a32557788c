package grpc

import (
	"context"
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName health service name reported next to the overall ("") status
const ServiceName = "hth.CourseRegistration"

// Pinger checks a dependency the service cannot work without
type Pinger func(ctx context.Context) error

// Server wraps the gRPC server; it exposes grpc.health.v1.Health whose
// status follows the result of the last CheckHealth
type Server struct {
	grpcServer *grpc.Server
	listener   net.Listener
	health     *health.Server
	ping       Pinger
	logger     *zap.Logger
}

func NewServer(port int, ping Pinger, logger *zap.Logger) (*Server, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", port, err)
	}
	return newServer(listener, ping, logger), nil
}

func newServer(listener net.Listener, ping Pinger, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	s := &Server{
		grpcServer: grpcServer,
		listener:   listener,
		health:     healthServer,
		ping:       ping,
		logger:     logger,
	}
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// CheckHealth pings the dependency and publishes the result
func (s *Server) CheckHealth(ctx context.Context) error {
	if err := s.ping(ctx); err != nil {
		s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return fmt.Errorf("health check: %w", err)
	}
	s.setStatus(healthpb.HealthCheckResponse_SERVING)
	return nil
}

func (s *Server) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Start starts the gRPC server (blocking)
func (s *Server) Start() error {
	s.logger.Info("grpc server listening", zap.String("addr", s.GetAddr()))
	return s.grpcServer.Serve(s.listener)
}

// Stop marks the service as not serving and drains in-flight calls
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

// GetAddr returns the server address
func (s *Server) GetAddr() string {
	return s.listener.Addr().String()
}
