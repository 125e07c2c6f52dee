package health

import (
	"context"
	"fmt"
	"net"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// GRPCServer serves the standard grpc.health.v1 service
type GRPCServer struct {
	serviceName string
	port        int
	server      *grpc.Server
	health      *grpchealth.Server
	logger      *logrus.Logger
}

// NewGRPCServer creates a gRPC health server. Every service starts NOT_SERVING.
func NewGRPCServer(serviceName string, port int, logger *logrus.Logger) *GRPCServer {
	if logger == nil {
		logger = logrus.New()
	}
	hs := grpchealth.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(serviceName, healthpb.HealthCheckResponse_NOT_SERVING)

	server := grpc.NewServer()
	healthpb.RegisterHealthServer(server, hs)

	return &GRPCServer{
		serviceName: serviceName,
		port:        port,
		server:      server,
		health:      hs,
		logger:      logger,
	}
}

// SetServing flips the overall and per-service status
func (g *GRPCServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	g.health.SetServingStatus("", status)
	g.health.SetServingStatus(g.serviceName, status)
}

// Start listens on the configured port and serves until ctx is done
func (g *GRPCServer) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", g.port))
	if err != nil {
		return fmt.Errorf("failed to listen for grpc health: %w", err)
	}

	go func() {
		g.logger.WithField("port", g.port).Info("gRPC health server starting")
		if err := g.server.Serve(lis); err != nil && err != grpc.ErrServerStopped {
			g.logger.WithError(err).Error("gRPC health server error")
		}
	}()

	go func() {
		<-ctx.Done()
		g.Shutdown()
	}()
	return nil
}

// Shutdown marks every service NOT_SERVING and stops the server
func (g *GRPCServer) Shutdown() {
	g.health.Shutdown()
	g.server.GracefulStop()
}
