// Package health runs the gRPC health and reflection endpoint used by
// orchestrators and grpcurl.
package health

import (
	"context"
	"net"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// CatalogService is the health service name tracking the products table.
const CatalogService = "storefront.catalog"

type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	grpc   *grpc.Server
	health *grpchealth.Server
	log    *zap.Logger
}

func NewServer(log *zap.Logger) *Server {
	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := grpchealth.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	// Enable reflection for grpcurl/grpcui
	reflection.Register(grpcServer)

	return &Server{grpc: grpcServer, health: healthServer, log: log}
}

func (s *Server) Serve(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// Watch pings dep every interval and publishes the result as the serving
// status of service. It returns when ctx is done.
func (s *Server) Watch(ctx context.Context, service string, dep Pinger, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	last := grpc_health_v1.HealthCheckResponse_UNKNOWN
	for {
		status := s.probe(ctx, dep, every)
		if status != last {
			s.log.Info("health status changed", zap.String("service", service), zap.Stringer("status", status))
			last = status
		}
		s.health.SetServingStatus(service, status)

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) probe(ctx context.Context, dep Pinger, timeout time.Duration) grpc_health_v1.HealthCheckResponse_ServingStatus {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := dep.Ping(pingCtx); err != nil {
		s.log.Debug("health probe failed", zap.Error(err))
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	return grpc_health_v1.HealthCheckResponse_SERVING
}

// GracefulStop reports NOT_SERVING to watchers, then drains the server.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
