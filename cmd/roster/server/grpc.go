package server

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpcadapter "user-roster/internal/adapter/grpc"
	"user-roster/internal/adapter/grpc/middleware"
	"user-roster/internal/adapter/ratelimit"
	"user-roster/pkg/logger"
)

// SetupGRPC creates the gRPC server with the roster and health services.
func SetupGRPC(roster *grpcadapter.RosterServer, limiter *ratelimit.Limiter, l *zap.Logger) (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RequestIDInterceptor(),
			middleware.Logging(l),
			middleware.RateLimit(limiter),
		),
	)

	roster.Register(grpcServer)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(grpcadapter.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, hs)

	return grpcServer, hs
}
