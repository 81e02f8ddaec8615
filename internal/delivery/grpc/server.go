package grpc

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	grpcgo "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

type Server struct {
	*grpcgo.Server
	health *health.Server
}

func NewServer(handler CatalogServer, logger *logrus.Logger) *Server {
	s := grpcgo.NewServer(grpcgo.ChainUnaryInterceptor(LoggingInterceptor(logger)))
	hs := health.NewServer()

	RegisterCatalogServer(s, handler)
	healthpb.RegisterHealthServer(s, hs)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	reflection.Register(s)

	return &Server{Server: s, health: hs}
}

// GracefulStop reports NOT_SERVING to health checkers before draining.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.Server.GracefulStop()
}

func LoggingInterceptor(logger *logrus.Logger) grpcgo.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpcgo.UnaryServerInfo, handler grpcgo.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		entry := logger.WithFields(logrus.Fields{
			"method":     info.FullMethod,
			"code":       status.Code(err).String(),
			"latency_ms": time.Since(start).Milliseconds(),
		})
		if err != nil {
			entry.Warnf("gRPC call failed: %v", err)
		} else {
			entry.Info("gRPC call completed")
		}
		return resp, err
	}
}
