package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"user-roster/pkg/logger"
)

// Logging logs every unary call with its status code and latency. It must
// run after logger.RequestIDInterceptor so the request ID is attached.
func Logging(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)),
		}
		l := logger.WithContext(ctx, log)
		if err != nil {
			l.Warn("grpc call failed", append(fields, zap.Error(err))...)
		} else {
			l.Debug("grpc call", fields...)
		}

		return resp, err
	}
}
