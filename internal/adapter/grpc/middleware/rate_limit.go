package middleware

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"user-roster/internal/adapter/ratelimit"
)

// RateLimit returns a gRPC unary interceptor that rejects calls over the
// limiter's window with codes.ResourceExhausted. Calls are counted per
// method and client address.
func RateLimit(limiter *ratelimit.Limiter) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		// Redis errors are logged by the limiter and the call goes through
		d, _ := limiter.Allow(ctx, info.FullMethod, clientIP(ctx))
		if !d.Allowed {
			return nil, status.Errorf(codes.ResourceExhausted,
				"rate limit exceeded: %d requests in %s (limit: %d)",
				d.Count, d.Window, d.Limit)
		}

		return handler(ctx, req)
	}
}

// clientIP extracts the client host from the gRPC context. The peer's port
// is dropped so every connection from one host shares a bucket.
func clientIP(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if xff := md.Get("x-forwarded-for"); len(xff) > 0 {
			return xff[0]
		}
		if xri := md.Get("x-real-ip"); len(xri) > 0 {
			return xri[0]
		}
	}

	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		addr := p.Addr.String()
		if host, _, err := net.SplitHostPort(addr); err == nil {
			return host
		}
		return addr
	}

	return "unknown"
}
