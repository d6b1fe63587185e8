package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"user-roster/cmd/roster/di"
	"user-roster/internal/config"
)

// Server runs the REST and gRPC listeners until its context is canceled.
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	GRPC   *grpc.Server
	HTTP   *http.Server
	Health *health.Server

	grpcLis net.Listener
	httpLis net.Listener
}

// New creates a new server instance
func New(cfg *config.Config, l *zap.Logger, c *di.Container) *Server {
	grpcServer, hs := SetupGRPC(c.Roster, c.RateLimiter, l)

	return &Server{
		Config: cfg,
		Logger: l,
		GRPC:   grpcServer,
		HTTP:   SetupGinServer(c.UserHandler, c.KVHandler, c.RateLimiter, l),
		Health: hs,
	}
}

// Listen binds both ports. Port "0" picks a free port.
func (s *Server) Listen(ctx context.Context) error {
	lc := net.ListenConfig{}

	grpcLis, err := lc.Listen(ctx, "tcp", ":"+s.Config.App.GRPCPort)
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC: %w", err)
	}

	httpLis, err := lc.Listen(ctx, "tcp", ":"+s.Config.App.HTTPPort)
	if err != nil {
		_ = grpcLis.Close()
		return fmt.Errorf("failed to listen for HTTP: %w", err)
	}

	s.grpcLis, s.httpLis = grpcLis, httpLis
	return nil
}

// GRPCAddr returns the bound gRPC address; valid after Listen.
func (s *Server) GRPCAddr() string { return s.grpcLis.Addr().String() }

// HTTPAddr returns the bound HTTP address; valid after Listen.
func (s *Server) HTTPAddr() string { return s.httpLis.Addr().String() }

// Serve blocks until ctx is canceled or a server fails, then shuts both
// servers down within SHUTDOWN_TIMEOUT_SECONDS.
func (s *Server) Serve(ctx context.Context) error {
	if s.grpcLis == nil || s.httpLis == nil {
		return errors.New("server is not listening")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.Logger.Info("gRPC server running", zap.String("address", s.GRPCAddr()))
		// ErrServerStopped: shutdown won the race against Serve
		if err := s.GRPC.Serve(s.grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.Logger.Info("REST server running", zap.String("address", s.HTTPAddr()))
		if err := s.HTTP.Serve(s.httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("REST server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

// Run listens and serves.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(ctx); err != nil {
		return err
	}
	return s.Serve(ctx)
}

func (s *Server) shutdown() error {
	timeout := time.Duration(s.Config.App.ShutdownTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.Logger.Info("starting graceful shutdown", zap.Duration("timeout", timeout))
	s.Health.Shutdown()

	var errs []error
	if err := s.HTTP.Shutdown(ctx); err != nil {
		s.Logger.Error("failed to shutdown REST server", zap.Error(err))
		errs = append(errs, fmt.Errorf("REST shutdown: %w", err))
	}

	stopped := make(chan struct{})
	go func() {
		s.GRPC.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		s.Logger.Warn("gRPC graceful stop timed out, forcing stop")
		s.GRPC.Stop()
	}

	return errors.Join(errs...)
}
